// Package content renders markdown sections to HTML fragments and caches
// the results per section path.
package content

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Class attributes match the site stylesheet. Every fragment the renderer
// emits is ready to insert into the page without post-processing.
const (
	classH1         = "text-3xl font-light mb-8 text-sand-beige"
	classH2         = "text-2xl font-light mt-12 mb-4 text-sand-beige"
	classH3         = "text-xl font-light mt-8 mb-3 text-sand-beige"
	classParagraph  = "text-stone-gray mb-4 leading-relaxed"
	classStrong     = "text-sand-beige font-medium"
	classEm         = "text-sand-beige"
	classLink       = "text-clay-brown hover:text-sand-beige transition underline"
	classCodeBlock  = "bg-stone-gray/10 rounded-lg p-4 mb-4 overflow-x-auto"
	classCodeInner  = "text-sm text-sand-beige"
	classCodeSpan   = "bg-stone-gray/20 px-2 py-1 rounded text-sm text-sand-beige"
	classBlockquote = "border-l-4 border-clay-brown pl-6 py-2 mb-4 italic text-sand-beige bg-stone-gray/5"
	classList       = "list-disc list-inside space-y-2 mb-4 ml-4"
	classListOrd    = "list-decimal list-inside space-y-2 mb-4 ml-4"
	classListItem   = "text-stone-gray mb-2"
	classRule       = "border-stone-gray/20 my-8"
	classImage      = "rounded-lg mb-6 w-full"
)

// Renderer converts markdown source into site-styled HTML.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer with the portfolio node renderer and the
// tech-stack and project-metadata transforms installed.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&portfolioTransformer{}, 100),
			),
		),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(
				util.Prioritized(&nodeRenderer{}, 500),
			),
		),
	)
	return &Renderer{md: md}
}

// Render converts markdown source to an HTML fragment.
func (r *Renderer) Render(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// nodeRenderer overrides the default HTML output with the site's classes.
type nodeRenderer struct{}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindParagraph, r.renderParagraph)
	reg.Register(ast.KindEmphasis, r.renderEmphasis)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
	reg.Register(ast.KindList, r.renderList)
	reg.Register(ast.KindListItem, r.renderListItem)
	reg.Register(ast.KindThematicBreak, r.renderThematicBreak)
	reg.Register(ast.KindImage, r.renderImage)
	reg.Register(kindTechStack, r.renderTechStack)
	reg.Register(kindProjectMeta, r.renderProjectMeta)
}

func (r *nodeRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	class := ""
	switch n.Level {
	case 1:
		class = classH1
	case 2:
		class = classH2
	case 3:
		class = classH3
	}
	if entering {
		if class != "" {
			fmt.Fprintf(w, `<h%d class="%s">`, n.Level, class)
		} else {
			fmt.Fprintf(w, "<h%d>", n.Level)
		}
	} else {
		fmt.Fprintf(w, "</h%d>\n", n.Level)
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderParagraph(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<p class="` + classParagraph + `">`)
	} else {
		_, _ = w.WriteString("</p>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderEmphasis(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Emphasis)
	tag, class := "em", classEm
	if n.Level == 2 {
		tag, class = "strong", classStrong
	}
	if entering {
		fmt.Fprintf(w, `<%s class="%s">`, tag, class)
	} else {
		fmt.Fprintf(w, "</%s>", tag)
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if entering {
		dest := string(n.Destination)
		if slug, ok := strings.CutPrefix(dest, "projects/"); ok {
			// Internal project references stay inside the hash router.
			fmt.Fprintf(w, `<a href="#stuff/%s" data-project="%s" class="%s">`,
				html.EscapeString(slug), html.EscapeString(slug), classLink)
		} else {
			fmt.Fprintf(w, `<a href="%s" class="%s">`, html.EscapeString(dest), classLink)
		}
	} else {
		_, _ = w.WriteString("</a>")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderCodeSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<code class="` + classCodeSpan + `">`)
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				_, _ = w.WriteString(html.EscapeString(string(t.Segment.Value(source))))
			}
		}
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.WriteString("</code>")
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	if entering {
		_, _ = w.WriteString(`<pre class="` + classCodeBlock + `"><code class="` + classCodeInner + `">`)
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			_, _ = w.WriteString(html.EscapeString(string(line.Value(source))))
		}
	} else {
		_, _ = w.WriteString("</code></pre>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderBlockquote(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<blockquote class="` + classBlockquote + `">`)
	} else {
		_, _ = w.WriteString("</blockquote>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderList(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.List)
	tag, class := "ul", classList
	if n.IsOrdered() {
		tag, class = "ol", classListOrd
	}
	if entering {
		fmt.Fprintf(w, `<%s class="%s">`, tag, class)
	} else {
		fmt.Fprintf(w, "</%s>\n", tag)
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderListItem(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<li class="` + classListItem + `">`)
	} else {
		_, _ = w.WriteString("</li>")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderThematicBreak(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<hr class="` + classRule + `">` + "\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)
	fmt.Fprintf(w, `<img src="%s" alt="%s" class="%s" loading="lazy">`,
		html.EscapeString(string(n.Destination)),
		html.EscapeString(textOf(n, source)),
		classImage)
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderTechStack(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*techStackNode)
	_, _ = w.WriteString(`<div class="mt-4 mb-6"><span class="` + classStrong + `">Tech Stack:</span><div class="flex flex-wrap gap-2 mt-2">`)
	for i, item := range n.items {
		if i > 0 {
			_, _ = w.WriteString(" ")
		}
		fmt.Fprintf(w, `<span class="px-2 py-1 bg-stone-gray/20 rounded text-xs">%s</span>`, html.EscapeString(item))
	}
	_, _ = w.WriteString("</div></div>\n")
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderProjectMeta(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*projectMetaNode)
	fmt.Fprintf(w, `<div class="text-sm text-stone-gray mb-2"><span class="text-sand-beige">%s</span> | %s</div>`+"\n",
		html.EscapeString(n.role), html.EscapeString(n.meta))
	return ast.WalkSkipChildren, nil
}

// textOf concatenates the plain text beneath a node.
func textOf(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				sb.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

var (
	kindTechStack   = ast.NewNodeKind("TechStack")
	kindProjectMeta = ast.NewNodeKind("ProjectMeta")
)

// techStackNode replaces a "**Tech Stack:** a, b, c" paragraph.
type techStackNode struct {
	ast.BaseBlock
	items []string
}

func (n *techStackNode) Kind() ast.NodeKind { return kindTechStack }

func (n *techStackNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Items": strings.Join(n.items, ",")}, nil)
}

// projectMetaNode replaces a "*Role | Year*" paragraph.
type projectMetaNode struct {
	ast.BaseBlock
	role string
	meta string
}

func (n *projectMetaNode) Kind() ast.NodeKind { return kindProjectMeta }

func (n *projectMetaNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Role": n.role, "Meta": n.meta}, nil)
}

// portfolioTransformer rewrites tech-stack and project-metadata paragraphs
// into their dedicated nodes before rendering.
type portfolioTransformer struct{}

func (t *portfolioTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	type swap struct {
		old ast.Node
		new ast.Node
	}
	var swaps []swap

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		p, ok := n.(*ast.Paragraph)
		if !ok {
			return ast.WalkContinue, nil
		}
		if ts := techStackFrom(p, source); ts != nil {
			swaps = append(swaps, swap{old: p, new: ts})
			return ast.WalkSkipChildren, nil
		}
		if pm := projectMetaFrom(p, source); pm != nil {
			swaps = append(swaps, swap{old: p, new: pm})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, s := range swaps {
		parent := s.old.Parent()
		if parent != nil {
			parent.ReplaceChild(parent, s.old, s.new)
		}
	}
}

// techStackFrom matches a paragraph opening with a bold "Tech Stack:" label
// followed by a comma-separated list.
func techStackFrom(p *ast.Paragraph, source []byte) *techStackNode {
	first := p.FirstChild()
	em, ok := first.(*ast.Emphasis)
	if !ok || em.Level != 2 {
		return nil
	}
	if strings.TrimSpace(textOf(em, source)) != "Tech Stack:" {
		return nil
	}

	var rest strings.Builder
	for c := first.NextSibling(); c != nil; c = c.NextSibling() {
		rest.WriteString(textOf(c, source))
	}

	var items []string
	for _, part := range strings.Split(rest.String(), ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return &techStackNode{items: items}
}

// projectMetaFrom matches a paragraph that is a single italic
// "Role | Year" line.
func projectMetaFrom(p *ast.Paragraph, source []byte) *projectMetaNode {
	em, ok := p.FirstChild().(*ast.Emphasis)
	if !ok || em.Level != 1 || em.NextSibling() != nil {
		return nil
	}
	text := textOf(em, source)
	role, meta, found := strings.Cut(text, " | ")
	if !found {
		return nil
	}
	return &projectMetaNode{role: strings.TrimSpace(role), meta: strings.TrimSpace(meta)}
}
