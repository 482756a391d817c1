package content

import (
	"fmt"
	"html"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// ErrInvalidPath is returned when a requested markdown path escapes the
// content root.
var ErrInvalidPath = fmt.Errorf("invalid content path")

// Loader renders markdown files beneath a content root and keeps the only
// render cache. Rendered fragments are cached per section path; error
// fragments are never cached so a failed load retries on the next request.
type Loader struct {
	dir      string
	renderer *Renderer
	logger   *slog.Logger

	// readFile is swappable in tests.
	readFile func(name string) ([]byte, error)

	mu    sync.RWMutex
	cache map[string]string
}

// NewLoader creates a Loader rooted at dir, the directory holding the
// markdown files.
func NewLoader(dir string, renderer *Renderer, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		dir:      dir,
		renderer: renderer,
		logger:   logger,
		readFile: os.ReadFile,
		cache:    make(map[string]string),
	}
}

// Load returns the rendered HTML for a section path such as "about" or
// "projects/atelier". The second return reports whether the fragment is an
// error placeholder rather than rendered content.
func (l *Loader) Load(section string) (string, bool) {
	key, err := cleanPath(section)
	if err != nil {
		l.logger.Warn("rejected content path", "section", section)
		return errorFragment(section), false
	}

	l.mu.RLock()
	cached, hit := l.cache[key]
	l.mu.RUnlock()
	if hit {
		return cached, true
	}

	source, err := l.readFile(filepath.Join(l.dir, filepath.FromSlash(key)+".md"))
	if err != nil {
		l.logger.Error("failed to read markdown", "section", key, "error", err)
		return errorFragment(section), false
	}

	rendered, err := l.renderer.Render(source)
	if err != nil {
		l.logger.Error("failed to render markdown", "section", key, "error", err)
		return errorFragment(section), false
	}

	l.mu.Lock()
	l.cache[key] = rendered
	l.mu.Unlock()
	return rendered, true
}

// LoadStatic returns the prebuilt HTML partial for a static section such
// as "front". The partial lives at <dir>/<section>.html and caches the
// same way rendered markdown does.
func (l *Loader) LoadStatic(section string) (string, bool) {
	key, err := cleanPath(section)
	if err != nil {
		l.logger.Warn("rejected content path", "section", section)
		return errorFragment(section), false
	}
	cacheKey := key + ".html"

	l.mu.RLock()
	cached, hit := l.cache[cacheKey]
	l.mu.RUnlock()
	if hit {
		return cached, true
	}

	source, err := l.readFile(filepath.Join(l.dir, filepath.FromSlash(key)+".html"))
	if err != nil {
		l.logger.Error("failed to read partial", "section", key, "error", err)
		return errorFragment(section), false
	}

	fragment := string(source)
	l.mu.Lock()
	l.cache[cacheKey] = fragment
	l.mu.Unlock()
	return fragment, true
}

// Raw returns the unrendered markdown source for a section path. The ".md"
// suffix is optional in the input.
func (l *Loader) Raw(section string) ([]byte, error) {
	section = strings.TrimSuffix(section, ".md")
	key, err := cleanPath(section)
	if err != nil {
		return nil, err
	}
	return l.readFile(filepath.Join(l.dir, filepath.FromSlash(key)+".md"))
}

// Invalidate drops one cached section so the next Load re-reads the file.
func (l *Loader) Invalidate(section string) {
	key, err := cleanPath(section)
	if err != nil {
		return
	}
	l.mu.Lock()
	delete(l.cache, key)
	l.mu.Unlock()
}

// InvalidateAll empties the render cache.
func (l *Loader) InvalidateAll() {
	l.mu.Lock()
	l.cache = make(map[string]string)
	l.mu.Unlock()
}

// CacheSize reports the number of cached fragments.
func (l *Loader) CacheSize() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}

// cleanPath normalizes a section path and rejects traversal outside the
// content root.
func cleanPath(section string) (string, error) {
	key := path.Clean(strings.TrimSpace(section))
	if key == "" || key == "." || key == ".." ||
		strings.HasPrefix(key, "../") || strings.HasPrefix(key, "/") {
		return "", ErrInvalidPath
	}
	return key, nil
}

func errorFragment(section string) string {
	return fmt.Sprintf(`<div class="text-red-400">Error loading %s content</div>`, html.EscapeString(section))
}
