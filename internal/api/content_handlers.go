package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gustafedn/atelier/internal/content"
)

// ContentHandlers serves rendered section fragments and raw markdown.
type ContentHandlers struct {
	loader *content.Loader
	logger *slog.Logger
}

// NewContentHandlers creates content handlers backed by the given loader.
func NewContentHandlers(loader *content.Loader, logger *slog.Logger) *ContentHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentHandlers{loader: loader, logger: logger}
}

// Section handles GET /content/{section...}.
// It returns the rendered HTML fragment for a section path such as "about"
// or "projects/atelier". A failed render still answers 200 with the inline
// error fragment, matching what the navigation layer embeds in the page.
func (h *ContentHandlers) Section(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	section := strings.Trim(r.PathValue("section"), "/")
	if section == "" {
		writeError(w, r, http.StatusBadRequest, ErrCodeValidation, "Section is required")
		return
	}

	fragment, ok := h.loader.Load(section)
	if !ok {
		h.logger.Warn("serving error fragment", "section", section)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(fragment))
}

// RawMarkdown handles GET /content/markdown/{path...}.
// It serves the unrendered markdown source, for clients that render
// themselves.
func (h *ContentHandlers) RawMarkdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	path := strings.Trim(r.PathValue("path"), "/")
	if path == "" {
		writeError(w, r, http.StatusBadRequest, ErrCodeValidation, "Path is required")
		return
	}

	source, err := h.loader.Raw(path)
	if err != nil {
		if errors.Is(err, content.ErrInvalidPath) {
			writeError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid path")
			return
		}
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, r, http.StatusNotFound, ErrCodeNotFound, "Markdown file not found")
			return
		}
		h.logger.Error("failed to read markdown", "path", path, "error", err)
		writeError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to read markdown")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(source)
}
