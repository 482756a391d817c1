package api

import (
	"log/slog"
	"net/http"

	"github.com/gustafedn/atelier/internal/nav"
)

// NavHandlers serves prerendered views of hash routes, so crawlers and
// the initial page load get real content for a location like
// "#stuff/atelier" without running the client router.
type NavHandlers struct {
	router *nav.Router
	logger *slog.Logger
}

// NewNavHandlers creates handlers over a configured router.
func NewNavHandlers(router *nav.Router, logger *slog.Logger) *NavHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &NavHandlers{router: router, logger: logger}
}

// viewResponse is the GET /view body.
type viewResponse struct {
	Hash    string `json:"hash"`
	Section string `json:"section"`
	Detail  string `json:"detail,omitempty"`
	HTML    string `json:"html"`
}

// View handles GET /view?hash=... and resolves the hash the way the
// browser history restore does: unknown sections fall back to the
// landing section instead of failing.
func (h *NavHandlers) View(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	view := h.router.HandlePopState(r.URL.Query().Get("hash"))
	if view == nil {
		writeError(w, r, http.StatusNotFound, ErrCodeNotFound, "No view for hash")
		return
	}

	writeJSON(w, r.Context(), http.StatusOK, viewResponse{
		Hash:    view.Route.Hash(),
		Section: view.Route.Section,
		Detail:  view.Route.Detail,
		HTML:    view.HTML,
	})
}
