package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gustafedn/atelier/internal/collection"
	"github.com/gustafedn/atelier/internal/gallery"
)

// GalleryHandlers serves the photo-collection API.
type GalleryHandlers struct {
	controller *gallery.Controller
	repo       collection.Repository
	logger     *slog.Logger
	timeNow    func() time.Time
}

// NewGalleryHandlers creates gallery handlers. The controller carries the
// merged store-plus-fallback listing; the repository serves the featured
// settings document.
func NewGalleryHandlers(controller *gallery.Controller, repo collection.Repository, logger *slog.Logger) *GalleryHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &GalleryHandlers{
		controller: controller,
		repo:       repo,
		logger:     logger,
		timeNow:    time.Now,
	}
}

// listResponse is the GET /collections body. ComingSoon marks the empty
// state so the client renders a placeholder instead of an empty grid.
type listResponse struct {
	Groups     []collection.YearGroup `json:"groups"`
	ComingSoon bool                   `json:"coming_soon"`
}

// List handles GET /collections.
// Collections are grouped by display year, newest year first.
func (h *GalleryHandlers) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	groups := h.controller.LoadCollections(r.Context())
	writeJSON(w, r.Context(), http.StatusOK, listResponse{
		Groups:     groups,
		ComingSoon: len(groups) == 0,
	})
}

// Get handles GET /collections/{id}.
// Hidden collections resolve too, so deep links keep working.
func (h *GalleryHandlers) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, ErrCodeValidation, "Collection ID is required")
		return
	}

	coll, err := h.controller.Resolve(r.Context(), id)
	if err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, ErrCodeNotFound, "Collection not found")
			return
		}
		h.logger.Error("failed to resolve collection", "id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load collection")
		return
	}

	writeJSON(w, r.Context(), http.StatusOK, coll)
}

// featuredResponse is the GET /featured body.
type featuredResponse struct {
	Collection    *collection.Collection `json:"collection"`
	FeaturedUntil *time.Time             `json:"featured_until,omitempty"`
}

// Featured handles GET /featured.
// An expired or missing featured setting answers 404; the client falls
// back to the shuffled all-photos rotation.
func (h *GalleryHandlers) Featured(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	setting, err := h.repo.FeaturedSetting(r.Context())
	if err != nil {
		h.logger.Error("failed to load featured setting", "error", err)
		writeError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load featured setting")
		return
	}
	if setting == nil || setting.Expired(h.timeNow()) {
		writeError(w, r, http.StatusNotFound, ErrCodeNotFound, "No featured collection")
		return
	}

	coll, err := h.controller.Resolve(r.Context(), setting.CollectionID)
	if err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, ErrCodeNotFound, "Featured collection not found")
			return
		}
		h.logger.Error("failed to resolve featured collection", "id", setting.CollectionID, "error", err)
		writeError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load featured collection")
		return
	}

	writeJSON(w, r.Context(), http.StatusOK, featuredResponse{
		Collection:    coll,
		FeaturedUntil: setting.FeaturedUntil,
	})
}
