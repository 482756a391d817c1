package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gustafedn/atelier/internal/color"
	"github.com/gustafedn/atelier/internal/stats"
)

// defaultHistoryLimit caps the daily points returned for a source.
const defaultHistoryLimit = 30

// defaultSparklineColor matches the site's warm accent.
const defaultSparklineColor = "#d7c9aa"

// StatsHandlers serves the public stats documents shown on the site.
type StatsHandlers struct {
	repo      stats.Repository
	logger    *slog.Logger
	timeNow   func() time.Time
	lineColor string
}

// NewStatsHandlers creates stats handlers.
func NewStatsHandlers(repo stats.Repository, logger *slog.Logger) *StatsHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsHandlers{repo: repo, logger: logger, timeNow: time.Now, lineColor: defaultSparklineColor}
}

// SetSparklineColor overrides the sparkline accent. Invalid values are
// ignored and the default stays in effect.
func (h *StatsHandlers) SetSparklineColor(hex string) {
	if sanitized := color.SanitizeColor(hex); sanitized != "" {
		h.lineColor = sanitized
	}
}

// documentResponse is the GET /stats/{source} body.
type documentResponse struct {
	Source    string         `json:"source"`
	Data      map[string]any `json:"data"`
	UpdatedAt time.Time      `json:"updated_at"`
	Updated   string         `json:"updated"`
}

// Document handles GET /stats/{source}.
// The reserved source "portfolio" serves the live collection and photo
// counts instead of a stored document.
func (h *StatsHandlers) Document(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	source := r.PathValue("source")
	if source == "" {
		writeError(w, r, http.StatusBadRequest, ErrCodeValidation, "Source is required")
		return
	}

	if source == "portfolio" {
		h.portfolio(w, r)
		return
	}

	doc, err := h.repo.Document(r.Context(), source)
	if err != nil {
		h.logger.Error("failed to load stats document", "source", source, "error", err)
		writeError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load stats")
		return
	}
	if doc == nil {
		writeError(w, r, http.StatusNotFound, ErrCodeNotFound, "No stats for source")
		return
	}

	writeJSON(w, r.Context(), http.StatusOK, documentResponse{
		Source:    doc.Source,
		Data:      doc.Data,
		UpdatedAt: doc.UpdatedAt,
		Updated:   stats.TimeAgo(doc.UpdatedAt, h.timeNow()),
	})
}

// portfolio serves the live portfolio summary.
func (h *StatsHandlers) portfolio(w http.ResponseWriter, r *http.Request) {
	summary, err := h.repo.PortfolioStats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute portfolio stats", "error", err)
		writeError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load stats")
		return
	}
	writeJSON(w, r.Context(), http.StatusOK, summary)
}

// historyResponse is the GET /stats/{source}/history body. The sparkline
// carries the computed trend direction and percent change.
type historyResponse struct {
	Source    string               `json:"source"`
	Points    []stats.HistoryPoint `json:"points"`
	Sparkline stats.Sparkline      `json:"sparkline"`
}

// History handles GET /stats/{source}/history.
func (h *StatsHandlers) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	source := r.PathValue("source")
	if source == "" {
		writeError(w, r, http.StatusBadRequest, ErrCodeValidation, "Source is required")
		return
	}

	points, err := h.repo.History(r.Context(), source, defaultHistoryLimit)
	if err != nil {
		h.logger.Error("failed to load stats history", "source", source, "error", err)
		writeError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load history")
		return
	}
	if len(points) == 0 {
		writeError(w, r, http.StatusNotFound, ErrCodeNotFound, "No history for source")
		return
	}

	values := make([]int64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	writeJSON(w, r.Context(), http.StatusOK, historyResponse{
		Source:    source,
		Points:    points,
		Sparkline: stats.RenderSparkline(values, 120, 32, h.lineColor),
	})
}
