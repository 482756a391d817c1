package api

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/gustafedn/atelier/internal/analytics"
)

// SessionIDHeader carries the client's per-session identifier. Sessions are
// client-generated; the server only uses them for once-only accounting.
const SessionIDHeader = "X-Session-ID"

// TrackHandlers receives the fire-and-forget tracking calls. Every endpoint
// answers 204 regardless of what happens internally; analytics must never
// surface errors to the visitor.
type TrackHandlers struct {
	tracker *analytics.Tracker
	logger  *slog.Logger
}

// NewTrackHandlers creates tracking handlers.
func NewTrackHandlers(tracker *analytics.Tracker, logger *slog.Logger) *TrackHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackHandlers{tracker: tracker, logger: logger}
}

type pageViewRequest struct {
	Page string `json:"page"`
}

type photoViewRequest struct {
	PhotoSrc   string `json:"photoSrc"`
	Collection string `json:"collection"`
}

// PageView handles POST /track/page.
func (h *TrackHandlers) PageView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	var req pageViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Page == "" {
		// Malformed tracking calls are dropped, not rejected
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.tracker.PageView(r.Context(), req.Page, visitContextFrom(r))
	w.WriteHeader(http.StatusNoContent)
}

// PhotoView handles POST /track/photo.
func (h *TrackHandlers) PhotoView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	var req photoViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PhotoSrc == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.tracker.PhotoView(r.Context(), req.PhotoSrc, req.Collection)
	w.WriteHeader(http.StatusNoContent)
}

// Visit handles POST /track/visit.
// The body is ignored; everything a visit buckets on comes from request
// headers.
func (h *TrackHandlers) Visit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	h.tracker.Visit(r.Context(), visitContextFrom(r))
	w.WriteHeader(http.StatusNoContent)
}

// visitContextFrom extracts the session, user agent, referrer, and client
// IP from a request.
func visitContextFrom(r *http.Request) analytics.VisitContext {
	return analytics.VisitContext{
		SessionID: r.Header.Get(SessionIDHeader),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
		IP:        clientIP(r),
	}
}

// clientIP resolves the originating address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
