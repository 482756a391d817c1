package api

import (
	"net/http"
	"sync"

	"github.com/gustafedn/atelier/internal/slideshow"
)

// SlideshowHandlers exposes the sidebar slideshow's current frame.
// OnFrame is registered as the slideshow's frame callback so the handler
// always serves the photo currently on screen.
type SlideshowHandlers struct {
	mu      sync.RWMutex
	frame   slideshow.Frame
	hasSeen bool
}

// NewSlideshowHandlers creates slideshow handlers.
func NewSlideshowHandlers() *SlideshowHandlers {
	return &SlideshowHandlers{}
}

// OnFrame records each frame as it becomes current. Pass this to
// slideshow.New as the FrameFunc.
func (h *SlideshowHandlers) OnFrame(frame slideshow.Frame) {
	h.mu.Lock()
	h.frame = frame
	h.hasSeen = true
	h.mu.Unlock()
}

// frameResponse is the GET /slideshow body.
type frameResponse struct {
	Running bool   `json:"running"`
	Index   int    `json:"index,omitempty"`
	Slot    int    `json:"slot,omitempty"`
	Src     string `json:"src,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Current handles GET /slideshow.
// Before the first frame (empty playlist, slideshow not started) the body
// reports running=false.
func (h *SlideshowHandlers) Current(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	h.mu.RLock()
	frame, seen := h.frame, h.hasSeen
	h.mu.RUnlock()

	if !seen {
		writeJSON(w, r.Context(), http.StatusOK, frameResponse{Running: false})
		return
	}

	writeJSON(w, r.Context(), http.StatusOK, frameResponse{
		Running: true,
		Index:   frame.Index,
		Slot:    frame.Slot,
		Src:     frame.Photo.Src,
		Caption: frame.Photo.Caption,
	})
}
