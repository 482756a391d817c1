package nav

// History is a linear stack of visited routes with a cursor, mirroring
// browser session history. Pushing while the cursor sits mid-stack drops
// the forward entries.
type History struct {
	entries []Route
	cursor  int
}

// NewHistory creates an empty History.
func NewHistory() *History {
	return &History{cursor: -1}
}

// Push appends a route at the cursor, discarding any forward entries.
func (h *History) Push(route Route) {
	h.entries = append(h.entries[:h.cursor+1], route)
	h.cursor = len(h.entries) - 1
}

// Back moves the cursor one step back and returns the route there.
func (h *History) Back() (Route, bool) {
	if h.cursor <= 0 {
		return Route{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Forward moves the cursor one step forward and returns the route there.
func (h *History) Forward() (Route, bool) {
	if h.cursor < 0 || h.cursor >= len(h.entries)-1 {
		return Route{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Current returns the route at the cursor.
func (h *History) Current() (Route, bool) {
	if h.cursor < 0 {
		return Route{}, false
	}
	return h.entries[h.cursor], true
}

// Len reports the number of stored entries.
func (h *History) Len() int {
	return len(h.entries)
}
