package nav

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// RenderFunc produces the HTML fragment for a route. The second return
// reports whether the fragment is real content rather than an error
// placeholder.
type RenderFunc func(route Route) (string, bool)

// Section is a registered top-level destination.
type Section struct {
	ID     string
	Title  string
	Render RenderFunc
}

// View is the result of a completed navigation.
type View struct {
	Route      Route
	HTML       string
	OK         bool
	Generation uint64
}

// Router resolves hashes to sections, renders their content, and keeps
// the navigation history. Navigations are stamped with a generation
// counter; a render that finishes after a newer navigation started is
// discarded instead of overwriting the newer view.
type Router struct {
	logger *slog.Logger

	mu       sync.RWMutex
	sections map[string]Section
	order    []string
	current  Route

	generation atomic.Uint64
	history    *History
}

// NewRouter creates a Router with no sections registered.
func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		logger:   logger,
		sections: make(map[string]Section),
		history:  NewHistory(),
	}
}

// Register adds a section. Registration order defines sidebar order.
func (r *Router) Register(section Section) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sections[section.ID]; !exists {
		r.order = append(r.order, section.ID)
	}
	r.sections[section.ID] = section
}

// Sections returns the registered sections in registration order.
func (r *Router) Sections() []Section {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Section, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sections[id])
	}
	return out
}

// Navigate resolves a hash, renders it, and pushes it onto the history.
// An unknown section is a no-op returning nil. A navigation superseded
// by a newer one before its render lands also returns nil.
func (r *Router) Navigate(hash string) *View {
	route := ParseHash(hash)

	r.mu.RLock()
	section, known := r.sections[route.Section]
	r.mu.RUnlock()
	if !known {
		r.logger.Warn("ignoring navigation to unknown section", "section", route.Section)
		return nil
	}

	gen := r.generation.Add(1)
	html, ok := section.Render(route)
	if r.generation.Load() != gen {
		r.logger.Debug("discarding stale navigation", "route", route.Hash(), "generation", gen)
		return nil
	}

	r.mu.Lock()
	r.current = route
	r.history.Push(route)
	r.mu.Unlock()

	return &View{Route: route, HTML: html, OK: ok, Generation: gen}
}

// NavigateToProject opens a project detail page under the stuff
// section.
func (r *Router) NavigateToProject(slug string) *View {
	return r.Navigate("#stuff/" + slug)
}

// NavigateToCollection opens a photo collection detail under the photos
// section.
func (r *Router) NavigateToCollection(id string) *View {
	return r.Navigate("#photos/" + id)
}

// HandlePopState re-renders the route for a hash restored by the browser,
// without pushing a new history entry. Unknown sections fall back to the
// landing section.
func (r *Router) HandlePopState(hash string) *View {
	route := ParseHash(hash)

	r.mu.RLock()
	section, known := r.sections[route.Section]
	if !known {
		route = Route{Section: DefaultSection}
		section, known = r.sections[route.Section]
	}
	r.mu.RUnlock()
	if !known {
		return nil
	}

	gen := r.generation.Add(1)
	html, ok := section.Render(route)
	if r.generation.Load() != gen {
		return nil
	}

	r.mu.Lock()
	r.current = route
	r.mu.Unlock()

	return &View{Route: route, HTML: html, OK: ok, Generation: gen}
}

// Back steps the history back and re-renders without pushing.
func (r *Router) Back() *View {
	r.mu.Lock()
	route, ok := r.history.Back()
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return r.render(route)
}

// Forward steps the history forward and re-renders without pushing.
func (r *Router) Forward() *View {
	r.mu.Lock()
	route, ok := r.history.Forward()
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return r.render(route)
}

// Current returns the route of the most recent completed navigation.
func (r *Router) Current() Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

func (r *Router) render(route Route) *View {
	r.mu.RLock()
	section, known := r.sections[route.Section]
	r.mu.RUnlock()
	if !known {
		return nil
	}

	gen := r.generation.Add(1)
	html, ok := section.Render(route)
	if r.generation.Load() != gen {
		return nil
	}

	r.mu.Lock()
	r.current = route
	r.mu.Unlock()

	return &View{Route: route, HTML: html, OK: ok, Generation: gen}
}
