// Package gallery drives the photo section: loading collections from the
// document store with a static fallback, and the lightbox over a single
// collection.
package gallery

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gustafedn/atelier/internal/collection"
)

// ErrNotFound signals that a collection does not exist anywhere; the
// caller redirects to the photo grid.
var ErrNotFound = errors.New("collection not found")

// Controller loads and caches the merged collection list for the photo
// grid and resolves single collections for detail views.
type Controller struct {
	repo     collection.Repository
	fallback []collection.Collection
	logger   *slog.Logger

	mu     sync.RWMutex
	loaded []collection.Collection
}

// NewController creates a Controller. The fallback list is served when the
// document store fails or returns nothing.
func NewController(repo collection.Repository, fallback []collection.Collection, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{repo: repo, fallback: fallback, logger: logger}
}

// LoadCollections fetches visible collections from the store, merges them
// over the fallback, and returns them grouped by year, newest first. Store
// failures degrade to the fallback instead of erroring.
func (c *Controller) LoadCollections(ctx context.Context) []collection.YearGroup {
	stored, err := c.repo.ListVisible(ctx)
	if err != nil {
		c.logger.Error("failed to load collections from store", "error", err)
		stored = nil
	}

	merged := collection.Merge(stored, c.fallback)

	c.mu.Lock()
	c.loaded = merged
	c.mu.Unlock()

	return collection.GroupByYear(merged)
}

// Resolve finds one collection by ID: first in the last loaded set, then
// with a direct store fetch. Returns ErrNotFound when neither has it.
func (c *Controller) Resolve(ctx context.Context, id string) (*collection.Collection, error) {
	c.mu.RLock()
	local := collection.FindByID(c.loaded, id)
	c.mu.RUnlock()
	if local != nil {
		return local, nil
	}

	fetched, err := c.repo.GetByID(ctx, id)
	if err != nil {
		c.logger.Error("failed to fetch collection", "id", id, "error", err)
		return nil, err
	}
	if fetched != nil {
		return fetched, nil
	}

	if fb := collection.FindByID(c.fallback, id); fb != nil {
		return fb, nil
	}
	return nil, ErrNotFound
}

// Loaded returns the merged collections from the last LoadCollections call.
func (c *Controller) Loaded() []collection.Collection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]collection.Collection, len(c.loaded))
	copy(out, c.loaded)
	return out
}
