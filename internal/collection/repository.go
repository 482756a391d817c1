package collection

import (
	"context"
	"sync"
)

// Repository defines read access to the collection store.
// Implementations return (nil, nil) for lookups that find nothing; callers
// treat a nil result as "fall back or show empty state", never as a crash
// condition.
type Repository interface {
	// ListVisible returns visible collections with their photos, ordered by
	// the explicit sort order field.
	ListVisible(ctx context.Context) ([]Collection, error)

	// GetByID retrieves a single collection by ID, including hidden ones.
	// Hidden collections stay reachable through direct links even though
	// they are excluded from the public listing.
	GetByID(ctx context.Context, id string) (*Collection, error)

	// FeaturedSetting returns the featured-collection settings document,
	// or nil when none is configured. Expiry is the caller's concern.
	FeaturedSetting(ctx context.Context) (*Featured, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
// Used for testing and as the carrier for static fallback data.
// Thread-safe via RWMutex.
type InMemoryRepository struct {
	mu          sync.RWMutex
	collections []Collection
	featured    *Featured
}

// NewInMemoryRepository creates an in-memory repository seeded with the
// given collections.
func NewInMemoryRepository(collections []Collection) *InMemoryRepository {
	return &InMemoryRepository{
		collections: append([]Collection(nil), collections...),
	}
}

// SetFeatured configures the featured-collection setting.
func (r *InMemoryRepository) SetFeatured(f *Featured) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.featured = f
}

// ListVisible returns visible collections in insertion order.
func (r *InMemoryRepository) ListVisible(ctx context.Context) ([]Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Collection
	for _, c := range r.collections {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out, nil
}

// GetByID retrieves a collection by normalized ID, including hidden ones.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c := FindByID(r.collections, id); c != nil {
		cp := *c
		cp.Photos = append([]Photo(nil), c.Photos...)
		return &cp, nil
	}
	return nil, nil
}

// FeaturedSetting returns the configured featured setting, or nil.
func (r *InMemoryRepository) FeaturedSetting(ctx context.Context) (*Featured, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.featured == nil {
		return nil, nil
	}
	cp := *r.featured
	return &cp, nil
}
