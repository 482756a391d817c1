// Package slideshow rotates sidebar background photos on a fixed
// interval.
package slideshow

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gustafedn/atelier/internal/collection"
)

// ShuffleFunc shuffles n elements, matching the rand.Shuffle contract.
type ShuffleFunc func(n int, swap func(i, j int))

// PlaylistBuilder assembles the photo rotation. A featured collection that
// has not expired plays in its own order; otherwise every visible photo
// plays in shuffled order.
type PlaylistBuilder struct {
	repo     collection.Repository
	fallback []collection.Collection
	logger   *slog.Logger

	timeNow func() time.Time
	shuffle ShuffleFunc
}

// NewPlaylistBuilder creates a PlaylistBuilder over the document store and
// static fallback.
func NewPlaylistBuilder(repo collection.Repository, fallback []collection.Collection, logger *slog.Logger) *PlaylistBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaylistBuilder{
		repo:     repo,
		fallback: fallback,
		logger:   logger,
		timeNow:  time.Now,
		shuffle:  rand.Shuffle,
	}
}

// Build returns the photos to rotate through. Store failures degrade to
// the fallback list.
func (b *PlaylistBuilder) Build(ctx context.Context) []collection.Photo {
	stored, err := b.repo.ListVisible(ctx)
	if err != nil {
		b.logger.Error("failed to load collections for slideshow", "error", err)
		stored = nil
	}
	merged := collection.Merge(stored, b.fallback)

	if featured := b.featuredPhotos(ctx, merged); featured != nil {
		return featured
	}

	var photos []collection.Photo
	for _, coll := range merged {
		photos = append(photos, coll.Photos...)
	}
	b.shuffle(len(photos), func(i, j int) {
		photos[i], photos[j] = photos[j], photos[i]
	})
	return photos
}

// featuredPhotos returns the featured collection's photos in their stored
// order, or nil when no usable featured setting exists. An expired
// featuredUntil is treated the same as no setting at all.
func (b *PlaylistBuilder) featuredPhotos(ctx context.Context, merged []collection.Collection) []collection.Photo {
	setting, err := b.repo.FeaturedSetting(ctx)
	if err != nil {
		b.logger.Warn("failed to load featured setting", "error", err)
		return nil
	}
	if setting == nil || setting.Expired(b.timeNow()) {
		return nil
	}

	coll := collection.FindByID(merged, setting.CollectionID)
	if coll == nil || len(coll.Photos) == 0 {
		b.logger.Warn("featured collection missing or empty", "id", setting.CollectionID)
		return nil
	}

	photos := make([]collection.Photo, len(coll.Photos))
	copy(photos, coll.Photos)
	return photos
}
