// Package uploader walks a directory of per-collection photo folders,
// optimizes and publishes each image, and folds the result into the
// static fallback data.
package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gustafedn/atelier/internal/collection"
	"github.com/gustafedn/atelier/internal/image"
	"github.com/gustafedn/atelier/internal/upload"
	"github.com/gustafedn/atelier/internal/validate"
)

// Store is the object storage the uploader publishes to.
type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PublicURL(key string) string
}

// ProgressFunc is called once per processed image.
type ProgressFunc func(collection, file string)

// Uploader runs the batch photo pipeline.
type Uploader struct {
	store     Store
	processor *image.Processor
	logger    *slog.Logger
	progress  ProgressFunc
	timeNow   func() time.Time
}

// New creates an Uploader over the given store and processor.
func New(store Store, processor *image.Processor, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		store:     store,
		processor: processor,
		logger:    logger,
		timeNow:   time.Now,
	}
}

// SetProgress registers a per-image progress callback.
func (u *Uploader) SetProgress(fn ProgressFunc) {
	u.progress = fn
}

// CountImages returns the number of images the pipeline would process
// under photosDir, for sizing a progress display.
func CountImages(photosDir string) (int, error) {
	dirs, err := collectionDirs(photosDir)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, dir := range dirs {
		files, err := imageFiles(filepath.Join(photosDir, dir))
		if err != nil {
			return 0, err
		}
		total += len(files)
	}
	return total, nil
}

// Run processes every collection folder under photosDir and returns the
// published collections. Folders without images are skipped.
func (u *Uploader) Run(ctx context.Context, photosDir string) ([]collection.Collection, error) {
	dirs, err := collectionDirs(photosDir)
	if err != nil {
		return nil, err
	}

	var out []collection.Collection
	for _, dir := range dirs {
		coll, err := u.processCollection(ctx, photosDir, dir)
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", dir, err)
		}
		if coll != nil {
			out = append(out, *coll)
		}
	}
	return out, nil
}

// processCollection publishes one folder of images. The first image also
// produces the collection cover thumbnail.
func (u *Uploader) processCollection(ctx context.Context, photosDir, dir string) (*collection.Collection, error) {
	files, err := imageFiles(filepath.Join(photosDir, dir))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		u.logger.Info("no images found, skipping", "collection", dir)
		return nil, nil
	}

	title := Title(dir)
	now := u.timeNow()
	coll := &collection.Collection{
		Title:       title,
		Slug:        Slug(title),
		Visible:     true,
		DisplayYear: now.Year(),
		CreatedAt:   now.UTC(),
	}

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		original, err := os.ReadFile(filepath.Join(photosDir, dir, file))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}

		// EXIF comes from the original; optimization strips it
		exif, err := image.ExtractEXIF(original)
		if err != nil {
			u.logger.Warn("failed to extract EXIF", "file", file, "error", err)
		}

		optimized, err := u.processor.Optimize(original)
		if err != nil {
			return nil, fmt.Errorf("optimize %s: %w", file, err)
		}

		key, err := upload.PhotoKey(dir, trimExtension(file))
		if err != nil {
			return nil, fmt.Errorf("key for %s: %w", file, err)
		}
		if err := u.store.Put(ctx, key, optimized, upload.MIMEImageJPEG); err != nil {
			return nil, err
		}
		u.logger.Info("uploaded photo",
			"collection", dir,
			"file", file,
			"original_bytes", len(original),
			"optimized_bytes", len(optimized))

		if i == 0 {
			cover, err := u.processor.Cover(original)
			if err != nil {
				return nil, fmt.Errorf("cover from %s: %w", file, err)
			}
			coverKey, err := upload.CoverKey(dir)
			if err != nil {
				return nil, err
			}
			if err := u.store.Put(ctx, coverKey, cover, upload.MIMEImageJPEG); err != nil {
				return nil, err
			}
			coll.Cover = u.store.PublicURL(coverKey)
		}

		coll.Photos = append(coll.Photos, collection.Photo{
			Src:       u.store.PublicURL(key),
			Caption:   Caption(file),
			ShowEXIF:  true,
			EXIF:      exif,
			SortOrder: i + 1,
			CreatedAt: now.UTC(),
		})

		if u.progress != nil {
			u.progress(dir, file)
		}
	}
	return coll, nil
}

// collectionDirs lists the subdirectories of photosDir, sorted.
func collectionDirs(photosDir string) ([]string, error) {
	entries, err := os.ReadDir(photosDir)
	if err != nil {
		return nil, fmt.Errorf("read photos dir: %w", err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// imageFiles lists the image files directly inside dir, sorted.
func imageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read collection dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if validate.IsImageFile(e.Name()) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
