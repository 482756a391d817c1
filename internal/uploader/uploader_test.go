package uploader

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	imgproc "github.com/gustafedn/atelier/internal/image"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStore struct {
	mu   sync.Mutex
	puts map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{puts: make(map[string][]byte)}
}

func (f *fakeStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts[key] = body
	return nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://storage.example.com/" + key
}

func writeTestJPEG(t *testing.T, path string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
}

func setupPhotosDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	street := filepath.Join(dir, "street")
	if err := os.MkdirAll(street, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	writeTestJPEG(t, filepath.Join(street, "01-city-lights.jpg"), 300, 200)
	writeTestJPEG(t, filepath.Join(street, "02-rainy-day.jpg"), 300, 200)

	// Non-image files and empty folders are ignored
	if err := os.WriteFile(filepath.Join(street, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "empty"), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	return dir
}

func TestCountImages(t *testing.T) {
	dir := setupPhotosDir(t)

	count, err := CountImages(dir)
	if err != nil {
		t.Fatalf("CountImages failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 images, got %d", count)
	}
}

func TestUploader_Run(t *testing.T) {
	dir := setupPhotosDir(t)
	store := newFakeStore()
	u := New(store, imgproc.NewProcessor(imgproc.DefaultConfig()), testLogger())
	u.timeNow = func() time.Time { return time.Date(2025, 8, 30, 10, 0, 0, 0, time.UTC) }

	var progressed int
	u.SetProgress(func(collection, file string) { progressed++ })

	collections, err := u.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(collections) != 1 {
		t.Fatalf("expected 1 collection, got %d", len(collections))
	}

	coll := collections[0]
	if coll.Title != "Street" {
		t.Errorf("expected title Street, got %s", coll.Title)
	}
	if coll.Slug != "street" {
		t.Errorf("expected slug street, got %s", coll.Slug)
	}
	if !coll.Visible {
		t.Error("expected uploaded collection to be visible")
	}
	if coll.DisplayYear != 2025 {
		t.Errorf("expected display year 2025, got %d", coll.DisplayYear)
	}
	if len(coll.Photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(coll.Photos))
	}
	if coll.Photos[0].Caption != "city lights" {
		t.Errorf("expected caption 'city lights', got %s", coll.Photos[0].Caption)
	}
	if !coll.Photos[0].ShowEXIF {
		t.Error("expected show_exif true by default")
	}
	if coll.Photos[0].Src != "https://storage.example.com/portfolio/photos/street/01-city-lights.jpg" {
		t.Errorf("unexpected photo src: %s", coll.Photos[0].Src)
	}
	if coll.Cover != "https://storage.example.com/portfolio/photos/street/_cover.jpg" {
		t.Errorf("unexpected cover: %s", coll.Cover)
	}

	// Two photos plus the cover thumbnail
	if len(store.puts) != 3 {
		t.Errorf("expected 3 uploads, got %d", len(store.puts))
	}
	if _, ok := store.puts["portfolio/photos/street/_cover.jpg"]; !ok {
		t.Error("expected cover upload")
	}
	if progressed != 2 {
		t.Errorf("expected 2 progress callbacks, got %d", progressed)
	}
}

func TestUploader_RunMissingDir(t *testing.T) {
	store := newFakeStore()
	u := New(store, imgproc.NewProcessor(imgproc.DefaultConfig()), testLogger())

	if _, err := u.Run(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing photos dir")
	}
}
