package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gustafedn/atelier/internal/collection"
	"github.com/gustafedn/atelier/internal/gallery"
)

func galleryFixtures() []collection.Collection {
	return []collection.Collection{
		{
			ID:          "1",
			Title:       "Iceland",
			Visible:     true,
			DisplayYear: 2025,
			CreatedAt:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Photos: []collection.Photo{
				{Src: "/photos/iceland/01.jpg", Caption: "Black sand"},
				{Src: "/photos/iceland/02.jpg"},
			},
		},
		{
			ID:          "2",
			Title:       "Archive",
			Visible:     false,
			DisplayYear: 2023,
			CreatedAt:   time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
			Photos: []collection.Photo{
				{Src: "/photos/archive/01.jpg"},
			},
		},
	}
}

func galleryTestServer(repo *collection.InMemoryRepository) (*http.ServeMux, *GalleryHandlers) {
	controller := gallery.NewController(repo, nil, testLogger())
	h := NewGalleryHandlers(controller, repo, testLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("/collections", h.List)
	mux.HandleFunc("/collections/{id}", h.Get)
	mux.HandleFunc("/featured", h.Featured)
	return mux, h
}

func TestGalleryHandlers_List(t *testing.T) {
	repo := collection.NewInMemoryRepository(galleryFixtures())
	mux, _ := galleryTestServer(repo)

	req := httptest.NewRequest(http.MethodGet, "/collections", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp listResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if resp.ComingSoon {
		t.Error("expected coming_soon false when collections exist")
	}
	// Only the visible collection is listed
	if len(resp.Groups) != 1 {
		t.Fatalf("expected 1 year group, got %d", len(resp.Groups))
	}
	if resp.Groups[0].Year != 2025 {
		t.Errorf("expected year 2025, got %d", resp.Groups[0].Year)
	}
	if len(resp.Groups[0].Collections) != 1 || resp.Groups[0].Collections[0].Title != "Iceland" {
		t.Errorf("unexpected collections in group: %+v", resp.Groups[0].Collections)
	}
}

func TestGalleryHandlers_ListEmpty(t *testing.T) {
	repo := collection.NewInMemoryRepository(nil)
	mux, _ := galleryTestServer(repo)

	req := httptest.NewRequest(http.MethodGet, "/collections", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp listResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.ComingSoon {
		t.Error("expected coming_soon true when no collections exist")
	}
}

func TestGalleryHandlers_Get(t *testing.T) {
	repo := collection.NewInMemoryRepository(galleryFixtures())
	mux, _ := galleryTestServer(repo)

	req := httptest.NewRequest(http.MethodGet, "/collections/1", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var coll collection.Collection
	if err := json.Unmarshal(w.Body.Bytes(), &coll); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if coll.Title != "Iceland" {
		t.Errorf("expected title Iceland, got %s", coll.Title)
	}
	if len(coll.Photos) != 2 {
		t.Errorf("expected 2 photos, got %d", len(coll.Photos))
	}
}

func TestGalleryHandlers_GetHiddenCollection(t *testing.T) {
	// Hidden collections stay reachable through direct links
	repo := collection.NewInMemoryRepository(galleryFixtures())
	mux, _ := galleryTestServer(repo)

	req := httptest.NewRequest(http.MethodGet, "/collections/2", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for hidden collection, got %d", w.Code)
	}
}

func TestGalleryHandlers_GetNotFound(t *testing.T) {
	repo := collection.NewInMemoryRepository(galleryFixtures())
	mux, _ := galleryTestServer(repo)

	req := httptest.NewRequest(http.MethodGet, "/collections/999", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Error.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, resp.Error.Code)
	}
}

func TestGalleryHandlers_FeaturedNotConfigured(t *testing.T) {
	repo := collection.NewInMemoryRepository(galleryFixtures())
	mux, _ := galleryTestServer(repo)

	req := httptest.NewRequest(http.MethodGet, "/featured", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 when no featured setting exists, got %d", w.Code)
	}
}

func TestGalleryHandlers_FeaturedExpired(t *testing.T) {
	repo := collection.NewInMemoryRepository(galleryFixtures())
	past := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.SetFeatured(&collection.Featured{CollectionID: "1", FeaturedUntil: &past})

	mux, h := galleryTestServer(repo)
	h.timeNow = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	req := httptest.NewRequest(http.MethodGet, "/featured", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	// An expired setting is treated exactly like an absent one
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for expired featured setting, got %d", w.Code)
	}
}

func TestGalleryHandlers_Featured(t *testing.T) {
	repo := collection.NewInMemoryRepository(galleryFixtures())
	until := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	repo.SetFeatured(&collection.Featured{CollectionID: "1", FeaturedUntil: &until})

	mux, h := galleryTestServer(repo)
	h.timeNow = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	req := httptest.NewRequest(http.MethodGet, "/featured", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp featuredResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Collection == nil || resp.Collection.Title != "Iceland" {
		t.Errorf("expected featured collection Iceland, got %+v", resp.Collection)
	}
	if resp.FeaturedUntil == nil || !resp.FeaturedUntil.Equal(until) {
		t.Errorf("expected featured_until %v, got %v", until, resp.FeaturedUntil)
	}
}

func TestGalleryHandlers_FeaturedNoExpiry(t *testing.T) {
	// A nil FeaturedUntil never expires
	repo := collection.NewInMemoryRepository(galleryFixtures())
	repo.SetFeatured(&collection.Featured{CollectionID: "1"})

	mux, _ := galleryTestServer(repo)

	req := httptest.NewRequest(http.MethodGet, "/featured", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}
