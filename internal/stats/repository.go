package stats

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Repository reads public stats and records the tracker's counters.
type Repository interface {
	// PortfolioStats computes the live collection and photo counts.
	PortfolioStats(ctx context.Context) (*PortfolioStats, error)
	// Document returns one public stats document, or (nil, nil) when the
	// source has none.
	Document(ctx context.Context, source string) (*Document, error)
	// History returns up to limit daily points for a source, oldest first.
	History(ctx context.Context, source string, limit int) ([]HistoryPoint, error)

	IncrPageView(ctx context.Context, page string) error
	IncrPhotoView(ctx context.Context, photoSrc, collection string) error
	RecordVisit(ctx context.Context, device, referrer, country, city string) error
}

// InMemoryRepository keeps all counters in process, for tests and for
// running without a database.
type InMemoryRepository struct {
	timeNow func() time.Time

	mu         sync.RWMutex
	portfolio  PortfolioStats
	documents  map[string]*Document
	history    map[string][]HistoryPoint
	pageViews  map[string]int64
	photoViews map[string]int64
	visits     map[string]int64
}

// NewInMemoryRepository creates an empty InMemoryRepository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		timeNow:    time.Now,
		documents:  make(map[string]*Document),
		history:    make(map[string][]HistoryPoint),
		pageViews:  make(map[string]int64),
		photoViews: make(map[string]int64),
		visits:     make(map[string]int64),
	}
}

// SetPortfolioStats seeds the live summary.
func (r *InMemoryRepository) SetPortfolioStats(s PortfolioStats) {
	r.mu.Lock()
	r.portfolio = s
	r.mu.Unlock()
}

// SetDocument stores one public stats document.
func (r *InMemoryRepository) SetDocument(doc *Document) {
	r.mu.Lock()
	r.documents[doc.Source] = doc
	r.mu.Unlock()
}

// SetHistory stores a source's history series, oldest first.
func (r *InMemoryRepository) SetHistory(source string, points []HistoryPoint) {
	r.mu.Lock()
	r.history[source] = points
	r.mu.Unlock()
}

func (r *InMemoryRepository) PortfolioStats(ctx context.Context) (*PortfolioStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.portfolio
	return &s, nil
}

func (r *InMemoryRepository) Document(ctx context.Context, source string) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.documents[source]
	if !ok {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

func (r *InMemoryRepository) History(ctx context.Context, source string, limit int) ([]HistoryPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	points := r.history[source]
	if limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}
	out := make([]HistoryPoint, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *InMemoryRepository) IncrPageView(ctx context.Context, page string) error {
	r.mu.Lock()
	r.pageViews[page]++
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRepository) IncrPhotoView(ctx context.Context, photoSrc, collection string) error {
	r.mu.Lock()
	r.photoViews[photoSrc]++
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRepository) RecordVisit(ctx context.Context, device, referrer, country, city string) error {
	key := device + "|" + referrer + "|" + country
	r.mu.Lock()
	r.visits[key]++
	r.mu.Unlock()
	return nil
}

// PageViews returns the counter for one page.
func (r *InMemoryRepository) PageViews(page string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pageViews[page]
}

// PhotoViews returns the counter for one photo.
func (r *InMemoryRepository) PhotoViews(photoSrc string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.photoViews[photoSrc]
}

// Visits returns the counter for one device, referrer, country bucket.
func (r *InMemoryRepository) Visits(device, referrer, country string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.visits[device+"|"+referrer+"|"+country]
}
