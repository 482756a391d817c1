package analytics

import (
	"context"
	"log/slog"

	"github.com/gustafedn/atelier/internal/validate"
)

// Recorder persists aggregate counts. Implemented by the stats package.
type Recorder interface {
	IncrPageView(ctx context.Context, page string) error
	IncrPhotoView(ctx context.Context, photoSrc, collection string) error
	RecordVisit(ctx context.Context, device, referrer, country, city string) error
}

// VisitContext carries the request attributes a tracking call may bucket
// on. None of it is stored raw.
type VisitContext struct {
	SessionID string
	UserAgent string
	Referrer  string
	IP        string
}

// Tracker is the single entry point for analytics. Every method swallows
// its failures; tracking never affects the visitor-facing request.
type Tracker struct {
	recorder Recorder
	notifier *Notifier
	sessions SessionStore
	geo      *GeoLocator
	selfHost string
	logger   *slog.Logger
}

// NewTracker wires recording, forwarding, session detection, and geo
// lookup together. notifier, sessions, and geo may each be nil to
// disable that aspect.
func NewTracker(recorder Recorder, notifier *Notifier, sessions SessionStore, geo *GeoLocator, selfHost string, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		recorder: recorder,
		notifier: notifier,
		sessions: sessions,
		geo:      geo,
		selfHost: selfHost,
		logger:   logger,
	}
}

// PageView counts a page render and, for a session's first page, a visit.
func (t *Tracker) PageView(ctx context.Context, page string, visit VisitContext) {
	page, err := validate.Label(page)
	if err != nil {
		t.logger.Debug("dropping page view", "error", err)
		t.maybeVisit(ctx, visit)
		return
	}
	if err := t.recorder.IncrPageView(ctx, page); err != nil {
		t.logger.Debug("failed to record page view", "page", page, "error", err)
	}
	if t.notifier != nil {
		t.notifier.Emit(EventPageView, PageViewEvent{Page: page})
	}
	t.maybeVisit(ctx, visit)
}

// PhotoView counts one lightbox photo view.
func (t *Tracker) PhotoView(ctx context.Context, photoSrc, collection string) {
	photoSrc, err := validate.Label(photoSrc)
	if err != nil {
		t.logger.Debug("dropping photo view", "error", err)
		return
	}
	if collection == "" {
		collection = "unknown"
	}
	if err := t.recorder.IncrPhotoView(ctx, photoSrc, collection); err != nil {
		t.logger.Debug("failed to record photo view", "src", photoSrc, "error", err)
	}
	if t.notifier != nil {
		t.notifier.Emit(EventPhotoView, PhotoViewEvent{PhotoSrc: photoSrc, Collection: collection})
	}
}

// Visit records a visit for the session without counting a page view.
func (t *Tracker) Visit(ctx context.Context, visit VisitContext) {
	t.maybeVisit(ctx, visit)
}

// maybeVisit records a visit once per session.
func (t *Tracker) maybeVisit(ctx context.Context, visit VisitContext) {
	if t.sessions == nil || visit.SessionID == "" {
		return
	}
	first, err := t.sessions.FirstVisit(ctx, visit.SessionID)
	if err != nil {
		t.logger.Debug("failed to check session", "error", err)
		return
	}
	if !first {
		return
	}

	device := DeviceClass(visit.UserAgent)
	referrer := ReferrerSource(visit.Referrer, t.selfHost)
	geo := Geo{Country: CountryUnknown}
	if t.geo != nil {
		geo = t.geo.Locate(ctx, visit.IP)
	}

	if err := t.recorder.RecordVisit(ctx, device, referrer, geo.Country, geo.City); err != nil {
		t.logger.Debug("failed to record visit", "error", err)
	}
	if t.notifier != nil {
		t.notifier.Emit(EventVisit, VisitEvent{
			Device:   device,
			Referrer: referrer,
			Country:  geo.Country,
			City:     geo.City,
		})
	}
}
