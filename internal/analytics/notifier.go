package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Event identifiers forwarded to the aggregation endpoint.
const (
	EventPageView  = "track-page-view"
	EventPhotoView = "track-photo-view"
	EventVisit     = "track-visit"
)

// PageViewEvent counts one page render.
type PageViewEvent struct {
	Page string `json:"page"`
}

// PhotoViewEvent counts one lightbox photo view.
type PhotoViewEvent struct {
	PhotoSrc   string `json:"photoSrc"`
	Collection string `json:"collection"`
}

// VisitEvent counts one new session with its coarse buckets.
type VisitEvent struct {
	Device   string `json:"device"`
	Referrer string `json:"referrer"`
	Country  string `json:"country"`
	City     string `json:"city,omitempty"`
}

// Notifier forwards analytics events to an external aggregation endpoint.
// Delivery is fire and forget: failures are logged at debug level and
// never surface to the request path.
type Notifier struct {
	url    string
	apiKey string
	client *http.Client
	logger *slog.Logger

	wg sync.WaitGroup
}

// NewNotifier creates a Notifier. A Notifier with an empty URL drops all
// events, which is how tracking is disabled.
func NewNotifier(url, apiKey string, client *http.Client, logger *slog.Logger) *Notifier {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{url: url, apiKey: apiKey, client: client, logger: logger}
}

// Enabled reports whether events will actually be sent.
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// Emit queues one event for delivery and returns immediately.
func (n *Notifier) Emit(event string, payload any) {
	if !n.Enabled() {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.send(event, payload)
	}()
}

// Flush blocks until every queued event has been attempted. Called on
// shutdown and in tests.
func (n *Notifier) Flush() {
	n.wg.Wait()
}

func (n *Notifier) send(event string, payload any) {
	body, err := json.Marshal(map[string]any{
		"functionId": event,
		"payload":    payload,
	})
	if err != nil {
		n.logger.Debug("failed to encode analytics event", "event", event, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Debug("failed to deliver analytics event", "event", event, "error", err)
		return
	}
	_ = resp.Body.Close()
}
