package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// CountryUnknown is the bucket for failed or private-range lookups.
const CountryUnknown = "Unknown"

// Geo is a coarse location bucket.
type Geo struct {
	Country string `json:"country"`
	City    string `json:"city,omitempty"`
}

// DefaultGeoEndpoint is the free IP geolocation service the site uses.
const DefaultGeoEndpoint = "http://ip-api.com/json"

const geoCacheTTL = 30 * time.Minute

// GeoLocator resolves client IPs to country and city, caching results so
// a browsing session costs one upstream lookup. Lookups never fail the
// caller; anything that goes wrong resolves to CountryUnknown.
type GeoLocator struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger

	timeNow func() time.Time

	mu    sync.Mutex
	cache map[string]geoEntry
}

type geoEntry struct {
	geo     Geo
	expires time.Time
}

// NewGeoLocator creates a GeoLocator against endpoint, which defaults to
// DefaultGeoEndpoint when empty.
func NewGeoLocator(endpoint string, client *http.Client, logger *slog.Logger) *GeoLocator {
	if endpoint == "" {
		endpoint = DefaultGeoEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeoLocator{
		endpoint: endpoint,
		client:   client,
		logger:   logger,
		timeNow:  time.Now,
		cache:    make(map[string]geoEntry),
	}
}

// Locate resolves an IP to a Geo bucket.
func (g *GeoLocator) Locate(ctx context.Context, ip string) Geo {
	now := g.timeNow()

	g.mu.Lock()
	if entry, ok := g.cache[ip]; ok && now.Before(entry.expires) {
		g.mu.Unlock()
		return entry.geo
	}
	g.mu.Unlock()

	geo := g.lookup(ctx, ip)

	g.mu.Lock()
	g.cache[ip] = geoEntry{geo: geo, expires: now.Add(geoCacheTTL)}
	g.mu.Unlock()
	return geo
}

func (g *GeoLocator) lookup(ctx context.Context, ip string) Geo {
	unknown := Geo{Country: CountryUnknown}

	url := fmt.Sprintf("%s/%s?fields=status,country,city", g.endpoint, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return unknown
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Debug("geo lookup failed", "ip", ip, "error", err)
		return unknown
	}
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Status  string `json:"status"`
		Country string `json:"country"`
		City    string `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		g.logger.Debug("geo lookup returned bad payload", "ip", ip, "error", err)
		return unknown
	}
	if body.Status != "success" || body.Country == "" {
		return unknown
	}
	return Geo{Country: body.Country, City: body.City}
}
