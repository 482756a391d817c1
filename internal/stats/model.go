// Package stats aggregates public site statistics: portfolio counts,
// per-source stat documents with daily history, and the visit counters
// the tracker writes.
package stats

import "time"

// LatestPhoto describes the most recently uploaded photo.
type LatestPhoto struct {
	Src       string    `json:"src"`
	Caption   string    `json:"caption,omitempty"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PortfolioStats is the live summary shown on the atelier project page.
type PortfolioStats struct {
	CollectionCount int          `json:"collection_count"`
	PhotoCount      int          `json:"photo_count"`
	LatestPhoto     *LatestPhoto `json:"latest_photo,omitempty"`
}

// Document is one public stats document, keyed by its source name.
type Document struct {
	Source    string         `json:"source"`
	Data      map[string]any `json:"data"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// HistoryPoint is one day of a source's history series.
type HistoryPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}
