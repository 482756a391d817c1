// Package collection provides models and repositories for photo collections,
// the unit of organization for portfolio photography.
package collection

import (
	"strconv"
	"strings"
	"time"
)

// EXIF holds the camera metadata surfaced in the lightbox. All fields are
// optional; empty strings (or zero ISO) mean the value was not recorded.
type EXIF struct {
	Camera      string `json:"camera,omitempty"`
	Lens        string `json:"lens,omitempty"`
	Aperture    string `json:"aperture,omitempty"`     // e.g. "f/2.8"
	Shutter     string `json:"shutter,omitempty"`      // e.g. "1/250s"
	ISO         int    `json:"iso,omitempty"`
	FocalLength string `json:"focal_length,omitempty"` // e.g. "35mm"
	Date        string `json:"date,omitempty"`         // YYYY-MM-DD
}

// Summary returns the lightbox EXIF line: aperture, shutter, ISO and focal
// length joined with a middle dot, including only the fields that are present.
// Returns an empty string when none are set.
func (e *EXIF) Summary() string {
	if e == nil {
		return ""
	}
	var parts []string
	if e.Aperture != "" {
		parts = append(parts, e.Aperture)
	}
	if e.Shutter != "" {
		parts = append(parts, e.Shutter)
	}
	if e.ISO > 0 {
		parts = append(parts, "ISO "+strconv.Itoa(e.ISO))
	}
	if e.FocalLength != "" {
		parts = append(parts, e.FocalLength)
	}
	return strings.Join(parts, " · ")
}

// Photo is a single image within a collection. A photo has no identity
// outside the collection that owns it.
type Photo struct {
	Src          string    `json:"src"`
	ThumbnailSrc string    `json:"thumbnail_src,omitempty"`
	Caption      string    `json:"caption,omitempty"`
	Location     string    `json:"location,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	ShowEXIF     bool      `json:"show_exif"`
	EXIF         *EXIF     `json:"exif,omitempty"`
	SortOrder    int       `json:"sort_order,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Thumbnail returns the grid-sized source, falling back to the full image
// when no thumbnail was generated.
func (p *Photo) Thumbnail() string {
	if p.ThumbnailSrc != "" {
		return p.ThumbnailSrc
	}
	return p.Src
}

// Collection is a named, ordered set of photos with display metadata.
type Collection struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug,omitempty"`
	Description string    `json:"description,omitempty"`
	Cover       string    `json:"cover,omitempty"`
	Visible     bool      `json:"visible"`
	DisplayYear int       `json:"display_year,omitempty"`
	SortOrder   int       `json:"sort_order,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	Photos      []Photo   `json:"photos,omitempty"`
}

// Count returns the number of photos. The photo count is always derived from
// the photo list, never stored separately.
func (c *Collection) Count() int {
	return len(c.Photos)
}

// Year returns the display year, deriving it from the creation time when no
// explicit year was set.
func (c *Collection) Year() int {
	if c.DisplayYear != 0 {
		return c.DisplayYear
	}
	return c.CreatedAt.Year()
}

// NormalizeID canonicalizes a collection identifier. Two identifier spaces
// coexist: store-assigned string IDs and legacy numeric IDs from the static
// fallback data. Both are represented as strings internally, so a numeric
// input is simply re-rendered without leading zeros ("007" and "7" are the
// same legacy collection). Comparison logic elsewhere must use the normalized
// form; the dual-ID distinction never leaks past this function.
func NormalizeID(raw string) string {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return strconv.Itoa(n)
	}
	return raw
}

// Featured is the settings document selecting a collection for the sidebar
// slideshow. A nil FeaturedUntil never expires.
type Featured struct {
	CollectionID  string     `json:"collection_id"`
	FeaturedUntil *time.Time `json:"featured_until,omitempty"`
}

// Expired reports whether the featured window has passed. An expired setting
// must be treated exactly like an absent one.
func (f *Featured) Expired(now time.Time) bool {
	return f.FeaturedUntil != nil && f.FeaturedUntil.Before(now)
}
