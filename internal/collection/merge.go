package collection

import (
	"sort"
	"strings"
)

// Merge unions the store-backed collection list with the static fallback
// list. Store entries come first and win on conflict; fallback entries whose
// title matches a store entry case-insensitively are suppressed. The inputs
// are not modified.
func Merge(store, fallback []Collection) []Collection {
	if len(store) == 0 {
		return append([]Collection(nil), fallback...)
	}

	seen := make(map[string]bool, len(store))
	for _, c := range store {
		seen[strings.ToLower(c.Title)] = true
	}

	merged := append([]Collection(nil), store...)
	for _, c := range fallback {
		if seen[strings.ToLower(c.Title)] {
			continue
		}
		merged = append(merged, c)
	}
	return merged
}

// YearGroup is one year-section of the collections grid.
type YearGroup struct {
	Year        int          `json:"year"`
	Collections []Collection `json:"collections"`
}

// GroupByYear buckets collections by display year, years descending,
// collections within a year ordered by creation time ascending.
func GroupByYear(collections []Collection) []YearGroup {
	buckets := make(map[int][]Collection)
	for _, c := range collections {
		y := c.Year()
		buckets[y] = append(buckets[y], c)
	}

	years := make([]int, 0, len(buckets))
	for y := range buckets {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	groups := make([]YearGroup, 0, len(years))
	for _, y := range years {
		cols := buckets[y]
		sort.SliceStable(cols, func(i, j int) bool {
			return cols[i].CreatedAt.Before(cols[j].CreatedAt)
		})
		groups = append(groups, YearGroup{Year: y, Collections: cols})
	}
	return groups
}

// FindByID resolves an identifier against an in-memory collection list,
// accepting both store string IDs and legacy numeric IDs. Returns nil when
// no collection matches.
func FindByID(collections []Collection, id string) *Collection {
	want := NormalizeID(id)
	for i := range collections {
		if NormalizeID(collections[i].ID) == want {
			return &collections[i]
		}
	}
	return nil
}
