package uploader

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gustafedn/atelier/internal/collection"
)

// MergeFallback folds freshly uploaded collections into the static
// fallback JSON at path. An upload matching an existing entry by
// case-insensitive title replaces it but keeps its identifier; anything
// else is appended with the next free numeric ID. A missing file starts
// from an empty list.
func MergeFallback(path string, uploads []collection.Collection) ([]collection.Collection, *MergeStats, error) {
	existing, err := readFallback(path)
	if err != nil {
		return nil, nil, err
	}

	stats := NewMergeStats()
	merged := Merge(existing, uploads, stats)

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode fallback data: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, nil, fmt.Errorf("write fallback data: %w", err)
	}
	return merged, stats, nil
}

// Merge applies the replace-by-title, append-otherwise rule without
// touching the filesystem. A nil stats skips accounting.
func Merge(existing, uploads []collection.Collection, stats *MergeStats) []collection.Collection {
	merged := append([]collection.Collection(nil), existing...)
	nextID := nextNumericID(merged)

	for _, up := range uploads {
		idx := indexByTitle(merged, up.Title)
		if idx >= 0 {
			up.ID = merged[idx].ID
			if up.SortOrder == 0 {
				up.SortOrder = merged[idx].SortOrder
			}
			merged[idx] = up
			if stats != nil {
				stats.RecordReplace()
			}
			continue
		}
		up.ID = strconv.Itoa(nextID)
		nextID++
		merged = append(merged, up)
		if stats != nil {
			stats.RecordAdd()
		}
	}
	return merged
}

func readFallback(path string) ([]collection.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read fallback data: %w", err)
	}
	var out []collection.Collection
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse fallback data: %w", err)
	}
	return out, nil
}

func indexByTitle(collections []collection.Collection, title string) int {
	for i, c := range collections {
		if strings.EqualFold(c.Title, title) {
			return i
		}
	}
	return -1
}

// nextNumericID is one past the highest numeric ID in use. Non-numeric
// store IDs are ignored; the fallback file only ever carries numeric ones.
func nextNumericID(collections []collection.Collection) int {
	next := 1
	for _, c := range collections {
		if n, err := strconv.Atoi(c.ID); err == nil && n >= next {
			next = n + 1
		}
	}
	return next
}
