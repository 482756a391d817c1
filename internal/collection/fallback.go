package collection

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed fallback.json
var fallbackJSON []byte

// LoadFallback parses the embedded static collection list. It is served when
// the document store is unreachable or returns nothing.
func LoadFallback() ([]Collection, error) {
	var collections []Collection
	if err := json.Unmarshal(fallbackJSON, &collections); err != nil {
		return nil, fmt.Errorf("failed to parse fallback collections: %w", err)
	}
	for i := range collections {
		collections[i].ID = NormalizeID(collections[i].ID)
	}
	return collections, nil
}
