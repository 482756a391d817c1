// Package nav implements the hash-based section router and its typed
// navigation history.
package nav

import "strings"

// DefaultSection is the landing section rendered for an empty hash.
const DefaultSection = "about"

// Route is a parsed location: a section and an optional detail segment,
// as in "#stuff/atelier".
type Route struct {
	Section string
	Detail  string
}

// ParseHash parses a location hash into a Route. An empty or bare "#"
// hash resolves to the landing section.
func ParseHash(hash string) Route {
	hash = strings.TrimPrefix(strings.TrimSpace(hash), "#")
	if hash == "" {
		return Route{Section: DefaultSection}
	}
	section, detail, _ := strings.Cut(hash, "/")
	return Route{Section: section, Detail: detail}
}

// Hash renders the route back to its location hash.
func (r Route) Hash() string {
	if r.Detail == "" {
		return "#" + r.Section
	}
	return "#" + r.Section + "/" + r.Detail
}

// HasDetail reports whether the route addresses a detail page beneath
// its section.
func (r Route) HasDetail() bool {
	return r.Detail != ""
}
