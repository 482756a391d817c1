package analytics

import (
	"net/url"
	"strings"
)

// Referrer buckets for traffic without a parseable source.
const (
	ReferrerDirect   = "direct"
	ReferrerInternal = "internal"
	ReferrerUnknown  = "unknown"
)

// ReferrerSource buckets a Referer header into a named source. Known
// platforms get a stable label, own-site navigation counts as internal,
// and anything else keeps its hostname.
func ReferrerSource(referrer, selfHost string) string {
	if referrer == "" {
		return ReferrerDirect
	}

	u, err := url.Parse(referrer)
	if err != nil || u.Hostname() == "" {
		return ReferrerUnknown
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")

	switch {
	case strings.Contains(host, "google"):
		return "Google"
	case strings.Contains(host, "bing"):
		return "Bing"
	case strings.Contains(host, "linkedin"):
		return "LinkedIn"
	case strings.Contains(host, "twitter"), strings.Contains(host, "t.co"):
		return "Twitter"
	case strings.Contains(host, "facebook"), strings.Contains(host, "fb."):
		return "Facebook"
	case strings.Contains(host, "github"):
		return "GitHub"
	case strings.Contains(host, "reddit"):
		return "Reddit"
	case host == strings.TrimPrefix(selfHost, "www."):
		return ReferrerInternal
	}
	return host
}
