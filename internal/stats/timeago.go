package stats

import (
	"fmt"
	"time"
)

// TimeAgo formats how long ago a timestamp was, coarsening with age.
// Anything a week or older falls back to the plain date.
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	minutes := int(diff.Minutes())
	hours := int(diff.Hours())
	days := int(diff.Hours() / 24)

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}
