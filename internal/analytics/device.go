// Package analytics classifies visits and forwards aggregate events.
// No visitor IDs and no personal data leave this package, only coarse
// device, referrer, and geo buckets.
package analytics

import (
	"regexp"
	"strings"
)

// Device classes.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
)

var (
	tabletPattern = regexp.MustCompile(`(?i)tablet|ipad|playbook|silk`)
	mobilePattern = regexp.MustCompile(`Mobile|Android|iP(hone|od)|IEMobile|BlackBerry|Kindle|Silk-Accelerated|(hpw|web)OS|Opera M(obi|ini)`)
)

// DeviceClass buckets a user agent into desktop, mobile, or tablet.
func DeviceClass(userAgent string) string {
	lower := strings.ToLower(userAgent)
	if tabletPattern.MatchString(userAgent) {
		return DeviceTablet
	}
	// Android tablets carry "android" without "mobi".
	if strings.Contains(lower, "android") && !strings.Contains(lower, "mobi") {
		return DeviceTablet
	}
	if mobilePattern.MatchString(userAgent) {
		return DeviceMobile
	}
	return DeviceDesktop
}
