// Package device derives a human-readable device description from a
// User-Agent string. Login audit events carry it so the audit trail shows
// where a session came from.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Describe extracts a "Browser on OS" display name from a User-Agent string
// (e.g. "Chrome on Linux", "Safari on iPhone").
func Describe(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		platform := ua.Platform()
		if platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + os)
}
