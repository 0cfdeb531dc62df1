package consentlog

import (
	"strings"

	"github.com/mssola/useragent"
)

const maxUserAgentLength = 255

// DeviceSummary condenses a raw user agent into a short label such as
// "desktop/Chrome/Linux" or "mobile/Safari/iOS". The raw string is stored
// alongside (truncated) but the summary is what dashboards group by.
func DeviceSummary(rawUA string) string {
	if strings.TrimSpace(rawUA) == "" {
		return "unknown"
	}
	ua := useragent.New(rawUA)

	kind := "desktop"
	switch {
	case ua.Bot():
		kind = "bot"
	case ua.Mobile():
		kind = "mobile"
	}

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "unknown"
	}
	os := ua.OSInfo().Name
	if os == "" {
		os = "unknown"
	}
	return kind + "/" + browser + "/" + os
}

// TruncateUserAgent caps the stored user agent at the column width.
func TruncateUserAgent(rawUA string) string {
	if len(rawUA) > maxUserAgentLength {
		return rawUA[:maxUserAgentLength]
	}
	return rawUA
}
