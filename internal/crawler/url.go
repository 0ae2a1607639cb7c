package crawler

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	oibImagePath   = regexp.MustCompile(`(?i)/(\d{11})\.(?:png|jpe?g|webp)$`)
)

// collapseSpace trims a string and collapses internal whitespace runs to
// single spaces.
func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
}

// NormalizeLink turns a listing href into an absolute URL on the site origin.
// Hrefs that already carry a scheme pass through unchanged and empty hrefs
// stay empty so the orchestrator can drop the record.
func NormalizeLink(href, origin string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	if href == "" {
		return ""
	}
	return strings.TrimSuffix(origin, "/") + "/" + strings.TrimPrefix(href, "/")
}

// ExtractOIB pulls an 11-digit company OIB out of an image src whose filename
// is the OIB, e.g. .../31216548221.jpg. Returns nil when the src path does not
// match that convention.
func ExtractOIB(src string) *string {
	u, err := url.Parse(src)
	if err != nil {
		return nil
	}
	m := oibImagePath.FindStringSubmatch(u.Path)
	if m == nil {
		return nil
	}
	return &m[1]
}
