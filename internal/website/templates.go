// Package website renders the hub page. Everything is plain Go string
// building with inline CSS: no template engine and no CSS framework.
package website

import (
	"strings"

	"github.com/gabrielmiguelok/linkhub/internal/config"
)

// PageConfig defines the document-level settings of the hub page.
type PageConfig struct {
	// Title is the page title (shown in browser tab and search results)
	Title       string
	Description string
	// URL is the canonical URL of the page
	URL      string
	Language string
	// ThemeColor is the mobile browser theme color
	ThemeColor string
	Favicon    string
	// AnalyticsID enables the gtag snippet.
	AnalyticsID string
	// BasePath prefixes every local asset URL.
	BasePath string
	Theme    Theme
}

// Theme carries the configurable colors and the CRT overlay.
type Theme struct {
	Accent  string
	DarkBg  string
	LightBg string

	CRT           bool
	CRTTint       string
	CRTBrightness float64
}

// PageConfigFromSite builds the page settings for a loaded site file.
func PageConfigFromSite(site *config.Site) PageConfig {
	return PageConfig{
		Title:       site.Metadata.Title,
		Description: site.Metadata.Description,
		URL:         site.Build.SiteURL,
		Language:    "en",
		ThemeColor:  site.Theme.DarkBg,
		Favicon:     site.Metadata.Favicon,
		AnalyticsID: site.Analytics.GoogleAnalyticsID,
		BasePath:    site.Build.BasePath,
		Theme: Theme{
			Accent:        site.Theme.AccentColor,
			DarkBg:        site.Theme.DarkBg,
			LightBg:       site.Theme.LightBg,
			CRT:           site.Features.CRTEffect,
			CRTTint:       site.Features.CRTTint,
			CRTBrightness: site.Features.CRTBrightness,
		},
	}
}

// AssetURL prefixes local paths with basePath. External URLs, fragments
// and data URIs are returned unchanged.
func AssetURL(basePath, p string) string {
	if p == "" || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "//") ||
		strings.Contains(p, "://") || strings.HasPrefix(p, "data:") || strings.HasPrefix(p, "mailto:") {
		return p
	}
	return basePath + "/" + strings.TrimLeft(p, "/")
}
