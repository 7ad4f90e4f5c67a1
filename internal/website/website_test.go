package website

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gabrielmiguelok/linkhub/internal/config"
)

func TestAssetURL(t *testing.T) {
	cases := []struct {
		base, in, want string
	}{
		{"", "/images/a.png", "/images/a.png"},
		{"/links", "/images/a.png", "/links/images/a.png"},
		{"/links", "images/a.png", "/links/images/a.png"},
		{"/links", "/", "/links/"},
		{"/links", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"/links", "#", "#"},
		{"/links", "", ""},
		{"/links", "data:image/svg+xml,x", "data:image/svg+xml,x"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AssetURL(tc.base, tc.in), "AssetURL(%q, %q)", tc.base, tc.in)
	}
}

func TestRenderAnalytics(t *testing.T) {
	assert.Empty(t, RenderAnalytics(""))

	snippet := RenderAnalytics("G-TEST123")
	assert.Contains(t, snippet, "googletagmanager.com/gtag/js?id=G-TEST123")
	assert.Contains(t, snippet, `gtag('config', "G-TEST123")`)
}

func TestRenderStyles_Theme(t *testing.T) {
	css := RenderStyles(Theme{Accent: "#ff0000", DarkBg: "#000000"})
	assert.Contains(t, css, "--color-accent:#ff0000")
	assert.Contains(t, css, "--color-bg:#000000")
	assert.NotContains(t, css, ".crt{")

	crt := RenderStyles(Theme{CRT: true, CRTTint: "#FFFAEE", CRTBrightness: 0.08})
	assert.Contains(t, crt, ".crt{")
	assert.Contains(t, crt, "opacity:0.08")
}

func TestRenderDocument(t *testing.T) {
	site := config.Default()
	site.Build.BasePath = "/links"
	site.Analytics.GoogleAnalyticsID = "G-1"

	doc := RenderDocument(PageConfigFromSite(site), "<main></main>")
	assert.Contains(t, doc, "<!DOCTYPE html>")
	assert.Contains(t, doc, "<title>Your Name | Links</title>")
	assert.Contains(t, doc, `<link rel="icon" href="/links/favicon.png">`)
	assert.Contains(t, doc, "gtag/js?id=G-1")
}
