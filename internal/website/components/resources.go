package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/gabrielmiguelok/linkhub/internal/catalog"
	"github.com/gabrielmiguelok/linkhub/internal/website"
)

// Mode selects how interactive elements are wired.
type Mode int

const (
	// Static pages are driven by the embedded gate script.
	Static Mode = iota
	// Live pages send events over the live socket.
	Live
)

// ResourcesOptions configures the resource grid.
type ResourcesOptions struct {
	Title     string
	Resources []catalog.Resource
	Mode      Mode
	BasePath  string
}

// RenderResources generates the resource cards. Only live cards are
// interactive; coming-soon cards carry no handler at all.
func RenderResources(opts ResourcesOptions) string {
	if len(opts.Resources) == 0 {
		return ""
	}
	title := opts.Title
	if title == "" {
		title = "Free Resources"
	}

	var sb strings.Builder
	sb.WriteString(`<section aria-labelledby="resources-title">`)
	sb.WriteString(fmt.Sprintf(`<h2 id="resources-title">%s</h2>`, html.EscapeString(title)))
	sb.WriteString(`<div class="resources">`)
	for _, r := range opts.Resources {
		sb.WriteString(renderResourceCard(r, opts.Mode, opts.BasePath))
	}
	sb.WriteString("</div></section>\n")
	return sb.String()
}

func renderResourceCard(r catalog.Resource, mode Mode, basePath string) string {
	var sb strings.Builder

	sb.WriteString(`<div class="resource-card"`)
	if r.IsLive() {
		sb.WriteString(` role="button" tabindex="0"`)
		switch mode {
		case Live:
			sb.WriteString(fmt.Sprintf(` lv-click="open" lv-value-id="%s"`, html.EscapeString(r.ID)))
		default:
			sb.WriteString(fmt.Sprintf(` data-gate-id="%s" data-gate-link="%s" data-gate-title="%s"`,
				html.EscapeString(r.ID), html.EscapeString(r.Link), html.EscapeString(r.Title)))
		}
	}
	sb.WriteString(">")

	sb.WriteString(`<div class="resource-media">`)
	media := html.EscapeString(website.AssetURL(basePath, r.MediaDefault))
	if r.MediaType == catalog.MediaVideo {
		sb.WriteString(fmt.Sprintf(`<video class="rest" src="%s" autoplay loop muted playsinline></video>`, media))
	} else if r.MediaDefault != "" {
		sb.WriteString(fmt.Sprintf(`<img class="rest" src="%s" alt="%s" loading="lazy">`, media, html.EscapeString(r.Title)))
	}
	if r.ImageHover != "" {
		sb.WriteString(fmt.Sprintf(`<img class="hover" src="%s" alt="" loading="lazy">`,
			html.EscapeString(website.AssetURL(basePath, r.ImageHover))))
	}
	badge := "badge-coming-soon"
	if r.IsLive() {
		badge = "badge-live"
	}
	sb.WriteString(fmt.Sprintf(`<span class="resource-badge %s">%s</span>`, badge, html.EscapeString(r.Status.Label())))
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="resource-body">`)
	sb.WriteString(fmt.Sprintf(`<h3>%s</h3><p>%s</p>`, html.EscapeString(r.Title), html.EscapeString(r.Description)))
	if r.ButtonLabel != "" {
		sb.WriteString(fmt.Sprintf(`<span class="card-button">%s %s</span>`, html.EscapeString(r.ButtonLabel), externalLinkIcon))
	}
	sb.WriteString("</div></div>")

	return sb.String()
}
