// Package components renders the sections of the hub page.
package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/gabrielmiguelok/linkhub/internal/config"
	"github.com/gabrielmiguelok/linkhub/internal/website"
)

// NavOptions configures the card navigation.
type NavOptions struct {
	Branding config.Branding
	Items    []config.NavItem
	BasePath string
}

// RenderNav generates the collapsible card navigation. The toggle works
// without the live runtime.
func RenderNav(opts NavOptions) string {
	var sb strings.Builder

	sb.WriteString(`<nav class="card-nav" aria-label="Main navigation">`)
	sb.WriteString("\n")
	sb.WriteString(`<div class="card-nav-bar">`)
	sb.WriteString(`<button type="button" class="card-nav-toggle" aria-label="Toggle menu" aria-expanded="false" onclick="var n=this.closest('.card-nav');var o=n.toggleAttribute('data-open');this.setAttribute('aria-expanded',o)">`)
	sb.WriteString(`<svg width="22" height="22" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" aria-hidden="true"><line x1="3" y1="7" x2="21" y2="7"/><line x1="3" y1="12" x2="21" y2="12"/><line x1="3" y1="17" x2="21" y2="17"/></svg>`)
	sb.WriteString(`</button>`)

	if opts.Branding.Logo != "" {
		sb.WriteString(fmt.Sprintf(`<a class="card-nav-logo" href="%s"><img src="%s" alt="%s"></a>`,
			html.EscapeString(website.AssetURL(opts.BasePath, "/")),
			html.EscapeString(website.AssetURL(opts.BasePath, opts.Branding.Logo)),
			html.EscapeString(opts.Branding.LogoAlt)))
	}

	if opts.Branding.WebsiteURL != "" {
		sb.WriteString(fmt.Sprintf(`<a class="card-nav-cta" href="%s" target="_blank" rel="noopener noreferrer">Website</a>`,
			html.EscapeString(opts.Branding.WebsiteURL)))
	}
	sb.WriteString("</div>\n")

	sb.WriteString(`<div class="card-nav-cards">`)
	for _, item := range opts.Items {
		sb.WriteString(fmt.Sprintf(`<a class="card-nav-card" href="%s">%s</a>`,
			html.EscapeString(website.AssetURL(opts.BasePath, item.Href)),
			html.EscapeString(item.Label)))
	}
	sb.WriteString("</div>\n</nav>\n")

	return sb.String()
}
