// Package landing assembles the hub page from its sections.
package landing

import (
	"fmt"
	"html"
	"strings"

	"github.com/gabrielmiguelok/linkhub/internal/config"
	"github.com/gabrielmiguelok/linkhub/internal/feed"
	"github.com/gabrielmiguelok/linkhub/internal/newsletter"
	"github.com/gabrielmiguelok/linkhub/internal/website"
	"github.com/gabrielmiguelok/linkhub/internal/website/components"
)

// Script locations relative to the base path.
const (
	GateScriptPath     = "/_linkhub/gate.js"
	CarouselScriptPath = "/_linkhub/carousel.js"
	FeedScriptPath     = "/_linkhub/feed.js"
	LiveScriptPath     = "/_live/linkhub.js"
	SocketPath         = "/_live/websocket"
)

// Options configures the hub page.
type Options struct {
	Site  *config.Site
	Mode  components.Mode
	Posts []feed.Post
	// Modal carries the live modal state. FormAction is filled in from
	// the site file when empty.
	Modal components.ModalOptions
	// Tool is the selected tool index. The site default is used when nil.
	Tool *int
	// LivePath is the route the live client joins.
	LivePath string
	// ReloadPath, when set, reloads the page whenever this server-sent
	// events endpoint reports a change.
	ReloadPath string
}

// RenderHub generates the complete hub document.
func RenderHub(opts Options) string {
	site := opts.Site
	cfg := website.PageConfigFromSite(site)
	base := site.Build.BasePath

	var body strings.Builder

	if site.Features.CRTEffect {
		body.WriteString(`<div class="crt" aria-hidden="true"></div>` + "\n")
	}

	body.WriteString(components.RenderNav(components.NavOptions{
		Branding: site.Branding,
		Items:    site.Nav,
		BasePath: base,
	}))

	body.WriteString(mainOpenTag(opts))
	body.WriteString("\n")

	body.WriteString(components.RenderLinks(site.SocialLinks))
	body.WriteString(components.RenderResources(components.ResourcesOptions{
		Resources: site.Catalog().All(),
		Mode:      opts.Mode,
		BasePath:  base,
	}))
	if site.Blog.Enabled {
		blog := components.BlogOptions{
			Title:        site.Blog.Title,
			Posts:        opts.Posts,
			SubscribeURL: site.Blog.SubscribeURL,
		}
		if opts.Mode == components.Static {
			blog.Source = FeedSource(site)
		}
		body.WriteString(components.RenderBlog(blog))
	}

	tool := site.DefaultToolIndex()
	if opts.Tool != nil {
		tool = *opts.Tool
	}
	body.WriteString(components.RenderTools(components.ToolsOptions{
		Tools:    site.Tools,
		Selected: tool,
		Mode:     opts.Mode,
		BasePath: base,
	}))

	if !site.GatingDisabled() {
		modalOpts := opts.Modal
		modalOpts.Mode = opts.Mode
		if modalOpts.FormAction == "" {
			modalOpts.FormAction = FormAction(site)
		}
		body.WriteString(components.RenderModal(modalOpts))
	}

	body.WriteString("</main>\n")
	body.WriteString(components.RenderFooter(site.Branding))

	for _, script := range Scripts(site, opts.Mode) {
		body.WriteString(fmt.Sprintf(`<script src="%s" defer></script>`, html.EscapeString(website.AssetURL(base, script))))
		body.WriteString("\n")
	}
	if opts.ReloadPath != "" {
		body.WriteString(fmt.Sprintf(`<script>new EventSource(%q).onmessage=function(e){if(e.data==="reload")location.reload()}</script>`,
			website.AssetURL(base, opts.ReloadPath)))
		body.WriteString("\n")
	}

	return website.RenderDocument(cfg, body.String())
}

func mainOpenTag(opts Options) string {
	site := opts.Site
	gating := "on"
	if site.GatingDisabled() {
		gating = "off"
	}

	if opts.Mode != components.Live {
		return fmt.Sprintf(`<main id="main-content" data-gate-mode="%s">`, gating)
	}

	path := opts.LivePath
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf(`<main id="main-content" data-gate-mode="%s" data-live-view="%s" data-live-socket="%s">`,
		gating,
		html.EscapeString(path),
		html.EscapeString(website.AssetURL(site.Build.BasePath, SocketPath)))
}

// Scripts returns the paths of the scripts a page in mode loads, relative
// to the base path.
func Scripts(site *config.Site, mode components.Mode) []string {
	if mode == components.Live {
		return []string{LiveScriptPath, CarouselScriptPath}
	}
	scripts := []string{GateScriptPath, CarouselScriptPath}
	if site.Blog.Enabled {
		scripts = append(scripts, FeedScriptPath)
	}
	return scripts
}

// FeedSource returns the endpoint static pages refresh their posts from:
// the configured feed API, or the RSS-to-JSON proxy when none is set.
func FeedSource(site *config.Site) string {
	if site.Blog.FeedAPI != "" {
		return site.Blog.FeedAPI
	}
	if site.Blog.FeedURL == "" {
		return ""
	}
	proxy := site.Blog.FeedProxy
	if proxy == "" {
		proxy = config.DefaultFeedProxy
	}
	return feed.ProxyURL(proxy, site.Blog.FeedURL)
}

// FormAction returns the newsletter form endpoint, or "" when no provider
// is configured.
func FormAction(site *config.Site) string {
	action, err := newsletter.FormAction(site.Blog.SubscribeURL)
	if err != nil {
		return ""
	}
	return action
}
