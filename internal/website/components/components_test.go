package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gabrielmiguelok/linkhub/internal/catalog"
	"github.com/gabrielmiguelok/linkhub/internal/config"
	"github.com/gabrielmiguelok/linkhub/internal/feed"
	"github.com/gabrielmiguelok/linkhub/internal/modal"
)

var (
	liveRes = catalog.Resource{ID: "dir", Title: "Design Directory", Link: "https://example.com/dir", Status: catalog.StatusLive, ButtonLabel: "Website", MediaDefault: "/v.mp4", MediaType: catalog.MediaVideo}
	soonRes = catalog.Resource{ID: "ds", Title: "Design System", Link: "#", Status: catalog.StatusComingSoon, MediaDefault: "/a.jpg", MediaType: catalog.MediaImage}
)

func TestRenderResources_ComingSoonIsInert(t *testing.T) {
	for _, mode := range []Mode{Static, Live} {
		out := RenderResources(ResourcesOptions{Resources: []catalog.Resource{soonRes}, Mode: mode})
		assert.NotContains(t, out, "lv-click")
		assert.NotContains(t, out, "data-gate-id")
		assert.NotContains(t, out, `role="button"`)
		assert.Contains(t, out, "Coming Soon")
	}
}

func TestRenderResources_LiveCardWiring(t *testing.T) {
	static := RenderResources(ResourcesOptions{Resources: []catalog.Resource{liveRes}, Mode: Static, BasePath: "/links"})
	assert.Contains(t, static, `data-gate-id="dir"`)
	assert.Contains(t, static, `data-gate-link="https://example.com/dir"`)
	assert.Contains(t, static, `<video class="rest" src="/links/v.mp4"`)

	live := RenderResources(ResourcesOptions{Resources: []catalog.Resource{liveRes}, Mode: Live})
	assert.Contains(t, live, `lv-click="open" lv-value-id="dir"`)
	assert.NotContains(t, live, "data-gate-link")
}

func TestRenderModal_LivePhases(t *testing.T) {
	closed := RenderModal(ModalOptions{Mode: Live})
	assert.Equal(t, `<div data-slot="modal"></div>`, closed)

	collecting := RenderModal(ModalOptions{Mode: Live, Session: modal.Session{Phase: modal.Collecting, Resource: liveRes, Email: "a@b"}, Error: "bad email"})
	assert.Contains(t, collecting, `lv-submit="subscribe"`)
	assert.Contains(t, collecting, `value="a@b"`)
	assert.Contains(t, collecting, "bad email")
	assert.Contains(t, collecting, "Skip and view resource")
	assert.NotContains(t, collecting, " disabled")

	submitting := RenderModal(ModalOptions{Mode: Live, Session: modal.Session{Phase: modal.Submitting, Resource: liveRes}})
	assert.Contains(t, submitting, "Subscribing...")
	assert.Contains(t, submitting, " disabled")

	confirmed := RenderModal(ModalOptions{Mode: Live, Session: modal.Session{Phase: modal.Confirmed, Resource: liveRes}})
	assert.Contains(t, confirmed, "Access Design Directory")
	assert.Contains(t, confirmed, "Copy link")
	assert.NotContains(t, confirmed, "Skip and view resource")

	copied := RenderModal(ModalOptions{Mode: Live, Session: modal.Session{Phase: modal.Confirmed, Resource: liveRes, Copied: true}})
	assert.Contains(t, copied, "Link copied!")
}

func TestRenderModal_Static(t *testing.T) {
	out := RenderModal(ModalOptions{Mode: Static, FormAction: "https://news.example.com/api/v1/free?nojs=true"})
	assert.Contains(t, out, `data-gate-modal hidden`)
	assert.Contains(t, out, `<form method="post" action="https://news.example.com/api/v1/free?nojs=true" target="_blank" data-gate-form>`)
	assert.Contains(t, out, `data-gate-pane="confirmed" hidden`)
}

// The gate script drives the exported page through these hooks only.
func TestRenderModal_StaticScriptHooks(t *testing.T) {
	out := RenderModal(ModalOptions{Mode: Static, FormAction: "https://news.example.com/api/v1/free?nojs=true"})
	for _, hook := range []string{
		"data-gate-modal",
		"data-gate-close",
		"data-gate-target",
		`data-gate-pane="collecting"`,
		`data-gate-pane="confirmed"`,
		"data-gate-form",
		"data-gate-skip",
		"data-gate-access",
		"data-gate-copy",
		`name="email"`,
	} {
		assert.Contains(t, out, hook)
	}

	card := RenderResources(ResourcesOptions{Resources: []catalog.Resource{liveRes}, Mode: Static})
	assert.Contains(t, card, `role="button" tabindex="0" data-gate-id="dir" data-gate-link="https://example.com/dir" data-gate-title="Design Directory"`)
}

func TestRenderBlog(t *testing.T) {
	assert.Empty(t, RenderBlog(BlogOptions{Title: "Blog"}))

	out := RenderBlog(BlogOptions{
		Title: "Recent Posts",
		Posts: []feed.Post{{Title: "<Hello>", Link: "https://b.example.com/1", Date: "Jan 2, 2024", Author: "Author"}},
	})
	assert.Contains(t, out, "&lt;Hello&gt;")
	assert.Contains(t, out, `rel="noopener noreferrer"`)
	assert.NotContains(t, out, "data-feed-src")
}

func TestRenderBlog_RefreshSource(t *testing.T) {
	empty := RenderBlog(BlogOptions{Title: "Blog", Source: "https://links.example.com/api/feed?x=1&y=2"})
	assert.Contains(t, empty, `<section aria-labelledby="blog-title" data-feed-src="https://links.example.com/api/feed?x=1&amp;y=2" hidden>`)
	assert.Contains(t, empty, `<div class="posts"></div>`)

	filled := RenderBlog(BlogOptions{
		Title:  "Blog",
		Source: "https://links.example.com/api/feed",
		Posts:  []feed.Post{{Title: "Hi", Link: "https://b.example.com/1"}},
	})
	assert.Contains(t, filled, `data-feed-src="https://links.example.com/api/feed">`)
}

var sampleTools = []config.Tool{
	{ID: "figma", Name: "Figma", URL: "https://figma.com", Icon: "/tools/figma.svg", SmallIcon: true, Description: "Design canvas.",
		Tags: []config.Tag{{Label: "Design", Bg: "#e64400", Text: "#fff"}}},
	{ID: "notion", Name: "Notion", URL: "https://notion.so", Description: "Notes."},
	{ID: "obsidian", Name: "Obsidian", URL: "https://obsidian.md", Description: "Markdown."},
}

func TestRenderTools_Tags(t *testing.T) {
	out := RenderTools(ToolsOptions{Tools: sampleTools[:1], BasePath: "/links"})
	assert.Contains(t, out, `<img class="small" src="/links/tools/figma.svg"`)
	assert.Contains(t, out, `style="background:#e64400;color:#fff">Design</span>`)
	assert.Empty(t, RenderTools(ToolsOptions{}))
}

func TestRenderTools_StaticSelection(t *testing.T) {
	out := RenderTools(ToolsOptions{Tools: sampleTools, Selected: 2, Mode: Static})

	assert.Contains(t, out, `role="listbox" aria-label="Our tools carousel" aria-activedescendant="tool-option-obsidian"`)
	assert.Contains(t, out, `id="tool-option-obsidian" class="tool-option selected" role="option" aria-selected="true"`)
	assert.Contains(t, out, `id="tool-option-figma" class="tool-option" role="option" aria-selected="false"`)

	assert.Contains(t, out, `<div class="tool-detail" data-tool-detail="0" hidden>`)
	assert.Contains(t, out, `<div class="tool-detail" data-tool-detail="2"><div class="tool-title">`)
	assert.Contains(t, out, `<a href="https://obsidian.md" target="_blank" rel="noopener noreferrer">Obsidian</a>`)
	assert.NotContains(t, out, "lv-click")
	assert.NotContains(t, out, "data-slot")
}

func TestRenderTools_StepsWrapAround(t *testing.T) {
	out := RenderTools(ToolsOptions{Tools: sampleTools, Selected: 2, Mode: Live})

	detail := out[strings.Index(out, `data-slot="tool"`):]
	assert.Contains(t, detail, `aria-label="Previous tool" data-tool-index="1" lv-click="select" lv-value-index="1"`)
	assert.Contains(t, detail, `aria-label="Next tool" data-tool-index="0" lv-click="select" lv-value-index="0"`)
	assert.Equal(t, 1, strings.Count(out, `class="tool-detail"`), "live pages render only the selected pane")

	first := RenderTools(ToolsOptions{Tools: sampleTools, Selected: 0, Mode: Live})
	assert.Contains(t, first, `aria-label="Previous tool" data-tool-index="2"`)
}

func TestRenderTools_OutOfRangeSelectsFirst(t *testing.T) {
	out := RenderTools(ToolsOptions{Tools: sampleTools, Selected: 9})
	assert.Contains(t, out, `aria-activedescendant="tool-option-figma"`)
}

func TestRenderLinks_CarouselControls(t *testing.T) {
	out := RenderLinks([]config.SocialLink{{Title: "Site", URL: "https://x.example.com", Icon: "github"}})
	assert.Contains(t, out, `aria-label="Previous link" data-carousel-prev disabled>`)
	assert.Contains(t, out, `aria-label="Next link" data-carousel-next>`)
	assert.Contains(t, out, `<ul class="links" data-carousel>`)
}

func TestRenderFooter(t *testing.T) {
	out := RenderFooter(config.Branding{LogoAlt: "Brand", WebsiteURL: "https://example.com", Email: "hi@example.com", CopyrightYear: "2024", Tagline: "Line one"})
	assert.Contains(t, out, "mailto:hi@example.com")
	assert.Contains(t, out, "&copy; 2024")
	assert.True(t, strings.Contains(out, `href="https://example.com"`))
}

func TestRenderLinks_UnknownIconFallsBack(t *testing.T) {
	out := RenderLinks([]config.SocialLink{{Title: "Site", URL: "https://x.example.com", Icon: "nope"}})
	assert.Contains(t, out, "link-icon-svg")
	assert.Contains(t, out, `href="https://x.example.com"`)
}
