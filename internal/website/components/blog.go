package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/gabrielmiguelok/linkhub/internal/feed"
)

// BlogOptions configures the recent posts section.
type BlogOptions struct {
	Title string
	Posts []feed.Post
	// SubscribeURL adds a subscribe link next to the heading.
	SubscribeURL string
	// Source is the JSON endpoint a static page refreshes its posts from.
	Source string
}

// RenderBlog generates the recent posts section. Without posts it renders
// nothing, unless a Source is set: the section is then emitted hidden for
// the feed script to fill.
func RenderBlog(opts BlogOptions) string {
	if len(opts.Posts) == 0 && opts.Source == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<section aria-labelledby="blog-title"`)
	if opts.Source != "" {
		sb.WriteString(fmt.Sprintf(` data-feed-src="%s"`, html.EscapeString(opts.Source)))
	}
	if len(opts.Posts) == 0 {
		sb.WriteString(` hidden`)
	}
	sb.WriteString(`>`)
	sb.WriteString(fmt.Sprintf(`<h2 id="blog-title">%s</h2>`, html.EscapeString(opts.Title)))
	sb.WriteString(`<div class="posts">`)
	for _, p := range opts.Posts {
		sb.WriteString(fmt.Sprintf(`<a class="post-card" href="%s" target="_blank" rel="noopener noreferrer">`, html.EscapeString(p.Link)))
		if p.ImageURL != "" {
			sb.WriteString(fmt.Sprintf(`<img src="%s" alt="" loading="lazy">`, html.EscapeString(p.ImageURL)))
		}
		sb.WriteString(fmt.Sprintf(`<span><h3>%s</h3><p>%s</p><span class="post-meta">%s &middot; %s</span></span>`,
			html.EscapeString(p.Title),
			html.EscapeString(p.Description),
			html.EscapeString(p.Date),
			html.EscapeString(p.Author)))
		sb.WriteString(`</a>`)
	}
	sb.WriteString(`</div>`)
	if opts.SubscribeURL != "" {
		sb.WriteString(fmt.Sprintf(`<p><a class="card-button" href="%s" target="_blank" rel="noopener noreferrer">Subscribe %s</a></p>`,
			html.EscapeString(opts.SubscribeURL), externalLinkIcon))
	}
	sb.WriteString("</section>\n")
	return sb.String()
}
