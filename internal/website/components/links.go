package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/gabrielmiguelok/linkhub/internal/config"
)

// RenderLinks generates the social link grid. On narrow screens the grid
// becomes a horizontal carousel stepped by the arrow buttons.
func RenderLinks(links []config.SocialLink) string {
	if len(links) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<section aria-labelledby="links-title"><h2 id="links-title" class="sr-only">Links</h2><div class="links-carousel">`)
	sb.WriteString(`<button type="button" class="carousel-arrow" aria-label="Previous link" data-carousel-prev disabled>&lsaquo;</button>`)
	sb.WriteString(`<ul class="links" data-carousel>`)
	for _, l := range links {
		sb.WriteString(fmt.Sprintf(`<li><a class="link-card" href="%s" target="_blank" rel="noopener noreferrer">%s<span><strong>%s</strong><br><span class="link-handle">%s</span></span></a></li>`,
			html.EscapeString(l.URL),
			svgIcon(l.Icon),
			html.EscapeString(l.Title),
			html.EscapeString(l.Handle)))
	}
	sb.WriteString(`</ul>`)
	sb.WriteString(`<button type="button" class="carousel-arrow" aria-label="Next link" data-carousel-next>&rsaquo;</button>`)
	sb.WriteString("</div></section>\n")
	return sb.String()
}
