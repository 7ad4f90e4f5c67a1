package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/gabrielmiguelok/linkhub/internal/config"
)

// RenderFooter generates the page footer from the branding section.
func RenderFooter(b config.Branding) string {
	var sb strings.Builder

	sb.WriteString(`<footer role="contentinfo">`)
	if b.Tagline != "" {
		sb.WriteString(fmt.Sprintf(`<p class="tagline">%s</p>`, html.EscapeString(b.Tagline)))
	}
	if b.Email != "" {
		sb.WriteString(fmt.Sprintf(`<p><a href="mailto:%[1]s">%[1]s</a></p>`, html.EscapeString(b.Email)))
	}

	owner := b.LogoAlt
	if b.WebsiteURL != "" {
		owner = fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
			html.EscapeString(b.WebsiteURL), html.EscapeString(b.LogoAlt))
	} else {
		owner = html.EscapeString(owner)
	}
	sb.WriteString(`<p>&copy; `)
	if b.CopyrightYear != "" {
		sb.WriteString(html.EscapeString(b.CopyrightYear) + " ")
	}
	sb.WriteString(owner)
	sb.WriteString(". All rights reserved.</p>")
	sb.WriteString("</footer>\n")

	return sb.String()
}
