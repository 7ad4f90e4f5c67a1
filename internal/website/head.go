package website

import (
	"fmt"
	"html"
	"strings"
)

// RenderHead generates the <head> section: meta tags, favicon, analytics
// and the inline stylesheet.
func RenderHead(cfg PageConfig) string {
	var sb strings.Builder

	sb.WriteString("<head>\n")
	sb.WriteString(`<meta charset="UTF-8">` + "\n")
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">` + "\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(cfg.Title)))

	if cfg.Description != "" {
		sb.WriteString(fmt.Sprintf(`<meta name="description" content="%s">`+"\n", html.EscapeString(cfg.Description)))
	}
	if cfg.URL != "" {
		sb.WriteString(fmt.Sprintf(`<link rel="canonical" href="%s">`+"\n", html.EscapeString(cfg.URL)))
	}
	if cfg.ThemeColor != "" {
		sb.WriteString(fmt.Sprintf(`<meta name="theme-color" content="%s">`+"\n", html.EscapeString(cfg.ThemeColor)))
	}

	sb.WriteString(renderOpenGraph(cfg))

	if cfg.Favicon != "" {
		sb.WriteString(fmt.Sprintf(`<link rel="icon" href="%s">`+"\n", html.EscapeString(AssetURL(cfg.BasePath, cfg.Favicon))))
	}

	sb.WriteString(RenderAnalytics(cfg.AnalyticsID))

	sb.WriteString("<style>\n")
	sb.WriteString(RenderStyles(cfg.Theme))
	sb.WriteString("\n</style>\n")
	sb.WriteString("</head>\n")

	return sb.String()
}

func renderOpenGraph(cfg PageConfig) string {
	var sb strings.Builder

	sb.WriteString(`<meta property="og:type" content="website">` + "\n")
	if cfg.Title != "" {
		sb.WriteString(fmt.Sprintf(`<meta property="og:title" content="%s">`+"\n", html.EscapeString(cfg.Title)))
	}
	if cfg.Description != "" {
		sb.WriteString(fmt.Sprintf(`<meta property="og:description" content="%s">`+"\n", html.EscapeString(cfg.Description)))
	}
	if cfg.URL != "" {
		sb.WriteString(fmt.Sprintf(`<meta property="og:url" content="%s">`+"\n", html.EscapeString(cfg.URL)))
	}
	return sb.String()
}

// RenderAnalytics returns the Google Analytics gtag snippet, or nothing
// when id is empty.
func RenderAnalytics(id string) string {
	if id == "" {
		return ""
	}
	escaped := html.EscapeString(id)
	return fmt.Sprintf(`<script async src="https://www.googletagmanager.com/gtag/js?id=%s"></script>
<script>
window.dataLayer = window.dataLayer || [];
function gtag(){dataLayer.push(arguments);}
gtag('js', new Date());
gtag('config', %q);
</script>
`, escaped, id)
}

// RenderDocument wraps body in a complete HTML document.
func RenderDocument(cfg PageConfig, body string) string {
	lang := cfg.Language
	if lang == "" {
		lang = "en"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="%s" class="dark">
%s<body>
%s
</body>
</html>`, lang, RenderHead(cfg), body)
}
