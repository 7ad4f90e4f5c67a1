package website

import (
	"fmt"
	"sort"
	"strings"
)

// Base palette. Theme colors from the site file are layered on top.
var Colors = map[string]string{
	"vanilla":    "#FFFAEE",
	"textMuted":  "rgba(255,250,238,0.7)",
	"textDim":    "rgba(255,250,238,0.45)",
	"bgAlt":      "#222222",
	"bgElevated": "#2a2a2a",
	"border":     "rgba(255,250,238,0.12)",
	"live":       "#34D399",
	"soon":       "#FBBF24",
}

// Typography uses system font stack for instant loading
var FontFamily = `system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif`

// RenderStyles generates the complete CSS for the hub page.
func RenderStyles(theme Theme) string {
	colors := make(map[string]string, len(Colors)+3)
	for k, v := range Colors {
		colors[k] = v
	}
	setIf := func(k, v string) {
		if v != "" {
			colors[k] = v
		}
	}
	setIf("accent", theme.Accent)
	setIf("bg", theme.DarkBg)
	setIf("light", theme.LightBg)

	var sb strings.Builder
	sb.WriteString(cssReset())
	sb.WriteString(cssVariables(colors))
	sb.WriteString(cssBase())
	sb.WriteString(cssNav())
	sb.WriteString(cssSections())
	sb.WriteString(cssResources())
	sb.WriteString(cssModal())
	sb.WriteString(cssTools())
	if theme.CRT {
		sb.WriteString(cssCRT(theme.CRTTint, theme.CRTBrightness))
	}
	sb.WriteString(cssResponsive())
	return sb.String()
}

func cssReset() string {
	return `
*,*::before,*::after{box-sizing:border-box;margin:0;padding:0}
html{-webkit-text-size-adjust:100%;scroll-behavior:smooth}
body{line-height:1.6;-webkit-font-smoothing:antialiased}
img,video,svg{display:block;max-width:100%}
input,button{font:inherit}
a{color:inherit;text-decoration:none}
ul{list-style:none}
`
}

func cssVariables(colors map[string]string) string {
	names := make([]string, 0, len(colors))
	for name := range colors {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]string, len(names))
	for i, name := range names {
		vars[i] = fmt.Sprintf("--color-%s:%s", name, colors[name])
	}
	return fmt.Sprintf(":root{%s;--font-sans:%s;--content-max-width:860px}\n", strings.Join(vars, ";"), FontFamily)
}

func cssBase() string {
	return `
body{font-family:var(--font-sans);background:var(--color-bg);color:var(--color-vanilla);min-height:100vh}
body.scroll-locked{overflow:hidden}
main{display:flex;flex-direction:column;gap:1.5rem;max-width:var(--content-max-width);margin:0 auto;padding:6rem 1rem 2rem}
h2{font-size:1.25rem;font-weight:700;margin-bottom:0.75rem}
h3{font-size:1rem;font-weight:700}
p{color:var(--color-textMuted)}
.sr-only{position:absolute;width:1px;height:1px;overflow:hidden;clip:rect(0,0,0,0)}
:focus-visible{outline:2px solid var(--color-accent);outline-offset:2px}
`
}

func cssNav() string {
	return `
.card-nav{position:fixed;top:1rem;left:1rem;right:1rem;z-index:50;max-width:var(--content-max-width);margin:0 auto;background:var(--color-bgAlt);border:1px solid var(--color-border);border-radius:1rem;overflow:hidden}
.card-nav-bar{display:flex;align-items:center;justify-content:space-between;height:60px;padding:0 1rem}
.card-nav-logo img{height:28px;width:auto}
.card-nav-toggle{background:none;border:0;color:inherit;cursor:pointer;padding:0.5rem}
.card-nav-cards{display:none;gap:0.5rem;padding:0 0.75rem 0.75rem}
.card-nav[data-open] .card-nav-cards{display:grid}
.card-nav-card{background:var(--color-bgElevated);border-radius:0.75rem;padding:1rem;font-weight:600}
.card-nav-cta{background:var(--color-accent);color:#fff;border-radius:0.5rem;padding:0.4rem 0.9rem;font-size:0.875rem;font-weight:600}
`
}

func cssSections() string {
	return `
.links-carousel{position:relative;display:flex;align-items:center;gap:0.5rem}
.links{display:flex;gap:0.75rem;overflow-x:auto;scroll-snap-type:x mandatory;scrollbar-width:none;flex:1}
.links::-webkit-scrollbar{display:none}
.links>li{flex:none;width:96px;scroll-snap-align:start}
.carousel-arrow{flex:none;width:28px;height:28px;border-radius:9999px;background:var(--color-bgElevated);color:var(--color-vanilla)}
.carousel-arrow:disabled{opacity:0.3;cursor:default}
.link-card{display:flex;align-items:center;gap:0.75rem;background:var(--color-bgAlt);border:1px solid var(--color-border);border-radius:0.75rem;padding:0.75rem 1rem;transition:border-color 0.2s}
.link-card:hover{border-color:var(--color-accent)}
.link-icon-svg{width:22px;height:22px;flex:none}
.link-handle{font-size:0.8rem;color:var(--color-textDim)}
.posts{display:grid;gap:0.75rem}
.post-card{display:flex;gap:1rem;background:var(--color-bgAlt);border:1px solid var(--color-border);border-radius:0.75rem;padding:0.75rem}
.post-card img{width:96px;height:72px;object-fit:cover;border-radius:0.5rem;flex:none}
.post-meta{font-size:0.75rem;color:var(--color-textDim)}
footer{max-width:var(--content-max-width);margin:0 auto;padding:2rem 1rem 3rem;color:var(--color-textDim);font-size:0.875rem}
footer .tagline{white-space:pre-line;color:var(--color-textMuted);margin-bottom:1rem}
`
}

func cssResources() string {
	return `
.resources{display:grid;grid-template-columns:1fr;gap:1rem}
.resource-card{display:flex;flex-direction:column;background:var(--color-bgAlt);border:1px solid var(--color-border);border-radius:12px;overflow:hidden}
.resource-card[role=button]{cursor:pointer}
.resource-card[role=button]:hover{border-color:var(--color-accent)}
.resource-media{position:relative;height:12rem;background:var(--color-bg);overflow:hidden}
.resource-media img,.resource-media video{position:absolute;inset:0;width:100%;height:100%;object-fit:cover;object-position:top;transition:opacity 0.4s,transform 0.4s}
.resource-media .hover{opacity:0;transform:scale(1.05)}
.resource-card:hover .resource-media .hover{opacity:1;transform:scale(1)}
.resource-card:hover .resource-media .rest{opacity:0;transform:scale(1.02)}
.resource-badge{position:absolute;top:0.75rem;right:0.75rem;z-index:1;border-radius:9999px;padding:0.15rem 0.6rem;font-size:0.75rem;font-weight:600}
.badge-live{background:var(--color-live);color:#052e16}
.badge-coming-soon{background:var(--color-soon);color:#422006}
.resource-body{display:flex;flex-direction:column;flex-grow:1;padding:1rem}
.resource-body p{margin:0.5rem 0 1rem;flex-grow:1}
.card-button{display:inline-flex;align-items:center;gap:0.5rem;align-self:flex-start;border:1px solid var(--color-border);border-radius:0.5rem;padding:0.35rem 0.8rem;font-size:0.875rem}
`
}

func cssModal() string {
	return `
.modal-backdrop{position:fixed;inset:0;z-index:60;background:rgba(0,0,0,0.6);backdrop-filter:blur(4px);display:flex;align-items:center;justify-content:center;padding:1rem}
.modal-backdrop[hidden]{display:none}
.modal{position:relative;width:100%;max-width:24rem;background:var(--color-bgAlt);border:1px solid var(--color-border);border-radius:1rem;padding:1.5rem;text-align:center}
.modal-close{position:absolute;top:1rem;right:1rem;background:none;border:0;color:var(--color-textDim);cursor:pointer;font-size:1.25rem;line-height:1}
.modal h2{letter-spacing:0.08em}
.modal p{font-size:0.875rem;margin-bottom:1.5rem}
.modal-pane[hidden]{display:none}
.modal form{display:grid;gap:0.75rem}
.subscribe-input{width:100%;padding:0.7rem 0.9rem;border-radius:0.5rem;border:1px solid var(--color-border);background:var(--color-bg);color:inherit}
.subscribe-button{width:100%;padding:0.7rem;border-radius:0.5rem;border:0;background:var(--color-accent);color:#fff;font-weight:600;cursor:pointer}
.subscribe-button:disabled,.subscribe-input:disabled{opacity:0.6;cursor:default}
.modal-link{margin-top:1rem;width:100%;background:none;border:0;color:var(--color-textDim);cursor:pointer;font-size:0.875rem}
.modal-link:hover{color:var(--color-textMuted)}
.modal-error{color:#F87171;font-size:0.8rem}
.copied{color:var(--color-accent)}
`
}

func cssTools() string {
	return `
.tool-stack{background:var(--color-bgAlt);border:1px solid var(--color-border);border-radius:0.75rem;overflow:hidden}
.tool-stack:focus-visible{outline:2px solid var(--color-accent)}
.tool-track{display:flex;align-items:center;gap:1rem;height:116px;padding:0.5rem 0;overflow-x:auto;scroll-snap-type:x mandatory;scrollbar-width:none;background:var(--color-border)}
.tool-track::-webkit-scrollbar{display:none}
.tool-spacer{flex:none;width:calc(50% - 50px)}
.tool-option{flex:none;display:flex;align-items:center;justify-content:center;width:72px;height:72px;border-radius:0.75rem;opacity:0.5;scroll-snap-align:center;transition:width 0.3s,height 0.3s,opacity 0.3s}
.tool-option:hover,.tool-option.selected{opacity:1}
.tool-option.selected{width:100px;height:100px}
.tool-option img{width:100%;height:100%;object-fit:cover;border-radius:10px}
.tool-option img.small{width:57px;height:57px}
.tool-option.selected img.small{width:100%;height:100%}
.tool-detail{display:flex;flex-direction:column;align-items:center;gap:0.5rem;min-height:140px;padding:1rem;text-align:center}
.tool-title{display:flex;align-items:center;gap:0.5rem}
.tool-title a{font-size:1.375rem;font-weight:700}
.tool-title a:hover{color:var(--color-accent)}
.tool-step{color:var(--color-textDim);padding:0.25rem;border-radius:9999px}
.tool-step:hover{color:var(--color-vanilla)}
.tool-detail p{font-size:0.75rem;max-width:264px}
.tool-tags{display:flex;gap:0.35rem;flex-wrap:wrap;justify-content:center}
.tool-tag{border-radius:3px;padding:0.25rem 0.5rem;font-size:0.625rem;font-weight:500}
`
}

// cssCRT draws a scanline overlay tinted with tint at the given strength.
func cssCRT(tint string, brightness float64) string {
	return fmt.Sprintf(`
.crt{position:fixed;inset:0;z-index:0;pointer-events:none;background:repeating-linear-gradient(0deg,%[1]s 0,%[1]s 1px,transparent 1px,transparent 3px);opacity:%.2[2]f}
@media(prefers-reduced-motion:no-preference){.crt{animation:crt-flicker 4s infinite steps(2)}}
@keyframes crt-flicker{50%%{opacity:%.2[3]f}}
`, tint, brightness, brightness*0.8)
}

func cssResponsive() string {
	return `
@media(min-width:600px){
.links{display:grid;grid-template-columns:repeat(3,1fr);overflow:visible}
.links>li{width:auto}
.carousel-arrow{display:none}
.card-nav-cards{grid-template-columns:repeat(3,1fr)}
}
@media(min-width:768px){
.resources{grid-template-columns:repeat(2,1fr)}
.resources .resource-card:last-child:nth-child(odd){grid-column:span 2}
main{gap:2rem}
}
@media(prefers-reduced-motion:reduce){*{animation-duration:0.01ms!important;transition-duration:0.01ms!important}}
`
}
