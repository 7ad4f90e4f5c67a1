package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/gabrielmiguelok/linkhub/internal/config"
	"github.com/gabrielmiguelok/linkhub/internal/website"
)

// ToolsOptions configures the tool selector.
type ToolsOptions struct {
	Tools []config.Tool
	// Selected is the index of the tool shown in the detail pane. Out of
	// range values select the first tool.
	Selected int
	Mode     Mode
	BasePath string
}

// RenderTools generates the tool selector: a strip of icons and a detail
// pane for the selected tool. Live pages render the selected pane into the
// "tool" slot; static pages render every pane and hide all but one.
func RenderTools(opts ToolsOptions) string {
	tools := opts.Tools
	if len(tools) == 0 {
		return ""
	}
	selected := opts.Selected
	if selected < 0 || selected >= len(tools) {
		selected = 0
	}

	var sb strings.Builder
	sb.WriteString(`<section aria-labelledby="tools-title"><h2 id="tools-title">Tool Stack</h2>`)
	sb.WriteString(fmt.Sprintf(`<div class="tool-stack" tabindex="0" role="listbox" aria-label="Our tools carousel" aria-activedescendant="%s" data-tool-stack>`,
		toolOptionID(tools[selected])))

	sb.WriteString(`<div class="tool-track" data-tool-track><span class="tool-spacer"></span>`)
	for i, t := range tools {
		sb.WriteString(renderToolOption(t, i, i == selected, opts))
	}
	sb.WriteString(`<span class="tool-spacer"></span></div>`)

	if opts.Mode == Live {
		sb.WriteString(`<div data-slot="tool">`)
		sb.WriteString(renderToolDetail(tools, selected, false, opts.Mode))
		sb.WriteString(`</div>`)
	} else {
		for i := range tools {
			sb.WriteString(renderToolDetail(tools, i, i != selected, opts.Mode))
		}
	}

	sb.WriteString("</div></section>\n")
	return sb.String()
}

func toolOptionID(t config.Tool) string {
	return "tool-option-" + html.EscapeString(t.ID)
}

func renderToolOption(t config.Tool, index int, selected bool, opts ToolsOptions) string {
	var sb strings.Builder
	class := "tool-option"
	if selected {
		class += " selected"
	}
	sb.WriteString(fmt.Sprintf(`<button type="button" id="%s" class="%s" role="option" aria-selected="%t" aria-label="%s" tabindex="-1"%s>`,
		toolOptionID(t), class, selected, html.EscapeString(t.Name), selectAttrs(index, opts.Mode)))
	if t.Icon != "" {
		class := ""
		if t.SmallIcon {
			class = ` class="small"`
		}
		sb.WriteString(fmt.Sprintf(`<img%s src="%s" alt="%s" loading="lazy">`, class,
			html.EscapeString(website.AssetURL(opts.BasePath, t.Icon)), html.EscapeString(t.Name)))
	}
	sb.WriteString(`</button>`)
	return sb.String()
}

// selectAttrs wires an element that selects the tool at index.
func selectAttrs(index int, mode Mode) string {
	attrs := fmt.Sprintf(` data-tool-index="%d"`, index)
	if mode == Live {
		attrs += fmt.Sprintf(` lv-click="select" lv-value-index="%d"`, index)
	}
	return attrs
}

func renderToolDetail(tools []config.Tool, index int, hidden bool, mode Mode) string {
	t := tools[index]
	n := len(tools)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<div class="tool-detail" data-tool-detail="%d"`, index))
	if hidden {
		sb.WriteString(` hidden`)
	}
	sb.WriteString(`><div class="tool-title">`)
	sb.WriteString(fmt.Sprintf(`<button type="button" class="tool-step" aria-label="Previous tool"%s>&lsaquo;</button>`,
		selectAttrs((index-1+n)%n, mode)))
	sb.WriteString(fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
		html.EscapeString(t.URL), html.EscapeString(t.Name)))
	sb.WriteString(fmt.Sprintf(`<button type="button" class="tool-step" aria-label="Next tool"%s>&rsaquo;</button>`,
		selectAttrs((index+1)%n, mode)))
	sb.WriteString(`</div>`)
	sb.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(t.Description)))
	if len(t.Tags) > 0 {
		sb.WriteString(`<span class="tool-tags">`)
		for _, tag := range t.Tags {
			sb.WriteString(fmt.Sprintf(`<span class="tool-tag" style="background:%s;color:%s">%s</span>`,
				html.EscapeString(tag.Bg), html.EscapeString(tag.Text), html.EscapeString(tag.Label)))
		}
		sb.WriteString(`</span>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}
