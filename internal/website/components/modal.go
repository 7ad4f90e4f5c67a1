package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/gabrielmiguelok/linkhub/internal/modal"
)

const (
	modalHeading = "STAY IN THE LOOP"
	mailIcon     = `<svg width="40" height="40" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true" style="margin:0 auto 1rem"><path d="M4 4h16c1.1 0 2 .9 2 2v12c0 1.1-.9 2-2 2H4c-1.1 0-2-.9-2-2V6c0-1.1.9-2 2-2z"/><polyline points="22,6 12,13 2,6"/></svg>`
)

// ModalOptions configures the subscription modal.
type ModalOptions struct {
	Mode Mode
	// FormAction is where the email is posted.
	FormAction string
	// Session is the live modal state. Ignored for static pages.
	Session modal.Session
	// Error is shown under the email field.
	Error string
}

// RenderModal generates the subscription modal. Live pages render the
// current session into the "modal" slot; static pages render every pane
// hidden and let the gate script switch between them.
func RenderModal(opts ModalOptions) string {
	if opts.Mode == Live {
		return `<div data-slot="modal">` + renderLiveModal(opts) + `</div>`
	}
	return renderStaticModal(opts)
}

func renderLiveModal(opts ModalOptions) string {
	s := opts.Session
	if !s.Open() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div class="modal-backdrop" data-modal-open lv-click="dismiss" lv-value-reason="backdrop" lv-self>`)
	sb.WriteString(`<div class="modal" role="dialog" aria-modal="true" aria-labelledby="modal-title">`)
	sb.WriteString(`<button type="button" class="modal-close" aria-label="Close modal" lv-click="dismiss" lv-value-reason="close">&times;</button>`)
	sb.WriteString(mailIcon)
	sb.WriteString(fmt.Sprintf(`<h2 id="modal-title">%s</h2>`, modalHeading))
	sb.WriteString(fmt.Sprintf(`<p>Subscribe to get notified when we release new resources like <strong>%s</strong></p>`,
		html.EscapeString(s.Resource.Title)))

	if s.Phase == modal.Confirmed {
		sb.WriteString(`<p><strong class="copied">Thanks for subscribing!</strong><br>You&#39;re all set. Access your resource below.</p>`)
		sb.WriteString(fmt.Sprintf(`<button type="button" class="subscribe-button" lv-click="access">Access %s</button>`,
			html.EscapeString(s.Resource.Title)))
		label := "Copy link"
		if s.Copied {
			label = `<span class="copied">Link copied!</span>`
		}
		sb.WriteString(fmt.Sprintf(`<button type="button" class="modal-link" lv-click="copy">%s</button>`, label))
	} else {
		disabled := ""
		if s.InputLocked() {
			disabled = " disabled"
		}
		button := "Subscribe"
		if s.Phase == modal.Submitting {
			button = "Subscribing..."
		}
		sb.WriteString(`<form lv-submit="subscribe">`)
		sb.WriteString(fmt.Sprintf(`<input class="subscribe-input" type="email" name="email" value="%s" placeholder="Enter your email" required autofocus lv-change="email"%s>`,
			html.EscapeString(s.Email), disabled))
		if opts.Error != "" {
			sb.WriteString(fmt.Sprintf(`<span class="modal-error" role="alert">%s</span>`, html.EscapeString(opts.Error)))
		}
		sb.WriteString(fmt.Sprintf(`<button type="submit" class="subscribe-button"%s>%s</button>`, disabled, button))
		sb.WriteString(`</form>`)
		sb.WriteString(`<button type="button" class="modal-link" lv-click="skip">Skip and view resource</button>`)
	}

	sb.WriteString(`</div></div>`)
	return sb.String()
}

func renderStaticModal(opts ModalOptions) string {
	var sb strings.Builder

	sb.WriteString(`<div class="modal-backdrop" data-gate-modal hidden>`)
	sb.WriteString(`<div class="modal" role="dialog" aria-modal="true" aria-labelledby="modal-title">`)
	sb.WriteString(`<button type="button" class="modal-close" aria-label="Close modal" data-gate-close>&times;</button>`)
	sb.WriteString(mailIcon)
	sb.WriteString(fmt.Sprintf(`<h2 id="modal-title">%s</h2>`, modalHeading))
	sb.WriteString(`<p>Subscribe to get notified when we release new resources like <strong data-gate-target></strong></p>`)

	sb.WriteString(`<div class="modal-pane" data-gate-pane="collecting">`)
	sb.WriteString(fmt.Sprintf(`<form method="post" action="%s" target="_blank" data-gate-form>`, html.EscapeString(opts.FormAction)))
	sb.WriteString(`<input class="subscribe-input" type="email" name="email" placeholder="Enter your email" required>`)
	sb.WriteString(`<button type="submit" class="subscribe-button">Subscribe</button>`)
	sb.WriteString(`</form>`)
	sb.WriteString(`<button type="button" class="modal-link" data-gate-skip>Skip and view resource</button>`)
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="modal-pane" data-gate-pane="confirmed" hidden>`)
	sb.WriteString(`<p><strong class="copied">Thanks for subscribing!</strong><br>You&#39;re all set. Access your resource below.</p>`)
	sb.WriteString(`<button type="button" class="subscribe-button" data-gate-access>Access <span data-gate-target></span></button>`)
	sb.WriteString(`<button type="button" class="modal-link" data-gate-copy>Copy link</button>`)
	sb.WriteString(`</div>`)

	sb.WriteString("</div></div>\n")
	return sb.String()
}
