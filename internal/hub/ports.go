package hub

import (
	"time"

	"github.com/gabrielmiguelok/linkhub/internal/modal"
	"github.com/gabrielmiguelok/linkhub/pkg/js"
)

// callback is a timer callback delivered through the socket loop.
type callback func()

// socketClock schedules on base and hands each callback back to the
// socket loop, so the modal is only ever touched from that loop.
type socketClock struct {
	hub  *Hub
	base modal.Clock
}

func (c socketClock) AfterFunc(d time.Duration, f func()) modal.Timer {
	return c.base.AfterFunc(d, func() {
		if socket := c.hub.Socket(); socket != nil {
			socket.SendInfo(callback(f))
		}
	})
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) modal.Timer {
	return time.AfterFunc(d, f)
}

// clientClipboard asks the browser to copy. The browser falls back to a
// hidden textarea when the clipboard API is missing or rejects, so the
// server only fails when no browser is attached.
type clientClipboard struct {
	hub *Hub
}

func (c clientClipboard) Copy(text string) error {
	if !c.hub.Connected() {
		return modal.ErrClipboardUnsupported
	}
	c.hub.queue(js.JS.Copy(text))
	return nil
}

type scrollLock struct {
	hub *Hub
}

func (s scrollLock) Lock()   { s.hub.queue(js.JS.ScrollLock(true)) }
func (s scrollLock) Unlock() { s.hub.queue(js.JS.ScrollLock(false)) }

// formSubmitter has the browser post the subscription form into a new
// browsing context. The result is never reported back.
type formSubmitter struct {
	hub    *Hub
	action string
}

func (f formSubmitter) Subscribe(email string) {
	if f.action == "" {
		return
	}
	f.hub.queue(js.JS.SubmitForm(f.action, "email", email))
}
