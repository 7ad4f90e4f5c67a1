package modal

import (
	"errors"
	"time"

	"github.com/gabrielmiguelok/linkhub/internal/access"
)

// Opener opens a URL in a new browsing context with no back-reference to
// the page (noopener, noreferrer).
type Opener interface {
	Open(url string)
}

// Clipboard writes text to the visitor's clipboard.
type Clipboard interface {
	Copy(text string) error
}

// Subscriber hands an email to the newsletter provider. Implementations
// must return without waiting for the provider's response.
type Subscriber interface {
	Subscribe(email string)
}

// ScrollLock suspends background page scrolling while the modal is open.
type ScrollLock interface {
	Lock()
	Unlock()
}

// Granter records a resolved gate.
type Granter interface {
	GrantAccess(method access.Method)
}

// Timer is a scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Ports groups the side effects a Machine drives. Nil ports are no-ops.
type Ports struct {
	Opener     Opener
	Clipboard  Clipboard
	Subscriber Subscriber
	ScrollLock ScrollLock
	Granter    Granter
	Clock      Clock
}

// ErrClipboardUnsupported is returned by clipboards that cannot copy.
var ErrClipboardUnsupported = errors.New("clipboard unsupported")

type fallbackClipboard []Clipboard

// FallbackClipboard tries each clipboard in order until one succeeds.
func FallbackClipboard(clipboards ...Clipboard) Clipboard {
	return fallbackClipboard(clipboards)
}

func (f fallbackClipboard) Copy(text string) error {
	err := ErrClipboardUnsupported
	for _, c := range f {
		if c == nil {
			continue
		}
		if err = c.Copy(text); err == nil {
			return nil
		}
	}
	return err
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string)

func (f OpenerFunc) Open(url string) { f(url) }

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(email string)

func (f SubscriberFunc) Subscribe(email string) { f(email) }

type nopPorts struct{}

func (nopPorts) Open(string)               {}
func (nopPorts) Copy(string) error         { return ErrClipboardUnsupported }
func (nopPorts) Subscribe(string)          {}
func (nopPorts) Lock()                     {}
func (nopPorts) Unlock()                   {}
func (nopPorts) GrantAccess(access.Method) {}

func (p Ports) withDefaults() Ports {
	if p.Opener == nil {
		p.Opener = nopPorts{}
	}
	if p.Clipboard == nil {
		p.Clipboard = nopPorts{}
	}
	if p.Subscriber == nil {
		p.Subscriber = nopPorts{}
	}
	if p.ScrollLock == nil {
		p.ScrollLock = nopPorts{}
	}
	if p.Granter == nil {
		p.Granter = nopPorts{}
	}
	if p.Clock == nil {
		p.Clock = systemClock{}
	}
	return p
}
