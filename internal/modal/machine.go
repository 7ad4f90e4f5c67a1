// Package modal implements the subscription prompt that gates resources.
//
// A Machine holds one modal session at a time. It is not safe for concurrent
// use: callers deliver events from a single loop, including the callbacks
// scheduled on the Clock.
package modal

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gabrielmiguelok/linkhub/internal/access"
	"github.com/gabrielmiguelok/linkhub/internal/catalog"
)

// CopiedIndicatorDuration is how long the "copied" indicator stays on after
// each copy.
const CopiedIndicatorDuration = 2 * time.Second

var (
	// ErrInvalidTransition is returned when an event is not allowed in the
	// current phase.
	ErrInvalidTransition = errors.New("invalid modal transition")
	// ErrInvalidEmail is returned when a submitted email is empty or
	// implausible.
	ErrInvalidEmail = errors.New("invalid email address")
)

// Phase is the modal lifecycle state.
type Phase int

const (
	Closed Phase = iota
	Collecting
	Submitting
	Confirmed
)

func (p Phase) String() string {
	switch p {
	case Closed:
		return "closed"
	case Collecting:
		return "collecting"
	case Submitting:
		return "submitting"
	case Confirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// DismissReason names the control that closed the modal.
type DismissReason string

const (
	DismissClose    DismissReason = "close"
	DismissEscape   DismissReason = "escape"
	DismissBackdrop DismissReason = "backdrop"
)

// Transition describes a phase change.
type Transition struct {
	From   Phase
	To     Phase
	Reason string
}

// Session is a read-only snapshot of the modal for rendering.
type Session struct {
	Phase    Phase
	Resource catalog.Resource
	Email    string
	Copied   bool
}

// Open reports whether the modal is visible.
func (s Session) Open() bool {
	return s.Phase != Closed
}

// InputLocked reports whether the email field accepts edits.
func (s Session) InputLocked() bool {
	return s.Phase != Collecting
}

// Option configures a Machine.
type Option func(*Machine)

// WithObserver registers a callback invoked after every phase change.
func WithObserver(fn func(Transition)) Option {
	return func(m *Machine) {
		m.observer = fn
	}
}

// Machine is the modal state machine.
type Machine struct {
	ports    Ports
	observer func(Transition)

	phase   Phase
	target  catalog.Resource
	email   string
	granted bool
	copied  bool
	timers  []Timer
	// session increments on every Open so reverts scheduled by an earlier
	// session cannot touch a later one.
	session uint64
}

// New creates a closed machine.
func New(ports Ports, opts ...Option) *Machine {
	m := &Machine{ports: ports.withDefaults()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Session returns a snapshot of the current session.
func (m *Machine) Session() Session {
	return Session{
		Phase:    m.phase,
		Resource: m.target,
		Email:    m.email,
		Copied:   m.copied,
	}
}

// Open starts a session for res. Only one session may be open at a time.
func (m *Machine) Open(res catalog.Resource) error {
	if m.phase != Closed {
		return fmt.Errorf("%w: open from %s", ErrInvalidTransition, m.phase)
	}
	m.target = res
	m.email = ""
	m.granted = false
	m.copied = false
	m.session++
	m.ports.ScrollLock.Lock()
	m.transition(Collecting, "open")
	return nil
}

// SetEmail updates the email input.
func (m *Machine) SetEmail(email string) error {
	if m.phase != Collecting {
		return fmt.Errorf("%w: input while %s", ErrInvalidTransition, m.phase)
	}
	m.email = email
	return nil
}

// Submit dispatches the current email and confirms the session. The
// subscription is not awaited, so the machine passes through Submitting
// straight to Confirmed and grants access on dispatch.
func (m *Machine) Submit() error {
	if m.phase != Collecting {
		return fmt.Errorf("%w: submit while %s", ErrInvalidTransition, m.phase)
	}
	email := strings.TrimSpace(m.email)
	if !PlausibleEmail(email) {
		return ErrInvalidEmail
	}
	m.email = email
	m.transition(Submitting, "submit")
	m.ports.Subscriber.Subscribe(email)
	m.grant(access.MethodSubscribe)
	m.transition(Confirmed, "dispatched")
	return nil
}

// Skip grants access without subscribing, opens the target and closes.
func (m *Machine) Skip() error {
	if m.phase != Collecting {
		return fmt.Errorf("%w: skip while %s", ErrInvalidTransition, m.phase)
	}
	m.grant(access.MethodSkip)
	m.ports.Opener.Open(m.target.Link)
	m.close("skip")
	return nil
}

// AccessResource opens the unlocked resource and closes.
func (m *Machine) AccessResource() error {
	if m.phase != Confirmed {
		return fmt.Errorf("%w: access while %s", ErrInvalidTransition, m.phase)
	}
	m.ports.Opener.Open(m.target.Link)
	m.close("access")
	return nil
}

// CopyLink copies the target link and turns the copied indicator on for
// CopiedIndicatorDuration. Each copy schedules its own revert. Clipboard
// failures are ignored.
func (m *Machine) CopyLink() error {
	if m.phase != Confirmed {
		return fmt.Errorf("%w: copy while %s", ErrInvalidTransition, m.phase)
	}
	if err := m.ports.Clipboard.Copy(m.target.Link); err != nil {
		return nil
	}
	m.copied = true
	session := m.session
	m.timers = append(m.timers, m.ports.Clock.AfterFunc(CopiedIndicatorDuration, func() {
		m.clearCopied(session)
	}))
	return nil
}

// Copied reports whether the copied indicator is on.
func (m *Machine) Copied() bool {
	return m.copied
}

// Dismiss closes the modal without granting access. It is a no-op when
// already closed and refused while a submission is in flight.
func (m *Machine) Dismiss(reason DismissReason) error {
	switch m.phase {
	case Closed:
		return nil
	case Submitting:
		return fmt.Errorf("%w: dismiss while %s", ErrInvalidTransition, m.phase)
	}
	m.close(string(reason))
	return nil
}

// clearCopied reverts the indicator unless the session that scheduled it
// has since closed. Callbacks routed through an event loop can arrive after
// Stop, so stopping the timer alone is not enough.
func (m *Machine) clearCopied(session uint64) {
	if session != m.session {
		return
	}
	m.copied = false
}

func (m *Machine) grant(method access.Method) {
	if m.granted {
		return
	}
	m.granted = true
	m.ports.Granter.GrantAccess(method)
}

func (m *Machine) close(reason string) {
	for _, t := range m.timers {
		t.Stop()
	}
	m.timers = nil
	m.copied = false
	m.email = ""
	m.target = catalog.Resource{}
	m.ports.ScrollLock.Unlock()
	m.transition(Closed, reason)
}

func (m *Machine) transition(to Phase, reason string) {
	from := m.phase
	m.phase = to
	if m.observer != nil {
		m.observer(Transition{From: from, To: to, Reason: reason})
	}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@.]{2,}$`)

// PlausibleEmail reports whether s looks like a deliverable address.
func PlausibleEmail(s string) bool {
	return len(s) <= 254 && emailPattern.MatchString(s)
}
