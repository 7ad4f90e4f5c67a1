// Package core provides the abstractions live components are built on.
package core

import (
	"context"
	"io"
)

// Component is a stateful server-side view bound to one client socket.
type Component interface {
	// Name returns the identifier for this component type.
	Name() string

	// Mount is called before the first render, both for the initial HTTP
	// render and again when the client socket joins.
	Mount(ctx context.Context, params Params, session Session) error

	// Render returns the current HTML representation of the component.
	Render(ctx context.Context) Renderer

	// HandleEvent processes a client event.
	HandleEvent(ctx context.Context, event string, payload map[string]any) error

	// HandleInfo processes messages sent to the socket from inside the
	// server, such as timer callbacks.
	HandleInfo(ctx context.Context, msg any) error

	// Terminate is called when the socket goes away.
	Terminate(ctx context.Context, reason TerminateReason) error
}

// Renderer writes HTML.
type Renderer interface {
	Render(ctx context.Context, w io.Writer) error
}

// RendererFunc is an adapter to allow ordinary functions to be used as Renderers.
type RendererFunc func(ctx context.Context, w io.Writer) error

func (f RendererFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

// Params contains URL query parameters.
type Params map[string]string

// Get returns a parameter value or empty string if not found.
func (p Params) Get(key string) string {
	return p[key]
}

// Session carries per-connection data handed to Mount.
type Session map[string]any

// StorageKey holds the browser storage snapshot sent with the socket join,
// as a map[string]string.
const StorageKey = "storage"

// Storage returns the browser storage snapshot, or nil for HTTP renders.
func (s Session) Storage() map[string]string {
	m, _ := s[StorageKey].(map[string]string)
	return m
}

// TerminateReason indicates why a component is being terminated.
type TerminateReason int

const (
	TerminateNormal TerminateReason = iota
	TerminateShutdown
	TerminateError
)

func (r TerminateReason) String() string {
	switch r {
	case TerminateNormal:
		return "normal"
	case TerminateShutdown:
		return "shutdown"
	case TerminateError:
		return "error"
	default:
		return "unknown"
	}
}

// BaseComponent provides default implementations for Component methods.
// Embed it to avoid implementing unused methods.
type BaseComponent struct {
	socket *Socket
}

// SetSocket sets the socket for the component (called by the router).
func (bc *BaseComponent) SetSocket(s *Socket) {
	bc.socket = s
}

// Socket returns the component's socket, or nil during HTTP renders.
func (bc *BaseComponent) Socket() *Socket {
	return bc.socket
}

// Connected reports whether the component is bound to a live socket.
func (bc *BaseComponent) Connected() bool {
	return bc.socket != nil
}

func (bc *BaseComponent) Name() string {
	return ""
}

func (bc *BaseComponent) Mount(ctx context.Context, params Params, session Session) error {
	return nil
}

func (bc *BaseComponent) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	return nil
}

func (bc *BaseComponent) HandleInfo(ctx context.Context, msg any) error {
	return nil
}

func (bc *BaseComponent) Terminate(ctx context.Context, reason TerminateReason) error {
	return nil
}
