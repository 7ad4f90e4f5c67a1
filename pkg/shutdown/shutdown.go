// Package shutdown runs ordered cleanup hooks when the process is asked to
// stop.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"
)

// Common shutdown errors.
var (
	ErrShutdownTimeout = errors.New("shutdown timed out")
	ErrAlreadyClosed   = errors.New("shutdown already ran")
)

// Hook priorities. Lower runs first.
const (
	PriorityHTTP    = 100
	PrioritySockets = 200
	PriorityCache   = 400
)

// Hook is one cleanup step.
type Hook struct {
	Name     string
	Priority int
	Fn       func(ctx context.Context) error
}

// Config configures the shutdown handler.
type Config struct {
	// Timeout bounds the whole shutdown.
	Timeout time.Duration
	Signals []os.Signal

	// OnHookComplete is called after each hook runs.
	OnHookComplete func(name string, err error, took time.Duration)
}

// DefaultConfig returns the defaults used by the serve command.
func DefaultConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
		Signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
}

// Handler runs hooks once, on signal or on demand.
type Handler struct {
	config *Config
	hooks  []Hook
	done   chan struct{}
	closed bool
	mu     sync.Mutex
}

// NewHandler creates a shutdown handler.
func NewHandler(config *Config) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	return &Handler{
		config: config,
		done:   make(chan struct{}),
	}
}

// Register adds a hook.
func (h *Handler) Register(name string, priority int, fn func(ctx context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, Hook{Name: name, Priority: priority, Fn: fn})
}

// Wait blocks until ctx is cancelled or a signal arrives, then runs the
// hooks. It returns nil without running them if Shutdown already ran.
func (h *Handler) Wait(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, h.config.Signals...)
	defer stop()

	select {
	case <-ctx.Done():
	case <-h.done:
		return nil
	}
	return h.Shutdown()
}

// Shutdown runs every hook in priority order.
func (h *Handler) Shutdown() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrAlreadyClosed
	}
	h.closed = true
	close(h.done)
	hooks := make([]Hook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	sort.SliceStable(hooks, func(i, j int) bool {
		return hooks[i].Priority < hooks[j].Priority
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var errs []error
	for _, hook := range hooks {
		start := time.Now()
		err := hook.Fn(ctx)
		if h.config.OnHookComplete != nil {
			h.config.OnHookComplete(hook.Name, err, time.Since(start))
		}
		if err != nil {
			errs = append(errs, err)
		}
		if ctx.Err() != nil {
			errs = append(errs, ErrShutdownTimeout)
			break
		}
	}
	return errors.Join(errs...)
}

// Done is closed once shutdown starts.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
