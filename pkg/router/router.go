// Package router serves live views: the initial HTML render over HTTP and
// the socket that keeps each rendered page in sync with its component.
package router

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/gabrielmiguelok/linkhub/pkg/core"
	"github.com/gabrielmiguelok/linkhub/pkg/logging"
	"github.com/gabrielmiguelok/linkhub/pkg/pool"
	"github.com/gabrielmiguelok/linkhub/pkg/protocol"
	"github.com/gabrielmiguelok/linkhub/pkg/transport"
)

// ErrNilRenderer is returned when a component renders nothing.
var ErrNilRenderer = errors.New("component returned nil renderer")

// SocketPath is where live clients open their socket.
const SocketPath = "/_live/websocket"

// Factory creates a fresh component for one render or socket.
type Factory func() core.Component

// ErrorHandler handles errors during request processing.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Router maps page paths to live components.
type Router struct {
	routes map[string]Factory
	mu     sync.RWMutex

	sockets         *core.SocketManager
	logger          logging.Logger
	transportConfig *transport.Config
	wsConfig        *transport.WebSocketConfig
	errorHandler    ErrorHandler
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithTransportConfig sets socket timing and limits.
func WithTransportConfig(cfg *transport.Config) Option {
	return func(r *Router) {
		r.transportConfig = cfg
	}
}

// WithWebSocketConfig sets socket origin rules.
func WithWebSocketConfig(cfg *transport.WebSocketConfig) Option {
	return func(r *Router) {
		r.wsConfig = cfg
	}
}

// WithErrorHandler sets the handler for failed HTTP renders.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Router) {
		r.errorHandler = h
	}
}

// New creates a router with no routes.
func New(opts ...Option) *Router {
	r := &Router{
		routes:          make(map[string]Factory),
		sockets:         core.NewSocketManager(),
		logger:          logging.NopLogger{},
		transportConfig: transport.DefaultConfig(),
		wsConfig:        &transport.WebSocketConfig{},
	}
	r.errorHandler = func(w http.ResponseWriter, req *http.Request, err error) {
		logging.L(req.Context()).Error("live render failed", logging.Err(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Live registers a component factory for path.
func (r *Router) Live(path string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[path] = factory
}

func (r *Router) lookup(path string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.routes[path]
	return f, ok
}

// Sockets returns the live socket registry.
func (r *Router) Sockets() *core.SocketManager {
	return r.sockets
}

// Shutdown closes every live socket.
func (r *Router) Shutdown(ctx context.Context) error {
	r.sockets.CloseAll()
	return ctx.Err()
}

// PageHandler renders the component registered for path over plain HTTP.
func (r *Router) PageHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		factory, ok := r.lookup(path)
		if !ok {
			http.NotFound(w, req)
			return
		}

		ctx := req.Context()
		component := factory()
		if err := component.Mount(ctx, queryParams(req), core.Session{}); err != nil {
			r.errorHandler(w, req, err)
			return
		}

		renderer := component.Render(ctx)
		if renderer == nil {
			r.errorHandler(w, req, ErrNilRenderer)
			return
		}

		buf := pool.GetBuffer()
		defer pool.PutBuffer(buf)

		if err := renderer.Render(ctx, buf); err != nil {
			r.errorHandler(w, req, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}

// SocketHandler upgrades live clients. The vsn query parameter selects the
// wire codec.
func (r *Router) SocketHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logger := logging.L(req.Context())
		codec := protocol.CodecFor(req.URL.Query().Get("vsn"))

		ws := transport.NewWebSocketTransport(r.transportConfig, r.wsConfig, codec, logger)
		if err := ws.Upgrade(w, req); err != nil {
			logger.Warn("live socket upgrade failed", logging.Err(err))
			return
		}

		socket := core.NewSocket(uuid.NewString(), transportAdapter{ws: ws})
		r.sockets.Add(socket)

		session := &liveSession{
			router: r,
			socket: socket,
			ws:     ws,
			logger: logger.With(
				logging.String("socket_id", socket.ID()),
				logging.String("codec", codec.Name()),
			),
			// The socket outlives the upgrade request.
			ctx: context.Background(),
		}
		go session.loop()
	}
}

func queryParams(req *http.Request) core.Params {
	params := make(core.Params)
	for key, values := range req.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}
