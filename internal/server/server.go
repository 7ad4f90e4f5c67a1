// Package server wires the hub page, the live socket and the supporting
// endpoints into one HTTP handler.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/gabrielmiguelok/linkhub/client"
	"github.com/gabrielmiguelok/linkhub/internal/config"
	"github.com/gabrielmiguelok/linkhub/internal/devserver"
	"github.com/gabrielmiguelok/linkhub/internal/feed"
	"github.com/gabrielmiguelok/linkhub/internal/hub"
	"github.com/gabrielmiguelok/linkhub/internal/modal"
	"github.com/gabrielmiguelok/linkhub/pkg/core"
	"github.com/gabrielmiguelok/linkhub/pkg/health"
	"github.com/gabrielmiguelok/linkhub/pkg/logging"
	"github.com/gabrielmiguelok/linkhub/pkg/router"
	"github.com/gabrielmiguelok/linkhub/pkg/transport"
)

// Defaults for Options left zero.
const (
	DefaultRateLimit  = 10
	DefaultRateBurst  = 40
	DefaultMaxSockets = 10000
	feedMaxAge        = 5 * time.Minute
)

// Options configures a Server.
type Options struct {
	Addr string
	Site *config.Site
	// Watcher, when set, supplies the site for every render and enables
	// page reloads.
	Watcher *devserver.Watcher
	Feed    *feed.Service
	// Subscriber dispatches subscriptions from the server. When nil the
	// browser submits the form itself.
	Subscriber modal.Subscriber
	Health     *health.Checker
	Logger     logging.Logger

	// AllowedOrigins may open live sockets from other sites and read the
	// feed API. The feed API is open to every origin when it is empty.
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
	MaxSockets     int
}

// Server serves the hub.
type Server struct {
	opts       Options
	router     chi.Router
	live       *router.Router
	httpServer *http.Server
}

// New creates a server. Background work started for rate limiting stops
// when ctx is done.
func New(ctx context.Context, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger{}
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = DefaultRateBurst
	}
	if opts.MaxSockets <= 0 {
		opts.MaxSockets = DefaultMaxSockets
	}
	if opts.Health == nil {
		opts.Health = health.NewChecker("")
	}

	s := &Server{opts: opts}
	s.live = router.New(
		router.WithLogger(opts.Logger),
		router.WithWebSocketConfig(&transport.WebSocketConfig{AllowedOrigins: opts.AllowedOrigins}),
	)
	s.live.Live("/", s.newHub)

	opts.Health.AddCriticalCheck("live_sockets", health.SocketCapacityCheck(s.live.Sockets().Count, opts.MaxSockets), 0)
	if opts.Watcher != nil {
		opts.Health.AddCheck("site_config", func(context.Context) error { return opts.Watcher.Err() }, 0)
	}

	s.router = s.routes(ctx)
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) site() *config.Site {
	if s.opts.Watcher != nil {
		return s.opts.Watcher.Site()
	}
	return s.opts.Site
}

func (s *Server) newHub() core.Component {
	opts := []hub.Option{
		hub.WithFeed(s.opts.Feed),
		hub.WithPath("/"),
	}
	if s.opts.Subscriber != nil {
		opts = append(opts, hub.WithSubscriber(s.opts.Subscriber))
	}
	if s.opts.Watcher != nil {
		opts = append(opts, hub.WithReload(devserver.ReloadPath))
	}
	return hub.New(s.site(), opts...)
}

func (s *Server) routes(ctx context.Context) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(logging.RequestLogger(s.opts.Logger))
	r.Use(chimw.Recoverer)
	r.Use(SecureHeaders(DefaultSecureHeadersConfig()))

	limit := RateLimitByIP(ctx, s.opts.RateLimit, s.opts.RateBurst)

	site := chi.NewRouter()
	site.Method(http.MethodGet, "/health", s.opts.Health.Handler())

	site.Group(func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet},
			MaxAge:         int(feedMaxAge.Seconds()),
		}).Handler)
		r.Use(limit)
		r.Get("/api/feed", s.handleFeed)
		r.Options("/api/feed", func(w http.ResponseWriter, _ *http.Request) {})
	})

	site.With(limit).Get(router.SocketPath, s.live.SocketHandler())
	site.Handle("/_live/*", http.StripPrefix("/_live", client.Handler()))
	site.Handle("/_linkhub/*", http.StripPrefix("/_linkhub", client.Handler()))
	if s.opts.Watcher != nil {
		site.Method(http.MethodGet, devserver.ReloadPath, s.opts.Watcher.Handler())
	}

	site.With(limit).Get("/", s.live.PageHandler("/"))
	site.NotFound(s.servePublic)

	base := s.site().Build.BasePath
	if base == "" {
		r.Mount("/", site)
		return r
	}
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, base+"/", http.StatusFound)
	})
	r.Mount(base, http.StripPrefix(base, site))
	return r
}

// servePublic serves files from the site's public directory.
func (s *Server) servePublic(w http.ResponseWriter, r *http.Request) {
	dir := s.site().Build.PublicDir
	if dir == "" {
		http.NotFound(w, r)
		return
	}
	http.FileServer(http.Dir(dir)).ServeHTTP(w, r)
}

type feedResponse struct {
	Title string      `json:"title"`
	Posts []feed.Post `json:"posts"`
}

// handleFeed returns the recent posts. Exported pages whose blog.feed_api
// points here refresh their blog section from it.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	site := s.site()
	if !site.Blog.Enabled {
		http.NotFound(w, r)
		return
	}

	posts := s.opts.Feed.Recent(r.Context(), site.Blog.FeedURL)
	if posts == nil {
		posts = []feed.Post{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(feedMaxAge.Seconds())))
	if err := json.NewEncoder(w).Encode(feedResponse{Title: site.Blog.Title, Posts: posts}); err != nil {
		logging.L(r.Context()).Debug("feed response failed", logging.Err(err))
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Live returns the live view router.
func (s *Server) Live() *router.Router {
	return s.live
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	s.opts.Logger.Info("server listening", logging.String("addr", s.opts.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
