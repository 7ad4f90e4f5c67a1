// Package devserver reloads the site file while serving and tells open
// pages to refresh.
package devserver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gabrielmiguelok/linkhub/internal/config"
	"github.com/gabrielmiguelok/linkhub/pkg/logging"
)

// ReloadPath is where pages listen for reload events.
const ReloadPath = "/_dev/reload"

// Watcher polls the site file and public directory and reloads the site
// when either changes.
type Watcher struct {
	path     string
	dirs     []string
	interval time.Duration
	logger   logging.Logger
	load     func(string) (*config.Site, error)

	site    atomic.Pointer[config.Site]
	lastMod time.Time

	clients   map[string]chan struct{}
	loadError error
	mu        sync.RWMutex
}

// Config configures a Watcher.
type Config struct {
	// Path is the site file.
	Path string
	// Interval between polls.
	Interval time.Duration
	Logger   logging.Logger
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		Path:     config.DefaultPath,
		Interval: time.Second,
	}
}

// New creates a watcher serving site until the first reload.
func New(cfg *Config, site *config.Site) *Watcher {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NopLogger{}
	}

	w := &Watcher{
		path:     cfg.Path,
		dirs:     []string{site.Build.PublicDir},
		interval: cfg.Interval,
		logger:   cfg.Logger,
		load:     config.Load,
		clients:  make(map[string]chan struct{}),
	}
	w.site.Store(site)
	w.lastMod = w.latestMod()
	return w
}

// Site returns the most recently loaded site.
func (w *Watcher) Site() *config.Site {
	return w.site.Load()
}

// Err returns the error from the last reload, if it failed.
func (w *Watcher) Err() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loadError
}

// Run polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check reloads the site if any watched file changed since the last check
// and reports whether a reload was attempted. A site file that fails to
// load keeps the previous site in place.
func (w *Watcher) Check() bool {
	current := w.latestMod()
	if !current.After(w.lastMod) {
		return false
	}
	w.lastMod = current

	site, err := w.load(w.path)

	w.mu.Lock()
	w.loadError = err
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("site reload failed", logging.String("path", w.path), logging.Err(err))
		return true
	}

	w.site.Store(site)
	w.dirs = []string{site.Build.PublicDir}
	w.logger.Info("site reloaded", logging.String("path", w.path))
	w.notifyClients()
	return true
}

func (w *Watcher) latestMod() time.Time {
	var latest time.Time
	if info, err := os.Stat(w.path); err == nil {
		latest = info.ModTime()
	}

	for _, dir := range w.dirs {
		if dir == "" {
			continue
		}
		_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			if info.ModTime().After(latest) {
				latest = info.ModTime()
			}
			return nil
		})
	}
	return latest
}

func (w *Watcher) notifyClients() {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, ch := range w.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Clients returns the number of connected reload listeners.
func (w *Watcher) Clients() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.clients)
}

// Handler streams reload events to pages.
func (w *Watcher) Handler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		flusher, ok := rw.(http.Flusher)
		if !ok {
			http.Error(rw, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		rw.Header().Set("Content-Type", "text/event-stream")
		rw.Header().Set("Cache-Control", "no-cache")
		rw.Header().Set("Connection", "keep-alive")

		id := uuid.NewString()
		ch := make(chan struct{}, 1)

		w.mu.Lock()
		w.clients[id] = ch
		w.mu.Unlock()

		defer func() {
			w.mu.Lock()
			delete(w.clients, id)
			w.mu.Unlock()
		}()

		fmt.Fprintf(rw, "data: connected\n\n")
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-ch:
				fmt.Fprintf(rw, "data: reload\n\n")
				flusher.Flush()
			}
		}
	})
}
