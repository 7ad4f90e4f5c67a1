package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gabrielmiguelok/linkhub/internal/config"
	"github.com/gabrielmiguelok/linkhub/internal/devserver"
	"github.com/gabrielmiguelok/linkhub/internal/newsletter"
	"github.com/gabrielmiguelok/linkhub/internal/server"
	"github.com/gabrielmiguelok/linkhub/pkg/health"
	"github.com/gabrielmiguelok/linkhub/pkg/logging"
	"github.com/gabrielmiguelok/linkhub/pkg/shutdown"
)

var serveFlags struct {
	host           string
	port           string
	watch          bool
	serverDispatch bool
	allowedOrigins []string
	rateLimit      float64
	rateBurst      int
	maxSockets     int
}

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Serve the live hub",
	GroupID: "site",
	Long: `Serve the hub page. Visitors' browsers join a live socket and the gate runs
on the server. With --watch the site file and public directory are polled and
open pages reload after every change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.host, "host", "", "interface to listen on")
	f.StringVarP(&serveFlags.port, "port", "p", envOr("PORT", config.DefaultPort), "port to listen on (env PORT)")
	f.BoolVarP(&serveFlags.watch, "watch", "w", false, "reload the site file and open pages on change")
	f.BoolVar(&serveFlags.serverDispatch, "server-dispatch", false, "send subscriptions from the server instead of the browser")
	f.StringSliceVar(&serveFlags.allowedOrigins, "allowed-origin", nil, "extra origin allowed to open live sockets (repeatable)")
	f.Float64Var(&serveFlags.rateLimit, "rate-limit", server.DefaultRateLimit, "requests per second per client IP")
	f.IntVar(&serveFlags.rateBurst, "rate-burst", server.DefaultRateBurst, "request burst per client IP")
	f.IntVar(&serveFlags.maxSockets, "max-sockets", server.DefaultMaxSockets, "live sockets before health reports unhealthy")
	addFeedFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	site, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cache, err := openFeedCache(ctx)
	if err != nil {
		return fmt.Errorf("feed cache: %w", err)
	}

	checker := health.NewChecker(version)
	if cache.redis != nil {
		checker.AddCheck("feed_cache", cache.redis.Ping, 2*time.Second)
	}

	opts := server.Options{
		Addr:           net.JoinHostPort(serveFlags.host, serveFlags.port),
		Site:           site,
		Feed:           newFeedService(site, cache, logger),
		Health:         checker,
		Logger:         logger,
		AllowedOrigins: serveFlags.allowedOrigins,
		RateLimit:      serveFlags.rateLimit,
		RateBurst:      serveFlags.rateBurst,
		MaxSockets:     serveFlags.maxSockets,
	}

	if serveFlags.serverDispatch && site.Blog.SubscribeURL != "" {
		d, err := newsletter.NewHTTPDispatcher(site.Blog.SubscribeURL, newsletter.WithLogger(logger))
		if err != nil {
			return err
		}
		opts.Subscriber = d
	}

	if serveFlags.watch {
		watcher := devserver.New(&devserver.Config{Path: configPath, Interval: time.Second, Logger: logger}, site)
		go watcher.Run(ctx)
		opts.Watcher = watcher
	}

	srv := server.New(ctx, opts)

	handler := shutdown.NewHandler(&shutdown.Config{
		Timeout: shutdown.DefaultConfig().Timeout,
		Signals: shutdown.DefaultConfig().Signals,
		OnHookComplete: func(name string, err error, took time.Duration) {
			if err != nil {
				logger.Warn("shutdown hook failed", logging.String("hook", name), logging.Err(err))
				return
			}
			logger.Debug("shutdown hook done", logging.String("hook", name), logging.Duration("took", took))
		},
	})
	handler.Register("http", shutdown.PriorityHTTP, srv.Shutdown)
	handler.Register("sockets", shutdown.PrioritySockets, srv.Live().Shutdown)
	handler.Register("feed_cache", shutdown.PriorityCache, func(context.Context) error {
		return cache.close()
	})

	printSuccess("Serving %s", site.Metadata.Title)
	printField("address", "http://"+displayAddr(opts.Addr)+site.Build.BasePath+"/")
	printField("gating", onOff(!site.GatingDisabled()))
	printField("watch", onOff(serveFlags.watch))

	startErr := make(chan error, 1)
	go func() {
		err := srv.Start()
		startErr <- err
		if err != nil {
			_ = handler.Shutdown()
		}
	}()

	if err := handler.Wait(ctx); err != nil {
		return err
	}
	select {
	case err := <-startErr:
		return err
	default:
		logger.Info("server stopped")
		return nil
	}
}

func displayAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || host != "" {
		return addr
	}
	return net.JoinHostPort("localhost", port)
}
