package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gabrielmiguelok/linkhub/internal/config"
	"github.com/gabrielmiguelok/linkhub/pkg/logging"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "linkhub",
	Short: "Link hub page with gated resources",
	Long: `linkhub renders a personal link hub from a TOML site file.

Resources can be gated behind a newsletter prompt. The page is either served
live, with the gate driven over a WebSocket, or exported as static files that
gate in the browser.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", envOr("LINKHUB_CONFIG", config.DefaultPath), "site file (env LINKHUB_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "info"), "debug, info, warn or error (env LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "text or json")

	rootCmd.AddGroup(
		&cobra.Group{ID: "site", Title: "Site Commands:"},
		&cobra.Group{ID: "publish", Title: "Publish Commands:"},
	)
	rootCmd.SetHelpCommandGroupID("site")
	rootCmd.SetCompletionCommandGroupID("site")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newLogger builds the process logger from the persistent flags and installs
// it as the default.
func newLogger(w io.Writer) (logging.Logger, error) {
	level := logging.ParseLevel(logLevel)
	opts := []logging.LoggerOption{
		logging.WithLevel(level),
		logging.WithOutput(w),
	}
	if level <= slog.LevelDebug {
		opts = append(opts, logging.WithSource())
	}
	switch strings.ToLower(logFormat) {
	case "text", "":
	case "json":
		opts = append(opts, logging.WithJSON())
	default:
		return nil, fmt.Errorf("unknown log format %q", logFormat)
	}
	logger := logging.NewSlogLogger(opts...)
	logging.SetDefault(logger)
	return logger, nil
}
