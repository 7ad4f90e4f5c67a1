package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gabrielmiguelok/linkhub/internal/config"
	"github.com/gabrielmiguelok/linkhub/internal/export"
)

var exportFlags struct {
	outDir string
	clean  bool
}

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Write the hub as a static site",
	GroupID: "publish",
	Long: `Render the hub in static mode. The gate runs in the browser and remembers
visitors in localStorage. Blog posts are fetched once and baked into the page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := runExport(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess("Exported %d files to %s", len(m.Files), m.Dir)
		return nil
	},
}

func init() {
	addExportFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&exportFlags.outDir, "out", "o", export.DefaultOutDir, "output directory")
	cmd.Flags().BoolVar(&exportFlags.clean, "clean", false, "remove the previous contents of the output directory")
	addFeedFlags(cmd)
}

func runExport(ctx context.Context) (*export.Manifest, error) {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return nil, err
	}
	site, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	posts, err := loadPosts(ctx, site, logger)
	if err != nil {
		return nil, err
	}
	return export.Write(export.Options{
		Site:   site,
		OutDir: exportFlags.outDir,
		Posts:  posts,
		Clean:  exportFlags.clean,
		Logger: logger,
	})
}
