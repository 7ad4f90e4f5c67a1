package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabrielmiguelok/linkhub/internal/config"
)

var validateCmd = &cobra.Command{
	Use:     "validate",
	Short:   "Check the site file",
	GroupID: "site",
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := config.Load(configPath)
		if err != nil {
			return err
		}
		catalog := site.Catalog()

		printSuccess("%s is valid", configPath)
		fmt.Println(titleStyle.Render(site.Metadata.Title))
		printField("resources", fmt.Sprintf("%d (%d live)", catalog.Len(), len(catalog.Live())))
		printField("gating", onOff(!site.GatingDisabled()))
		printField("blog", onOff(site.Blog.Enabled))
		if len(site.Tools) > 0 {
			printField("default tool", site.Tools[site.DefaultToolIndex()].Name)
		}
		printField("base path", orDash(site.Build.BasePath))
		printField("site url", orDash(site.Build.SiteURL))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
