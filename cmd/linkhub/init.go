package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabrielmiguelok/linkhub/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Write a starter site file",
	GroupID: "site",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Write(configPath, config.Default(), initForce); err != nil {
			return err
		}
		printSuccess("Created %s", configPath)
		fmt.Println(subtleStyle.Render("Edit it, then run: linkhub serve"))
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing site file")
	rootCmd.AddCommand(initCmd)
}
