package main

import (
	"github.com/spf13/cobra"

	"github.com/gabrielmiguelok/linkhub/internal/export"
	"github.com/gabrielmiguelok/linkhub/pkg/logging"
)

var s3Flags export.S3Config

var deployCmd = &cobra.Command{
	Use:     "deploy",
	Short:   "Export the hub and upload it to S3",
	GroupID: "publish",
	Long: `Export the static site, then upload it to an S3 bucket or any S3-compatible
store. Credentials come from the default AWS chain. Pages are uploaded last so
visitors never load a page whose assets are missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := runExport(ctx)
		if err != nil {
			return err
		}

		pub, err := export.NewS3Publisher(ctx, s3Flags, logging.L(ctx))
		if err != nil {
			return err
		}
		if err := pub.Publish(ctx, m); err != nil {
			return err
		}

		printSuccess("Deployed %d files to s3://%s/%s", len(m.Files), s3Flags.Bucket, s3Flags.Prefix)
		return nil
	},
}

func init() {
	f := deployCmd.Flags()
	f.StringVar(&s3Flags.Bucket, "bucket", "", "destination bucket")
	f.StringVar(&s3Flags.Prefix, "prefix", "", "key prefix inside the bucket")
	f.StringVar(&s3Flags.Region, "region", envOr("AWS_REGION", ""), "bucket region (env AWS_REGION)")
	f.StringVar(&s3Flags.Endpoint, "endpoint", "", "S3-compatible endpoint URL")
	_ = deployCmd.MarkFlagRequired("bucket")

	addExportFlags(deployCmd)
	rootCmd.AddCommand(deployCmd)
}
