package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/sitegen/cmd/sitegen/handlers"
	"github.com/imamik/sitegen/internal/config"
	"github.com/imamik/sitegen/internal/manifest"
)

// Destroy returns the destroy command.
func Destroy() *cobra.Command {
	var opts handlers.DestroyOptions

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy the AWS resources recorded in a manifest",
		Long: `Destroy removes the AWS resources a create run recorded in its manifest.

Resources are deleted newest first:
  - S3 bucket
  - SES domain identity
  - Lambda role and its policy attachments
  - Mail send policy
  - Deploy policy, access key and user

Only resources the manifest records as created are deleted, so the manifest
of a failed create can be destroyed too. The first failure stops the teardown.

The SES domain identity is deleted only when the manifest records it. Pass
--purge-mail-identity to delete it regardless.

The region recorded in the manifest is used unless --region overrides it.

DNS records, the Cloudflare zone and the GitHub repository are NOT removed.

Example:
  sitegen destroy --manifest blog.json

WARNING: This operation is irreversible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ManifestPath, "manifest", "m", manifest.DefaultTeardownFile, "Path to the manifest written by create")
	cmd.Flags().StringVarP(&opts.Region, "region", "r", "", "AWS region override (default: region recorded in the manifest, else "+config.DefaultRegion+")")
	cmd.Flags().BoolVar(&opts.PurgeMailIdentity, "purge-mail-identity", false, "Delete the SES identity even if the manifest does not record it")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file")

	return cmd
}
