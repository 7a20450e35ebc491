package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/sitegen/cmd/sitegen/handlers"
	"github.com/imamik/sitegen/internal/config"
)

// Init returns the command for interactively creating a site configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "sitegen.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a site configuration",
		Long: `Interactively create a site configuration file.

This command asks about:

  - Project name and parent domain
  - AWS region
  - Optional features (Lambda role, SES mail, Cloudflare DNS,
    GitHub repository, local scaffold)
  - The MAIL FROM prefix when mail is enabled`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Output file path")

	return cmd
}
