package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/sitegen/cmd/sitegen/handlers"
)

// Doctor returns the command for checking a site configuration before create.
func Doctor() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, credentials and local tools",
		Long: `Doctor checks everything create needs without contacting any provider:

  - The configuration file validates
  - Environment variables required by enabled features are set
  - git and the install command are on PATH when scaffolding`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: sitegen.yaml)")

	return cmd
}
