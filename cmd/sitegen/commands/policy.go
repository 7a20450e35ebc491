package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/sitegen/cmd/sitegen/handlers"
	"github.com/imamik/sitegen/internal/config"
	"github.com/imamik/sitegen/internal/policy"
)

// Policy returns the command group for the embedded policy documents.
func Policy() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect the embedded IAM policy documents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the embedded policy documents",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			handlers.PolicyList()
		},
	})
	cmd.AddCommand(policyRender())

	return cmd
}

func policyRender() *cobra.Command {
	var vars policy.Vars

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Print a policy document rendered for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return handlers.PolicyRender(args[0], vars)
		},
	}

	cmd.Flags().StringVarP(&vars.Project, "project", "p", "", "Project name")
	cmd.Flags().StringVarP(&vars.Domain, "domain", "d", config.DefaultDomain, "Parent domain")
	cmd.Flags().StringVar(&vars.EmailName, "email-name", config.DefaultMailSendName, "Local part allowed to send mail")

	return cmd
}
