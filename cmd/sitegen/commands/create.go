package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/imamik/sitegen/cmd/sitegen/handlers"
	"github.com/imamik/sitegen/internal/config"
)

// createFlags holds the configuration overrides of the create command.
type createFlags struct {
	project        string
	domain         string
	region         string
	indexDocument  string
	errorDocument  string
	mailFromPrefix string
	mailSendName   string
	outputDir      string
	lambda         bool
	ses            bool
	dns            bool
	repo           bool
	scaffold       bool
}

// apply copies every flag the user set onto cfg.
func (f *createFlags) apply(flags *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, fn func()) {
		if flags.Changed(name) {
			fn()
		}
	}
	set("project", func() { cfg.Project = f.project })
	set("domain", func() { cfg.Domain = f.domain })
	set("region", func() { cfg.Region = f.region })
	set("index-document", func() { cfg.IndexDocument = f.indexDocument })
	set("error-document", func() { cfg.ErrorDocument = f.errorDocument })
	set("mail-from-prefix", func() { cfg.MailFromPrefix = f.mailFromPrefix })
	set("mail-send-name", func() { cfg.MailSendName = f.mailSendName })
	set("output-dir", func() { cfg.OutputDir = f.outputDir })
	set("lambda", func() { cfg.CreateLambda = f.lambda })
	set("ses", func() { cfg.CreateSES = f.ses })
	set("dns", func() { cfg.UseDNSProvider = f.dns })
	set("repo", func() { cfg.CreateSourceRepo = f.repo })
	set("scaffold", func() { cfg.ScaffoldProject = f.scaffold })
}

// Create returns the command that provisions a site.
func Create() *cobra.Command {
	var (
		configPath  string
		metricsFile string
		f           createFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Provision a static site and its supporting resources",
		Long: `Create provisions everything a static site needs:

  - IAM deploy user, access key and deploy policy
  - Lambda execution role (--lambda)
  - SES domain identity, DKIM and MAIL FROM records (--ses)
  - S3 bucket configured for static website hosting
  - Cloudflare zone and DNS records (--dns)
  - Private GitHub repository (--repo)
  - Local project scaffolded from a template (--scaffold)

Settings are read from sitegen.yaml (or --config) and overridden by flags.
Without a project name on an interactive terminal, a wizard asks for it.

The manifest <output-dir>/<project>.json is written after every step and
is what "sitegen destroy" reads.

Example:
  sitegen create --project blog --domain example.com --ses --mail-from-prefix mail`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), handlers.CreateOptions{
				ConfigPath:  configPath,
				MetricsFile: metricsFile,
				Override: func(cfg *config.Config) {
					f.apply(cmd.Flags(), cfg)
				},
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to site configuration file (default: sitegen.yaml if present)")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")

	f.bind(flags)

	return cmd
}

// bind registers the override flags on flags.
func (f *createFlags) bind(flags *pflag.FlagSet) {
	flags.StringVarP(&f.project, "project", "p", "", "Project name; the site is <project>.<domain>")
	flags.StringVarP(&f.domain, "domain", "d", config.DefaultDomain, "Parent domain")
	flags.StringVarP(&f.region, "region", "r", config.DefaultRegion, "AWS region")
	flags.StringVar(&f.indexDocument, "index-document", config.DefaultIndexDocument, "Website index document")
	flags.StringVar(&f.errorDocument, "error-document", config.DefaultErrorDocument, "Website error document")
	flags.StringVar(&f.mailFromPrefix, "mail-from-prefix", "", "MAIL FROM sub-domain prefix (required with --ses)")
	flags.StringVar(&f.mailSendName, "mail-send-name", config.DefaultMailSendName, "Local part allowed to send mail")
	flags.StringVarP(&f.outputDir, "output-dir", "o", config.DefaultOutputDir, "Directory the manifest is written to")
	flags.BoolVar(&f.lambda, "lambda", false, "Create a Lambda execution role")
	flags.BoolVar(&f.ses, "ses", false, "Set up SES mail for the site")
	flags.BoolVar(&f.dns, "dns", false, "Publish DNS records through Cloudflare")
	flags.BoolVar(&f.repo, "repo", false, "Create a private GitHub repository")
	flags.BoolVar(&f.scaffold, "scaffold", false, "Scaffold the project locally from the template repository")
}
