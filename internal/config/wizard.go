package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// RunWizard asks for the site configuration interactively, starting from
// seed (values already given on the command line are offered as defaults).
func RunWizard(ctx context.Context, seed Config) (Config, error) {
	cfg := seed.WithDefaults()
	if cfg.MailFromPrefix == "" {
		cfg.MailFromPrefix = "mail"
	}

	form := huh.NewForm(
		// Site identity
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description("Lowercase DNS label; the site is served from <project>.<domain>").
				Placeholder("my-site").
				Value(&cfg.Project).
				Validate(validateSiteName),
			huh.NewInput().
				Title("Domain").
				Value(&cfg.Domain).
				Validate(validateNonEmpty("domain")),
		).Title("Site"),

		// Repository and local scaffold
		huh.NewGroup(
			huh.NewConfirm().
				Title("Create a private GitHub repository?").
				Value(&cfg.CreateSourceRepo),
			huh.NewConfirm().
				Title("Initialize the project from the default template?").
				Value(&cfg.ScaffoldProject),
		).Title("Source"),

		// Bucket documents
		huh.NewGroup(
			huh.NewInput().
				Title("Index document").
				Value(&cfg.IndexDocument).
				Validate(validateNonEmpty("index document")),
			huh.NewInput().
				Title("Error document").
				Value(&cfg.ErrorDocument).
				Validate(validateNonEmpty("error document")),
		).Title("Static site"),

		// AWS extras and DNS
		huh.NewGroup(
			huh.NewConfirm().
				Title("Create Lambda execution role?").
				Value(&cfg.CreateLambda),
			huh.NewConfirm().
				Title("Configure SES?").
				Value(&cfg.CreateSES),
			huh.NewConfirm().
				Title("Configure site for Cloudflare?").
				Value(&cfg.UseDNSProvider),
			huh.NewConfirm().
				Title("Update registrar nameservers?").
				Description("Recorded only; sitegen does not change registrar settings").
				Value(&cfg.UpdateRegistrarNameservers),
		).Title("Features"),

		// Only asked when SES is enabled
		huh.NewGroup(
			huh.NewInput().
				Title("Mail from domain prefix").
				Value(&cfg.MailFromPrefix).
				Validate(validateSiteName),
		).Title("Mail").WithHideFunc(func() bool { return !cfg.CreateSES }),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return Config{}, fmt.Errorf("wizard canceled: %w", err)
	}

	if !cfg.CreateSES {
		cfg.MailFromPrefix = seed.MailFromPrefix
	}
	return cfg, nil
}

func validateSiteName(s string) error {
	if !siteNamePattern.MatchString(s) {
		return errors.New("must be a lowercase DNS label (letters, digits, hyphens)")
	}
	return nil
}

func validateNonEmpty(what string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s must be provided", what)
		}
		return nil
	}
}
