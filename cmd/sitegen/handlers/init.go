package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/sitegen/internal/config"
)

// saveConfig writes the config to a file - can be replaced in tests.
var saveConfig = config.Save

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	cfg, err := runWizard(ctx, config.Config{}.WithDefaults())
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	if err := saveConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("sitegen - static sites on AWS")
	fmt.Println("=============================")
	fmt.Println()
	fmt.Println("This wizard creates a site configuration.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Site Summary")
	fmt.Println("------------")
	fmt.Printf("  Site:     %s\n", cfg.SiteDomain())
	fmt.Printf("  Region:   %s\n", cfg.Region)
	fmt.Printf("  Lambda:   %s\n", enabled(cfg.CreateLambda))
	fmt.Printf("  Mail:     %s\n", enabled(cfg.CreateSES))
	if cfg.CreateSES {
		fmt.Printf("  MAIL FROM: %s\n", cfg.MailFromDomain())
	}
	fmt.Printf("  DNS:      %s\n", enabled(cfg.UseDNSProvider))
	fmt.Printf("  Repo:     %s\n", enabled(cfg.CreateSourceRepo))
	fmt.Printf("  Scaffold: %s\n", enabled(cfg.ScaffoldProject))
	fmt.Println()

	fmt.Println("Next steps:")
	fmt.Printf("  1. Review %s\n", outputPath)
	fmt.Println("  2. Run: sitegen doctor -c " + outputPath)
	fmt.Println("  3. Run: sitegen create -c " + outputPath)
	fmt.Println()
}

func enabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
