package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/imamik/sitegen/internal/config"
	"github.com/imamik/sitegen/internal/manifest"
	"github.com/imamik/sitegen/internal/metrics"
	"github.com/imamik/sitegen/internal/provisioning"
	"github.com/imamik/sitegen/internal/util/prerequisites"
)

// Factory function variables for create - can be replaced in tests.
var (
	// loadConfigFile reads a YAML configuration file.
	loadConfigFile = config.LoadFile

	// runWizard asks for the configuration interactively.
	runWizard = config.RunWizard

	// checkScaffoldTools checks the local tools used by the scaffold.
	checkScaffoldTools = func(env config.Environment) *prerequisites.CheckResults {
		return prerequisites.Check(prerequisites.ScaffoldTools(env.InstallCommand, env.Editor))
	}
)

// CreateOptions are the inputs of the create command.
type CreateOptions struct {
	// ConfigPath is an explicit configuration file. Empty reads
	// sitegen.yaml when it exists.
	ConfigPath string
	// Override applies command-line flags on top of the file.
	Override func(*config.Config)
	// MetricsFile receives Prometheus text-format metrics when set.
	MetricsFile string
}

// Create handles the create command.
//
// It resolves the configuration (file, then flags, then the wizard when the
// project is still unknown and stdin is a terminal), runs the provisioning
// saga, and prints a summary. On failure the partial manifest stays on disk
// so that destroy can remove what was created.
func Create(ctx context.Context, opts CreateOptions) error {
	cfg, err := resolveConfig(ctx, opts)
	if err != nil {
		return err
	}

	env := loadEnvironment()
	if cfg.ScaffoldProject {
		if err := checkPrerequisites(env); err != nil {
			return err
		}
	}

	observer := newObserver(env)
	clients, err := buildClients(ctx, cfg, env, observer)
	if err != nil {
		return err
	}

	var recorder *metrics.Recorder
	if opts.MetricsFile != "" {
		recorder = metrics.NewRecorder()
	}

	p := newProvisioner(clients, env, manifest.NewFileStore(cfg.OutputDir),
		provisioning.WithObserver(observer),
		provisioning.WithMetrics(recorder),
	)
	path := p.ManifestPath(cfg.Project)

	m, runErr := p.Run(ctx, cfg)

	if err := recorder.WriteTextfile(opts.MetricsFile); err != nil {
		log.Printf("Warning: %v", err)
	}

	if runErr != nil {
		var verrs config.ValidationErrors
		if m != nil && !errors.As(runErr, &verrs) {
			fmt.Printf("\nPartial manifest written to %s\n", path)
			fmt.Printf("Remove what was created with: sitegen destroy --manifest %s\n\n", path)
		}
		return fmt.Errorf("create failed: %w", runErr)
	}

	fmt.Print(renderSiteSummary(path, m))
	return nil
}

// resolveConfig merges the configuration file, flag overrides and, when
// needed, the wizard.
func resolveConfig(ctx context.Context, opts CreateOptions) (config.Config, error) {
	var cfg config.Config

	if path := configPath(opts.ConfigPath); path != "" {
		loaded, err := loadConfigFile(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if opts.Override != nil {
		opts.Override(&cfg)
	}

	if cfg.Project == "" && isInteractiveTTY() {
		answered, err := runWizard(ctx, cfg.WithDefaults())
		if err != nil {
			return config.Config{}, fmt.Errorf("wizard canceled: %w", err)
		}
		cfg = answered
	}

	return cfg.WithDefaults(), nil
}

// configPath returns the explicit path, the default file when it exists, or "".
func configPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if fileExists(config.DefaultConfigFilename) {
		return config.DefaultConfigFilename
	}
	return ""
}

// checkPrerequisites verifies the tools the scaffold shells out to.
func checkPrerequisites(env config.Environment) error {
	log.Println("Checking prerequisites...")
	results := checkScaffoldTools(env)

	for _, r := range results.Results {
		if r.Found {
			log.Printf("  Found %s (%s)", r.Tool.Name, r.Path)
		}
	}

	if err := results.Error(); err != nil {
		return fmt.Errorf("prerequisites check failed: %w", err)
	}
	return nil
}
