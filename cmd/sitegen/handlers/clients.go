// Package handlers implements the business logic behind the CLI commands.
//
// Each handler loads configuration, builds provider clients through
// package-level factory variables, and delegates to the provisioning
// packages. Tests replace the factory variables with fakes.
package handlers

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/sitegen/internal/config"
	"github.com/imamik/sitegen/internal/manifest"
	"github.com/imamik/sitegen/internal/metrics"
	"github.com/imamik/sitegen/internal/platform/aws"
	"github.com/imamik/sitegen/internal/platform/cloudflare"
	"github.com/imamik/sitegen/internal/platform/github"
	"github.com/imamik/sitegen/internal/provisioning"
	"github.com/imamik/sitegen/internal/provisioning/destroy"
	"github.com/imamik/sitegen/internal/scaffold"
)

// Provisioner runs a provisioning saga.
type Provisioner interface {
	Run(ctx context.Context, cfg config.Config) (*manifest.Manifest, error)
	ManifestPath(project string) string
}

// Destroyer runs a teardown saga.
type Destroyer interface {
	Run(ctx context.Context, m *manifest.Manifest) error
}

// Factory function variables - can be replaced in tests.
var (
	// newAWSClient creates the AWS adapter for region.
	newAWSClient = func(ctx context.Context, region, profile string) (aws.CloudManager, error) {
		client, err := aws.NewClient(ctx, aws.WithRegion(region), aws.WithProfile(profile))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	// newDNSClient creates the Cloudflare adapter.
	newDNSClient = func(apiToken, accountID string) cloudflare.ZoneManager {
		return cloudflare.NewClient(apiToken, accountID)
	}

	// newSourceClient creates the GitHub adapter.
	newSourceClient = func(ctx context.Context, token string) github.RepositoryCreator {
		return github.NewClient(ctx, token)
	}

	// newScaffolder creates the local scaffolder.
	newScaffolder = func(log scaffold.Logger) provisioning.Scaffolder {
		return scaffold.New(scaffold.ExecRunner{}, log)
	}

	// newProvisioner creates the provisioning saga runner.
	newProvisioner = func(clients provisioning.Clients, env config.Environment, store *manifest.FileStore, opts ...provisioning.Option) Provisioner {
		return provisioning.NewProvisioner(clients, env, store, opts...)
	}

	// newDestroyer creates the teardown saga runner.
	newDestroyer = func(clients provisioning.Clients, opts destroy.Options, observer provisioning.Observer, recorder *metrics.Recorder) Destroyer {
		return destroy.NewProvisioner(clients, opts).WithObserver(observer).WithMetrics(recorder)
	}

	// loadEnvironment reads credentials and machine-local settings.
	loadEnvironment = config.LoadEnvironment

	// isInteractiveTTY reports whether stdin is a terminal.
	isInteractiveTTY = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}
)

// buildClients creates the adapters the enabled features need. Clients for
// disabled features stay nil.
func buildClients(ctx context.Context, cfg config.Config, env config.Environment, log scaffold.Logger) (provisioning.Clients, error) {
	awsClient, err := newAWSClient(ctx, cfg.Region, env.AWSProfile)
	if err != nil {
		return provisioning.Clients{}, err
	}

	clients := provisioning.Clients{AWS: awsClient}
	if cfg.UseDNSProvider {
		clients.DNS = newDNSClient(env.CloudflareAPIToken, env.CloudflareAccountID)
	}
	if cfg.CreateSourceRepo {
		clients.Source = newSourceClient(ctx, env.GitHubToken)
	}
	if cfg.ScaffoldProject {
		clients.Scaffolder = newScaffolder(log)
	}
	return clients, nil
}

// newObserver creates the console observer at the environment's log level.
func newObserver(env config.Environment) provisioning.Observer {
	return provisioning.NewConsoleObserver(os.Stderr, provisioning.VerbosityFor(env.LogLevel))
}
