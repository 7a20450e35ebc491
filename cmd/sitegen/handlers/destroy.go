package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/imamik/sitegen/internal/config"
	"github.com/imamik/sitegen/internal/manifest"
	"github.com/imamik/sitegen/internal/metrics"
	"github.com/imamik/sitegen/internal/provisioning"
	"github.com/imamik/sitegen/internal/provisioning/destroy"
)

// loadManifest reads a manifest - can be replaced in tests.
var loadManifest = manifest.Load

// DestroyOptions are the inputs of the destroy command.
type DestroyOptions struct {
	ManifestPath      string
	// Region overrides the region recorded in the manifest.
	Region            string
	PurgeMailIdentity bool
	MetricsFile       string
}

// Destroy handles the destroy command.
//
// It loads the manifest written by create and deletes the AWS resources it
// records, newest first. DNS records, the DNS zone and the repository are
// not removed.
func Destroy(ctx context.Context, opts DestroyOptions) error {
	path := opts.ManifestPath
	if path == "" {
		path = manifest.DefaultTeardownFile
	}

	m, err := loadManifest(path)
	if err != nil {
		return &provisioning.PersistenceError{Path: path, Err: err}
	}

	log.Printf("Destroying site: %s", m.SiteDomain())

	env := loadEnvironment()
	awsClient, err := newAWSClient(ctx, destroyRegion(opts, m), env.AWSProfile)
	if err != nil {
		return err
	}

	var recorder *metrics.Recorder
	if opts.MetricsFile != "" {
		recorder = metrics.NewRecorder()
	}

	destroyer := newDestroyer(
		provisioning.Clients{AWS: awsClient},
		destroy.Options{PurgeMailIdentity: opts.PurgeMailIdentity},
		newObserver(env),
		recorder,
	)

	runErr := destroyer.Run(ctx, m)

	if err := recorder.WriteTextfile(opts.MetricsFile); err != nil {
		log.Printf("Warning: %v", err)
	}
	if runErr != nil {
		return fmt.Errorf("destroy failed: %w", runErr)
	}

	log.Printf("Site %s destroyed successfully", m.SiteDomain())
	if m.Cloudflare != nil || m.GitHub != nil {
		log.Printf("DNS records and the source repository were left in place")
	}
	return nil
}

// destroyRegion picks the --region override, then the region the manifest
// records. Manifests written before regions were recorded fall back to the
// default region.
func destroyRegion(opts DestroyOptions, m *manifest.Manifest) string {
	switch {
	case opts.Region != "":
		return opts.Region
	case m.Region != "":
		return m.Region
	default:
		return config.DefaultRegion
	}
}
