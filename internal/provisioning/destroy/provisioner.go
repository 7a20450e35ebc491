package destroy

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/imamik/sitegen/internal/manifest"
	"github.com/imamik/sitegen/internal/metrics"
	"github.com/imamik/sitegen/internal/provisioning"
)

// Options tune a teardown.
type Options struct {
	// PurgeMailIdentity deletes the SES identity even when the manifest does
	// not record it.
	PurgeMailIdentity bool
}

// Provisioner handles site destruction.
type Provisioner struct {
	clients  provisioning.Clients
	opts     Options
	observer provisioning.Observer
	metrics  *metrics.Recorder
	steps    []provisioning.Step
}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner(clients provisioning.Clients, opts Options) *Provisioner {
	return &Provisioner{
		clients: clients,
		opts:    opts,
		steps:   provisioning.Steps(),
	}
}

// WithObserver sets the observer events are sent to.
func (p *Provisioner) WithObserver(o provisioning.Observer) *Provisioner {
	p.observer = o
	return p
}

// WithMetrics records step and run observations.
func (p *Provisioner) WithMetrics(r *metrics.Recorder) *Provisioner {
	p.metrics = r
	return p
}

// Run deletes every resource m records and stops at the first failure.
// m is not modified.
func (p *Provisioner) Run(ctx context.Context, m *manifest.Manifest) error {
	pctx := &provisioning.Context{
		Context:  ctx,
		Clients:  p.clients,
		Manifest: m,
		Observer: p.observer,
	}
	if pctx.Observer == nil {
		pctx.Observer = provisioning.NewConsoleObserver(io.Discard, 0)
	}
	pctx.Observer = pctx.Observer.WithFields(map[string]string{
		"run_id":  uuid.NewString(),
		"project": m.Project,
	})

	pctx.Observer.Printf("[Destroy] Starting teardown of %s", m.SiteDomain())

	saga := &provisioning.Saga{
		Steps:   p.catalogue(),
		Metrics: p.metrics,
	}
	if err := saga.Compensate(pctx, m); err != nil {
		return fmt.Errorf("failed to destroy %s: %w", m.SiteDomain(), err)
	}

	pctx.Observer.Printf("[Destroy] %s destroyed; DNS records and the source repository were left in place", m.SiteDomain())
	return nil
}

// catalogue returns the steps with the mail identity guard lifted when the
// identity is purged.
func (p *Provisioner) catalogue() []provisioning.Step {
	steps := make([]provisioning.Step, len(p.steps))
	copy(steps, p.steps)
	if !p.opts.PurgeMailIdentity {
		return steps
	}
	for i := range steps {
		if steps[i].Name == provisioning.StepMailIdentity {
			steps[i].Applies = nil
		}
	}
	return steps
}
