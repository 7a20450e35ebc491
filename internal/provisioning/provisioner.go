package provisioning

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/imamik/sitegen/internal/config"
	"github.com/imamik/sitegen/internal/manifest"
	"github.com/imamik/sitegen/internal/metrics"
)

// Provisioner creates every resource a site needs by running the step
// catalogue forwards.
type Provisioner struct {
	clients  Clients
	env      config.Environment
	store    *manifest.FileStore
	observer Observer
	metrics  *metrics.Recorder
	steps    []Step
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithObserver sets the observer events are sent to.
func WithObserver(o Observer) Option {
	return func(p *Provisioner) { p.observer = o }
}

// WithMetrics records step and run observations.
func WithMetrics(r *metrics.Recorder) Option {
	return func(p *Provisioner) { p.metrics = r }
}

// WithSteps replaces the step catalogue. Used by tests.
func WithSteps(steps []Step) Option {
	return func(p *Provisioner) { p.steps = steps }
}

// NewProvisioner creates a provisioner that persists manifests to store.
func NewProvisioner(clients Clients, env config.Environment, store *manifest.FileStore, opts ...Option) *Provisioner {
	p := &Provisioner{
		clients: clients,
		env:     env,
		store:   store,
		steps:   Steps(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run provisions the site described by cfg and returns its manifest. The
// manifest is returned on failure too, holding whatever was created.
// Configuration and environment errors are reported before any remote call.
func (p *Provisioner) Run(ctx context.Context, cfg config.Config) (*manifest.Manifest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := p.env.Check(cfg); err != nil {
		return nil, err
	}

	pctx := NewContext(ctx, cfg, p.env, p.clients)
	if p.observer != nil {
		pctx.Observer = p.observer
	}
	pctx.Observer = pctx.Observer.WithFields(map[string]string{
		"run_id":  uuid.NewString(),
		"project": cfg.Project,
	})

	for _, w := range cfg.Warnings() {
		pctx.Observer.Event(Event{
			Type:    EventValidationWarning,
			Message: w.Error(),
			Fields:  map[string]string{"field": w.Field},
		})
	}

	path := p.store.Path(cfg.Project)
	pctx.Observer.Printf("Provisioning %s (manifest %s)", cfg.SiteDomain(), path)

	saga := &Saga{
		Steps:   p.steps,
		Persist: p.persist,
		Metrics: p.metrics,
	}
	if err := saga.Forward(pctx); err != nil {
		return pctx.Manifest, err
	}

	if err := p.persist(pctx.Manifest); err != nil {
		return pctx.Manifest, fmt.Errorf("failed to save manifest: %w", err)
	}

	pctx.Observer.Printf("Provisioned %s", cfg.SiteDomain())
	return pctx.Manifest, nil
}

// ManifestPath returns where the manifest of project is written.
func (p *Provisioner) ManifestPath(project string) string {
	return p.store.Path(project)
}

func (p *Provisioner) persist(m *manifest.Manifest) error {
	if err := p.store.Save(m); err != nil {
		return &PersistenceError{Path: p.store.Path(m.Project), Err: err}
	}
	return nil
}
