package provisioning

import (
	"context"
	"io"

	"github.com/imamik/sitegen/internal/config"
	"github.com/imamik/sitegen/internal/manifest"
	"github.com/imamik/sitegen/internal/platform/aws"
	"github.com/imamik/sitegen/internal/platform/cloudflare"
	"github.com/imamik/sitegen/internal/platform/github"
	"github.com/imamik/sitegen/internal/policy"
	"github.com/imamik/sitegen/internal/scaffold"
)

// Scaffolder creates the local working copy of a site.
// Implemented by internal/scaffold.Scaffolder.
type Scaffolder interface {
	Scaffold(ctx context.Context, opts scaffold.Options) error
}

// Clients bundles the provider adapters. Clients for disabled features may be nil.
type Clients struct {
	AWS        aws.CloudManager
	DNS        cloudflare.ZoneManager
	Source     github.RepositoryCreator
	Scaffolder Scaffolder
}

// Context wraps all dependencies and state needed by a saga step.
type Context struct {
	context.Context
	Clients

	// Config is the immutable run configuration. Teardown runs with the zero value.
	Config   config.Config
	Env      config.Environment
	Manifest *manifest.Manifest
	Renderer *policy.Renderer
	Observer Observer
}

// NewContext creates a new provisioning context with a fresh manifest.
func NewContext(ctx context.Context, cfg config.Config, env config.Environment, clients Clients) *Context {
	return &Context{
		Context:  ctx,
		Clients:  clients,
		Config:   cfg,
		Env:      env,
		Manifest: newManifest(cfg),
		Renderer: policy.NewRenderer(),
		Observer: NewConsoleObserver(io.Discard, 0),
	}
}

func newManifest(cfg config.Config) *manifest.Manifest {
	m := manifest.New(cfg.Project, cfg.Domain)
	m.Region = cfg.Region
	return m
}

// policyVars returns the placeholder values of this run's documents.
func (c *Context) policyVars() policy.Vars {
	return policy.Vars{
		Project:   c.Config.Project,
		Domain:    c.Config.Domain,
		EmailName: c.Config.MailSendName,
	}
}

// render renders doc against this run's values.
func (c *Context) render(doc policy.Document) (string, error) {
	text, err := c.Renderer.Render(doc, c.policyVars())
	if err != nil {
		return "", &TemplateError{Document: doc, Err: err}
	}
	return text, nil
}
