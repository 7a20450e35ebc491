package testing

import (
	"github.com/imamik/sitegen/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with every optional feature off.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{Project: "test-site"}.WithDefaults(),
	}
}

// WithProject sets the project name.
func (b *ConfigBuilder) WithProject(project string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Project = project
	return newBuilder
}

// WithDomain sets the parent domain.
func (b *ConfigBuilder) WithDomain(domain string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Domain = domain
	return newBuilder
}

// WithRegion sets the AWS region.
func (b *ConfigBuilder) WithRegion(region string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Region = region
	return newBuilder
}

// WithOutputDir sets where the manifest is written.
func (b *ConfigBuilder) WithOutputDir(dir string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.OutputDir = dir
	return newBuilder
}

// WithLambda enables the Lambda role.
func (b *ConfigBuilder) WithLambda() *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.CreateLambda = true
	return newBuilder
}

// WithSES enables mail with the given MAIL FROM prefix.
func (b *ConfigBuilder) WithSES(mailFromPrefix string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.CreateSES = true
	newBuilder.cfg.MailFromPrefix = mailFromPrefix
	return newBuilder
}

// WithDNS enables the DNS provider.
func (b *ConfigBuilder) WithDNS() *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.UseDNSProvider = true
	return newBuilder
}

// WithSourceRepo enables source repository creation.
func (b *ConfigBuilder) WithSourceRepo() *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.CreateSourceRepo = true
	return newBuilder
}

// WithScaffold enables the local scaffold.
func (b *ConfigBuilder) WithScaffold() *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.ScaffoldProject = true
	return newBuilder
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() config.Config {
	return b.cfg
}

// clone copies the builder. Config holds only value fields.
func (b *ConfigBuilder) clone() *ConfigBuilder {
	return &ConfigBuilder{cfg: b.cfg}
}

// MinimalConfig returns a config with every optional feature off.
func MinimalConfig() config.Config {
	return NewConfigBuilder().Build()
}

// FullConfig returns a config with every optional feature on.
func FullConfig() config.Config {
	return NewConfigBuilder().
		WithLambda().
		WithSES("mail").
		WithDNS().
		WithSourceRepo().
		WithScaffold().
		Build()
}

// FullEnvironment returns an environment satisfying FullConfig.
func FullEnvironment(projectsDir string) config.Environment {
	return config.Environment{
		CloudflareAPIToken:  "cf-token",
		CloudflareAccountID: "cf-account",
		GitHubToken:         "gh-token",
		TemplateRepoURL:     "https://example.com/template.git",
		ProjectsDir:         projectsDir,
		InstallCommand:      []string{"npm", "install"},
		LogLevel:            "info",
	}
}
