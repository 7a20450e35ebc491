package config

import "github.com/imamik/sitegen/internal/util/naming"

// Defaults applied to empty fields.
const (
	DefaultDomain        = "com"
	DefaultIndexDocument = "index"
	DefaultErrorDocument = "error"
	DefaultMailSendName  = "test"
	DefaultRegion        = "us-east-1"
	DefaultOutputDir     = "."
)

// Config describes one site to provision.
type Config struct {
	Project        string `yaml:"project" validate:"required,sitename"`
	Domain         string `yaml:"domain" validate:"required,hostname_rfc1123"`
	IndexDocument  string `yaml:"index_document" validate:"required"`
	ErrorDocument  string `yaml:"error_document" validate:"required"`
	MailFromPrefix string `yaml:"mail_from_prefix,omitempty" validate:"required_if=CreateSES true"`
	MailSendName   string `yaml:"mail_send_name,omitempty" validate:"required"`
	Region         string `yaml:"region" validate:"required"`
	OutputDir      string `yaml:"output_dir,omitempty" validate:"required"`

	CreateLambda               bool `yaml:"create_lambda"`
	CreateSES                  bool `yaml:"create_ses"`
	UseDNSProvider             bool `yaml:"use_dns_provider"`
	UpdateRegistrarNameservers bool `yaml:"update_registrar_nameservers"`
	CreateSourceRepo           bool `yaml:"create_source_repo"`
	ScaffoldProject            bool `yaml:"scaffold_project"`
}

// WithDefaults returns a copy of c with empty fields defaulted.
func (c Config) WithDefaults() Config {
	if c.Domain == "" {
		c.Domain = DefaultDomain
	}
	if c.IndexDocument == "" {
		c.IndexDocument = DefaultIndexDocument
	}
	if c.ErrorDocument == "" {
		c.ErrorDocument = DefaultErrorDocument
	}
	if c.MailSendName == "" {
		c.MailSendName = DefaultMailSendName
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	return c
}

// SiteDomain returns <project>.<domain>.
func (c Config) SiteDomain() string {
	return naming.SiteDomain(c.Project, c.Domain)
}

// MailFromDomain returns <prefix>.<project>.<domain>.
func (c Config) MailFromDomain() string {
	return naming.MailFromDomain(c.MailFromPrefix, c.Project, c.Domain)
}
