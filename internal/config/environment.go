package config

import (
	"os"
	"strings"
)

// Environment holds machine-local settings and credentials read from the
// process environment. AWS credentials are resolved by the SDK's default
// chain and are not duplicated here.
type Environment struct {
	AWSProfile          string
	CloudflareAPIToken  string
	CloudflareAccountID string
	GitHubToken         string
	TemplateRepoURL     string
	ProjectsDir         string
	InstallCommand      []string
	Editor              string
	LogLevel            string
}

// LoadEnvironment reads the environment.
//
// Environment Variables:
//   - AWS_PROFILE (optional, consumed by the AWS SDK)
//   - CLOUDFLARE_API_TOKEN, CLOUDFLARE_ACCOUNT_ID (use_dns_provider)
//   - GITHUB_TOKEN (create_source_repo)
//   - SITEGEN_TEMPLATE_REPO, SITEGEN_PROJECTS_DIR (scaffold_project)
//   - SITEGEN_INSTALL_CMD (default: npm install)
//   - SITEGEN_EDITOR, falling back to EDITOR (optional)
//   - SITEGEN_LOG (default: info)
func LoadEnvironment() Environment {
	editor := strings.TrimSpace(os.Getenv("SITEGEN_EDITOR"))
	if editor == "" {
		editor = strings.TrimSpace(os.Getenv("EDITOR"))
	}
	return Environment{
		AWSProfile:          os.Getenv("AWS_PROFILE"),
		CloudflareAPIToken:  os.Getenv("CLOUDFLARE_API_TOKEN"),
		CloudflareAccountID: os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		GitHubToken:         os.Getenv("GITHUB_TOKEN"),
		TemplateRepoURL:     os.Getenv("SITEGEN_TEMPLATE_REPO"),
		ProjectsDir:         os.Getenv("SITEGEN_PROJECTS_DIR"),
		InstallCommand:      parseCommand("SITEGEN_INSTALL_CMD", []string{"npm", "install"}),
		Editor:              editor,
		LogLevel:            parseString("SITEGEN_LOG", "info"),
	}
}

// Check reports environment variables that the enabled features need.
func (e Environment) Check(cfg Config) error {
	var errs ValidationErrors
	require := func(enabled bool, value, name, feature string) {
		if enabled && value == "" {
			errs = append(errs, ValidationError{
				Field:    name,
				Message:  "must be set when " + feature + " is enabled",
				Severity: SeverityError,
			})
		}
	}

	require(cfg.UseDNSProvider, e.CloudflareAPIToken, "CLOUDFLARE_API_TOKEN", "use_dns_provider")
	require(cfg.UseDNSProvider, e.CloudflareAccountID, "CLOUDFLARE_ACCOUNT_ID", "use_dns_provider")
	require(cfg.CreateSourceRepo, e.GitHubToken, "GITHUB_TOKEN", "create_source_repo")
	require(cfg.ScaffoldProject, e.TemplateRepoURL, "SITEGEN_TEMPLATE_REPO", "scaffold_project")
	require(cfg.ScaffoldProject, e.ProjectsDir, "SITEGEN_PROJECTS_DIR", "scaffold_project")

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// parseString returns the variable's value or defaultVal when unset.
func parseString(envVar, defaultVal string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultVal
}

// parseCommand splits a command line on whitespace.
// If the variable is not set, the default value is returned.
func parseCommand(envVar string, defaultVal []string) []string {
	fields := strings.Fields(os.Getenv(envVar))
	if len(fields) == 0 {
		return defaultVal
	}
	return fields
}
