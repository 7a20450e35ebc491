package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Severity levels for validation findings.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError is a single configuration finding.
type ValidationError struct {
	Field    string // Configuration field or environment variable
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == SeverityError
}

// ValidationErrors is the error returned when validation fails.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return fmt.Sprintf("configuration validation failed:\n  %s", strings.Join(msgs, "\n  "))
}

// siteNamePattern is a lowercase DNS label: it becomes part of a bucket name
// and of IAM principal names.
var siteNamePattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("sitename", func(fl validator.FieldLevel) bool {
		return siteNamePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks the configuration and returns ValidationErrors listing every
// error found. Warnings never cause a failure; see Warnings.
func (c Config) Validate() error {
	var errs ValidationErrors

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("failed to validate config: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{
				Field:    yamlName(fe.Field()),
				Message:  describe(fe),
				Severity: SeverityError,
			})
		}
	}

	if c.MailFromPrefix != "" && !siteNamePattern.MatchString(c.MailFromPrefix) {
		errs = append(errs, ValidationError{
			Field:    "mail_from_prefix",
			Message:  "must be a lowercase DNS label",
			Severity: SeverityError,
		})
	}

	if len(c.SiteDomain()) > 63 {
		errs = append(errs, ValidationError{
			Field:    "project",
			Message:  fmt.Sprintf("bucket name %s exceeds 63 characters", c.SiteDomain()),
			Severity: SeverityError,
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Warnings returns non-fatal findings.
func (c Config) Warnings() []ValidationError {
	var warns []ValidationError
	if c.UpdateRegistrarNameservers {
		warns = append(warns, ValidationError{
			Field:    "update_registrar_nameservers",
			Message:  "registrar nameserver updates are not implemented; the option is ignored",
			Severity: SeverityWarning,
		})
	}
	if c.ScaffoldProject && !c.CreateSourceRepo {
		warns = append(warns, ValidationError{
			Field:    "scaffold_project",
			Message:  "no source repository will be created; the scaffold is not pushed anywhere",
			Severity: SeverityWarning,
		})
	}
	return warns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required when create_ses is enabled"
	case "sitename":
		return "must be a lowercase DNS label (letters, digits, hyphens)"
	case "hostname_rfc1123":
		return "must be a valid domain"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

var yamlNames = map[string]string{
	"Project":        "project",
	"Domain":         "domain",
	"IndexDocument":  "index_document",
	"ErrorDocument":  "error_document",
	"MailFromPrefix": "mail_from_prefix",
	"MailSendName":   "mail_send_name",
	"Region":         "region",
	"OutputDir":      "output_dir",
}

func yamlName(field string) string {
	if name, ok := yamlNames[field]; ok {
		return name
	}
	return field
}
