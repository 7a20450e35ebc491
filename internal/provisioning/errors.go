package provisioning

import (
	"errors"
	"fmt"

	"github.com/imamik/sitegen/internal/policy"
	"github.com/imamik/sitegen/internal/scaffold"
)

// Providers named in ProviderError.
const (
	ProviderIAM        = "aws-iam"
	ProviderSES        = "aws-ses"
	ProviderS3         = "aws-s3"
	ProviderCloudflare = "cloudflare"
	ProviderGitHub     = "github"
)

// ErrBucketExists is returned when the site bucket already exists before
// the run creates it.
var ErrBucketExists = errors.New("bucket already exists")

// ProviderError reports a failed call to a remote provider.
type ProviderError struct {
	Provider  string
	Operation string
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Operation, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ScaffoldError reports a local command of the scaffold that failed.
type ScaffoldError struct {
	Command string
	Err     error
}

func (e *ScaffoldError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("scaffold: %v", e.Err)
	}
	return fmt.Sprintf("scaffold %q: %v", e.Command, e.Err)
}

func (e *ScaffoldError) Unwrap() error { return e.Err }

// PersistenceError reports a manifest that could not be read or written.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// TemplateError reports a policy document that failed strict rendering.
type TemplateError struct {
	Document policy.Document
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("policy %s: %v", e.Document, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

func providerError(provider, operation string, err error) error {
	return &ProviderError{Provider: provider, Operation: operation, Err: err}
}

func scaffoldError(err error) error {
	var cmdErr *scaffold.CommandError
	if errors.As(err, &cmdErr) {
		return &ScaffoldError{Command: cmdErr.Command, Err: err}
	}
	return &ScaffoldError{Err: err}
}
