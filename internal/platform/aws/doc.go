// Package aws provides the IAM, SES and S3 adapters used to provision a site.
//
// The adapters are thin wrappers over aws-sdk-go-v2. Each create call returns
// the identifiers later steps and the manifest need; delete calls treat a
// missing resource as already deleted so that partially provisioned sites can
// be torn down. The SDK retryer is disabled: a failed call fails the run.
package aws
