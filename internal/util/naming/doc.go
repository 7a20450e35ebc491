// Package naming provides consistent naming functions for site resources.
//
// Every resource name is derived from the project and domain so that a
// manifest-less operator can still reconstruct identifiers: IAM principals
// follow {project}-{role}, site-scoped resources use {project}.{domain}.
package naming
