// Package provisioning creates the cloud resources of a site as a saga.
//
// # Saga
//
// The catalogue returned by [Steps] is the single source of truth for both
// directions. [Saga.Forward] runs the enabled steps in list order and persists
// the manifest after each one; [Saga.Compensate] walks the same list backwards
// and runs the inverse of every step whose output is recorded in a manifest.
//
// # Core Types
//
// Context carries the immutable configuration, the manifest under
// construction, the provider clients and the observer.
// Provisioner drives a full forward run.
//
// Teardown lives in the destroy subpackage.
package provisioning
