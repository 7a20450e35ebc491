// Package config defines the run configuration for provisioning a site.
//
// A [Config] is an immutable value: it is loaded from a YAML file, overlaid
// with command-line flags or wizard answers, defaulted, validated, and then
// passed by value into the provisioning and teardown entry points. Secrets and
// machine-local settings come from the process environment via
// [LoadEnvironment] and are never written to the config file.
package config
