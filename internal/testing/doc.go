// Package testing provides test utilities, builders, and fakes for unit tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating site configurations
//   - FakeCloud: Recording fake for every provider adapter
//   - MockScaffolder: testify mock for the local scaffold
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithProject("acme").
//	    WithSES("mail").
//	    Build()
//
//	cloud := testing.NewFakeCloud()
//	cloud.DKIMTokens = 3
package testing
