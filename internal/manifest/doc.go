// Package manifest records every resource identifier produced while
// provisioning a site and persists it as indented JSON.
//
// A manifest is built by the provisioning saga one step at a time and saved
// after each step, so a failed run still leaves a file that destroy can
// consume. Optional blocks are pointers: a nil block means the feature was not
// provisioned.
package manifest
