// Package github creates the private source repository of a site.
package github
