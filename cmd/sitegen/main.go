// Package main is the entry point for the sitegen CLI.
//
// sitegen provisions a static website on AWS: an S3 bucket serving the site,
// an IAM deploy user, optional SES mail and Lambda role, optional Cloudflare
// DNS, an optional GitHub repository and a locally scaffolded project. Every
// created resource is recorded in a JSON manifest that "sitegen destroy"
// reads to tear the site down again.
//
// Commands: init, create, destroy, doctor, policy, version.
//
// For detailed usage information, run:
//
//	sitegen --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/sitegen/cmd/sitegen/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	commands.SetVersionInfo(version, commit, date)
	err := commands.Root().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
