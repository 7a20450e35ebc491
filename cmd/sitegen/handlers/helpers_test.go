package handlers

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/imamik/sitegen/internal/config"
	"github.com/imamik/sitegen/internal/platform/aws"
	"github.com/imamik/sitegen/internal/platform/cloudflare"
	"github.com/imamik/sitegen/internal/platform/github"
	"github.com/imamik/sitegen/internal/provisioning"
	"github.com/imamik/sitegen/internal/scaffold"
	testutil "github.com/imamik/sitegen/internal/testing"
	"github.com/imamik/sitegen/internal/util/prerequisites"
)

// saveAndRestoreFactories saves the factory variables and restores them when
// the test ends.
func saveAndRestoreFactories(t *testing.T) {
	origAWS := newAWSClient
	origDNS := newDNSClient
	origSource := newSourceClient
	origScaffolder := newScaffolder
	origProvisioner := newProvisioner
	origDestroyer := newDestroyer
	origEnv := loadEnvironment
	origTTY := isInteractiveTTY
	origFileExists := fileExists
	origLoadConfig := loadConfigFile
	origWizard := runWizard
	origTools := checkScaffoldTools
	origLoadManifest := loadManifest
	origSaveConfig := saveConfig

	t.Cleanup(func() {
		newAWSClient = origAWS
		newDNSClient = origDNS
		newSourceClient = origSource
		newScaffolder = origScaffolder
		newProvisioner = origProvisioner
		newDestroyer = origDestroyer
		loadEnvironment = origEnv
		isInteractiveTTY = origTTY
		fileExists = origFileExists
		loadConfigFile = origLoadConfig
		runWizard = origWizard
		checkScaffoldTools = origTools
		loadManifest = origLoadManifest
		saveConfig = origSaveConfig
	})
}

// useFakeCloud routes every client factory to cloud and returns the region
// each AWS client was created for.
func useFakeCloud(t *testing.T, cloud *testutil.FakeCloud, scaffolder provisioning.Scaffolder) *[]string {
	t.Helper()
	saveAndRestoreFactories(t)

	var regions []string
	newAWSClient = func(_ context.Context, region, _ string) (aws.CloudManager, error) {
		regions = append(regions, region)
		cloud.Region = region
		return cloud, nil
	}
	newDNSClient = func(_, _ string) cloudflare.ZoneManager { return cloud }
	newSourceClient = func(_ context.Context, _ string) github.RepositoryCreator { return cloud }
	newScaffolder = func(_ scaffold.Logger) provisioning.Scaffolder { return scaffolder }
	loadEnvironment = func() config.Environment { return testutil.FullEnvironment(t.TempDir()) }
	isInteractiveTTY = func() bool { return false }
	fileExists = func(string) bool { return false }
	checkScaffoldTools = func(config.Environment) *prerequisites.CheckResults {
		return &prerequisites.CheckResults{}
	}
	return &regions
}

func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}
