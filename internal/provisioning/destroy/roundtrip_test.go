package destroy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/sitegen/internal/config"
	"github.com/imamik/sitegen/internal/manifest"
	"github.com/imamik/sitegen/internal/provisioning"
	testutil "github.com/imamik/sitegen/internal/testing"
)

// inverseOf maps each creating call to the call that undoes it. Calls not
// listed create nothing teardown removes.
var inverseOf = map[string]string{
	"CreateUser":           "DeleteUser",
	"CreateAccessKey":      "DeleteAccessKey",
	"CreatePolicy":         "DeletePolicy",
	"AttachUserPolicy":     "DetachUserPolicy",
	"CreateRole":           "DeleteRole",
	"AttachRolePolicy":     "DetachRolePolicy",
	"VerifyDomainIdentity": "DeleteIdentity",
	"CreateBucket":         "DeleteBucket",
}

// provision runs a create against cloud and returns the manifest it persisted.
func provision(t *testing.T, cloud *testutil.FakeCloud, cfg config.Config) (*manifest.Manifest, error) {
	t.Helper()
	store := manifest.NewFileStore(t.TempDir())
	clients := provisioning.Clients{
		AWS:        cloud,
		DNS:        cloud,
		Source:     cloud,
		Scaffolder: testutil.NewMockScaffolder().WithSuccess(),
	}
	p := provisioning.NewProvisioner(clients, testutil.FullEnvironment(t.TempDir()), store)

	_, runErr := p.Run(testutil.TestContext(t), cfg)
	saved, err := manifest.Load(store.Path(cfg.Project))
	require.NoError(t, err)
	return saved, runErr
}

// expectedTeardown returns the inverse of every successful creating call, last first.
func expectedTeardown(calls []testutil.Call) []string {
	var want []string
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Failed {
			continue
		}
		if inverse, ok := inverseOf[calls[i].Op]; ok {
			want = append(want, inverse)
		}
	}
	return want
}

func roundTripConfigs() map[string]config.Config {
	builder := testutil.NewConfigBuilder().WithProject("acme")
	return map[string]config.Config{
		"minimal":        builder.Build(),
		"lambda only":    builder.WithLambda().Build(),
		"ses only":       builder.WithSES("mail").Build(),
		"lambda and ses": builder.WithLambda().WithSES("mail").Build(),
		"everything":     builder.WithLambda().WithSES("mail").WithDNS().WithSourceRepo().WithScaffold().Build(),
	}
}

// Whichever call a create fails on, teardown of the persisted manifest
// undoes exactly the calls that succeeded, in reverse.
func TestTeardownAfterFailureAtEachCall(t *testing.T) {
	for name, cfg := range roundTripConfigs() {
		t.Run(name, func(t *testing.T) {
			baseline := testutil.NewFakeCloud()
			_, err := provision(t, baseline, cfg)
			require.NoError(t, err)
			total := len(baseline.Calls())
			require.NotZero(t, total)

			for n := 1; n <= total; n++ {
				t.Run(fmt.Sprintf("call %d %s", n, baseline.Calls()[n-1].Op), func(t *testing.T) {
					cloud := testutil.NewFakeCloud().FailAt(n, errors.New("injected"))
					m, err := provision(t, cloud, cfg)
					require.Error(t, err)
					calls := cloud.Calls()
					require.Len(t, calls, n, "create stops at the failed call")

					teardown := testutil.NewFakeCloud()
					require.NoError(t, newProvisioner(teardown, Options{}).Run(testutil.TestContext(t), m))
					assert.Equal(t, expectedTeardown(calls), nilIfEmpty(teardown.Ops()))
				})
			}
		})
	}
}

func nilIfEmpty(ops []string) []string {
	if len(ops) == 0 {
		return nil
	}
	return ops
}

func TestTeardownAfterCompleteRun(t *testing.T) {
	configs := roundTripConfigs()
	tests := []struct {
		name string
		want []string
	}{
		{
			name: "minimal",
			want: []string{
				"DeleteBucket acme.com",
				"DetachUserPolicy acme-deploy " + deployPolicyARN,
				"DeletePolicy " + deployPolicyARN,
				"DeleteAccessKey acme-deploy AKIATESTKEY",
				"DeleteUser acme-deploy",
			},
		},
		{
			name: "lambda only",
			want: []string{
				"DeleteBucket acme.com",
				"DetachRolePolicy acme-lambda " + provisioning.LambdaExecutePolicyARN,
				"DeleteRole acme-lambda",
				"DetachUserPolicy acme-deploy " + deployPolicyARN,
				"DeletePolicy " + deployPolicyARN,
				"DeleteAccessKey acme-deploy AKIATESTKEY",
				"DeleteUser acme-deploy",
			},
		},
		{
			name: "ses only",
			want: []string{
				"DeleteBucket acme.com",
				"DeleteIdentity acme.com",
				"DetachUserPolicy acme-deploy " + deployPolicyARN,
				"DeletePolicy " + deployPolicyARN,
				"DeleteAccessKey acme-deploy AKIATESTKEY",
				"DeleteUser acme-deploy",
			},
		},
		{
			name: "everything",
			want: []string{
				"DeleteBucket acme.com",
				"DeleteIdentity acme.com",
				"DetachRolePolicy acme-lambda " + sendPolicyARN,
				"DeletePolicy " + sendPolicyARN,
				"DetachRolePolicy acme-lambda " + provisioning.LambdaExecutePolicyARN,
				"DeleteRole acme-lambda",
				"DetachUserPolicy acme-deploy " + deployPolicyARN,
				"DeletePolicy " + deployPolicyARN,
				"DeleteAccessKey acme-deploy AKIATESTKEY",
				"DeleteUser acme-deploy",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, ok := configs[tt.name]
			require.True(t, ok)

			m, err := provision(t, testutil.NewFakeCloud(), cfg)
			require.NoError(t, err)

			teardown := testutil.NewFakeCloud()
			require.NoError(t, newProvisioner(teardown, Options{}).Run(testutil.TestContext(t), m))

			var got []string
			for _, c := range teardown.Calls() {
				got = append(got, c.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

// A bucket the create never made is left alone, so a failing delete of it
// cannot stop the IAM cleanup.
func TestTeardownSkipsBucketNotCreated(t *testing.T) {
	tests := []struct {
		name    string
		arrange func(*testutil.FakeCloud)
	}{
		{
			name:    "create bucket failed",
			arrange: func(c *testutil.FakeCloud) { c.FailOn("CreateBucket", errors.New("BucketAlreadyExists")) },
		},
		{
			name:    "bucket already existed",
			arrange: func(c *testutil.FakeCloud) { c.Buckets["acme.com"] = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cloud := testutil.NewFakeCloud()
			tt.arrange(cloud)
			m, err := provision(t, cloud, testutil.NewConfigBuilder().WithProject("acme").Build())
			require.Error(t, err)
			assert.False(t, m.HasBucket())

			teardown := testutil.NewFakeCloud().FailOn("DeleteBucket", errors.New("AccessDenied"))
			require.NoError(t, newProvisioner(teardown, Options{}).Run(testutil.TestContext(t), m))

			assert.Empty(t, teardown.CallsTo("DeleteBucket"))
			assert.Equal(t, []string{
				"DetachUserPolicy",
				"DeletePolicy",
				"DeleteAccessKey",
				"DeleteUser",
			}, teardown.Ops())
		})
	}
}
