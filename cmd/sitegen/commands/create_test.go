package commands

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/sitegen/internal/config"
)

func TestCreate(t *testing.T) {
	cmd := Create()

	require.NotNil(t, cmd)
	assert.Equal(t, "create", cmd.Use)
	assert.NotNil(t, cmd.RunE, "Create command should have RunE function")
	assert.Contains(t, cmd.Long, "sitegen destroy")
}

func TestCreate_Flags(t *testing.T) {
	cmd := Create()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"config", "c", ""},
		{"metrics-file", "", ""},
		{"project", "p", ""},
		{"domain", "d", config.DefaultDomain},
		{"region", "r", config.DefaultRegion},
		{"index-document", "", config.DefaultIndexDocument},
		{"error-document", "", config.DefaultErrorDocument},
		{"mail-from-prefix", "", ""},
		{"mail-send-name", "", config.DefaultMailSendName},
		{"output-dir", "o", config.DefaultOutputDir},
		{"lambda", "", "false"},
		{"ses", "", "false"},
		{"dns", "", "false"},
		{"repo", "", "false"},
		{"scaffold", "", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag, "%s flag should exist", tt.name)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestCreateFlags_Apply(t *testing.T) {
	tests := []struct {
		name string
		args []string
		base config.Config
		want config.Config
	}{
		{
			name: "no flags keeps file values",
			base: config.Config{Project: "blog", Domain: "example.org", CreateSES: true},
			want: config.Config{Project: "blog", Domain: "example.org", CreateSES: true},
		},
		{
			name: "flags override file values",
			args: []string{"-p", "shop", "--region", "eu-west-1", "--lambda"},
			base: config.Config{Project: "blog", Region: "us-east-1"},
			want: config.Config{Project: "shop", Region: "eu-west-1", CreateLambda: true},
		},
		{
			name: "explicit false disables a feature",
			args: []string{"--ses=false", "--mail-from-prefix", "mail"},
			base: config.Config{Project: "blog", CreateSES: true},
			want: config.Config{Project: "blog", MailFromPrefix: "mail"},
		},
		{
			name: "all strings",
			args: []string{
				"-d", "example.net", "--index-document", "home", "--error-document", "oops",
				"--mail-send-name", "hello", "-o", "out", "--dns", "--repo", "--scaffold",
			},
			want: config.Config{
				Domain:           "example.net",
				IndexDocument:    "home",
				ErrorDocument:    "oops",
				MailSendName:     "hello",
				OutputDir:        "out",
				UseDNSProvider:   true,
				CreateSourceRepo: true,
				ScaffoldProject:  true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f createFlags
			flags := pflag.NewFlagSet("create", pflag.ContinueOnError)
			f.bind(flags)
			require.NoError(t, flags.Parse(tt.args))

			got := tt.base
			f.apply(flags, &got)
			assert.Equal(t, tt.want, got)
		})
	}
}
