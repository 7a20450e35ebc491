package handlers

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/sitegen/internal/config"
)

func TestInit(t *testing.T) {
	saveAndRestoreFactories(t)
	path := filepath.Join(t.TempDir(), "sitegen.yaml")

	runWizard = func(_ context.Context, seed config.Config) (config.Config, error) {
		seed.Project = "blog"
		seed.CreateSES = true
		seed.MailFromPrefix = "mail"
		return seed, nil
	}

	var err error
	output := captureOutput(func() {
		err = Init(context.Background(), path)
	})
	require.NoError(t, err)

	assert.Contains(t, output, "Configuration saved!")
	assert.Contains(t, output, "blog.com")
	assert.Contains(t, output, "mail.blog.com")
	assert.NotContains(t, output, "already exists")

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "blog", cfg.Project)
	assert.True(t, cfg.CreateSES)
}

func TestInit_ExistingFile(t *testing.T) {
	saveAndRestoreFactories(t)
	fileExists = func(string) bool { return true }
	runWizard = func(_ context.Context, seed config.Config) (config.Config, error) {
		seed.Project = "blog"
		return seed, nil
	}
	saveConfig = func(config.Config, string) error { return nil }

	output := captureOutput(func() {
		require.NoError(t, Init(context.Background(), "sitegen.yaml"))
	})
	assert.Contains(t, output, "sitegen.yaml already exists")
}

func TestInit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		wizard  error
		save    error
		wantErr string
	}{
		{"wizard canceled", errors.New("user aborted"), nil, "wizard canceled"},
		{"write fails", nil, errors.New("read-only"), "failed to write config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saveAndRestoreFactories(t)
			fileExists = func(string) bool { return false }
			runWizard = func(_ context.Context, seed config.Config) (config.Config, error) {
				return seed, tt.wizard
			}
			saveConfig = func(config.Config, string) error { return tt.save }

			var err error
			captureOutput(func() {
				err = Init(context.Background(), "sitegen.yaml")
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
