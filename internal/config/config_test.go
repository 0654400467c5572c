package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerrors "github.com/boatyardx/bitnami-helm-repo/pkg/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "bitnami", cfg.Upstream.Name)
	assert.Equal(t, "https://charts.bitnami.com/bitnami", cfg.Upstream.URL)
	assert.Equal(t, 10, cfg.Sync.VersionsPerChart)
	assert.Equal(t, "origin", cfg.Publish.Remote)
	assert.Equal(t, "main", cfg.Publish.Branch)
	assert.Equal(t, "bitnami", cfg.Discovery.Org)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantErr     bool
		checkConfig func(t *testing.T, cfg *Config)
	}{
		{
			name: "full config",
			content: `
upstream:
  name: stable
  url: https://charts.helm.sh/stable
publish:
  base_url: https://example.github.io/charts
  work_dir: /srv/charts
sync:
  versions_per_chart: 3
daemon:
  interval: 1h
`,
			checkConfig: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "stable", cfg.Upstream.Name)
				assert.Equal(t, "https://charts.helm.sh/stable", cfg.Upstream.URL)
				assert.Equal(t, "https://example.github.io/charts", cfg.Publish.BaseURL)
				assert.Equal(t, "/srv/charts", cfg.Publish.WorkDir)
				assert.Equal(t, 3, cfg.Sync.VersionsPerChart)
				assert.Equal(t, time.Hour, cfg.Daemon.Interval)
				// Discovery org follows the upstream name when unset
				assert.Equal(t, "stable", cfg.Discovery.Org)
			},
		},
		{
			name:    "partial config gets defaults",
			content: "sync:\n  versions_per_chart: 5\n",
			checkConfig: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5, cfg.Sync.VersionsPerChart)
				assert.Equal(t, "bitnami", cfg.Upstream.Name)
				assert.Equal(t, DefaultDiscoveryURL, cfg.Discovery.URL)
			},
		},
		{
			name:    "invalid upstream url",
			content: "upstream:\n  url: not a url\n",
			wantErr: true,
		},
		{
			name:    "negative versions per chart",
			content: "sync:\n  versions_per_chart: -2\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			content: "upstream: [\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, customerrors.IsConfigError(err))
				return
			}
			require.NoError(t, err)
			tt.checkConfig(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	assert.Error(t, err)
	assert.True(t, customerrors.IsConfigError(err))
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("MIRROR_WORK_DIR", "/tmp/mirror")

	path := writeConfigFile(t, "publish:\n  work_dir: ${MIRROR_WORK_DIR}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/mirror", cfg.Publish.WorkDir)
}
