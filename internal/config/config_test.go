package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "backend", cfg.Project.Root)
	assert.Equal(t, "py", cfg.Labels.Language)
	assert.Equal(t, ".intellimap/runtime", cfg.Trace.Dir)
	assert.Equal(t, "test", cfg.Trace.Environment)
}

func TestLoadConfig_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
project:
  root: services
  exclude: [generated]
labels:
  environment: worker
`), 0o644))

	t.Run("File overrides defaults", func(t *testing.T) {
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "services", cfg.Project.Root)
		assert.Equal(t, []string{"generated"}, cfg.Project.Exclude)
		assert.Equal(t, "worker", cfg.Labels.Environment)
		assert.Equal(t, "py", cfg.Labels.Language, "unset keys keep defaults")
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		t.Setenv("INTELLIMAP_ROOT", "elsewhere")
		t.Setenv("ENVIRONMENT", "staging")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "elsewhere", cfg.Project.Root)
		assert.Equal(t, "staging", cfg.Trace.Environment)
	})
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project: ["), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
