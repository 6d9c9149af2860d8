package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, SourceFile, cfg.Data.Source)
	assert.Equal(t, "data/find_events_data.json", cfg.Data.Path)
	assert.False(t, cfg.Data.Cache)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	content := `
server:
  addr: ":9090"
data:
  path: /srv/events.json
  cache: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/srv/events.json", cfg.Data.Path)
	assert.True(t, cfg.Data.Cache)
	assert.Equal(t, SourceFile, cfg.Data.Source)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data:\n  source: file\n"), 0644))
	t.Setenv("EVENTFINDER_DATA_SOURCE", "postgres")
	t.Setenv("EVENTFINDER_DB_HOST", "db.internal")
	t.Setenv("EVENTFINDER_DB_PORT", "6543")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, SourcePostgres, cfg.Data.Source)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data: [unclosed"), 0644))

	_, err := Load(path)

	assert.Error(t, err)
}
