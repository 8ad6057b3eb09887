package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
server:
  port: 9090
  api_key: super-secret
database:
  path: `+filepath.Join(dir, "orders.db")+`
backup:
  enabled: true
  interval_hours: 6
  retention_days: 7
watcher:
  schedule: "@every 5m"
  awaiting_parts_alert: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "super-secret", cfg.Server.APIKey)
	assert.Equal(t, 6*time.Hour, cfg.BackupInterval())
	assert.Equal(t, 7*24*time.Hour, cfg.BackupRetention())
	assert.Equal(t, "@every 5m", cfg.Watcher.Schedule)
	assert.Equal(t, 3, cfg.Watcher.AwaitingPartsAlert)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "server: {}\n")
	prevDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir())) // default database path creates its directory
	t.Cleanup(func() { _ = os.Chdir(prevDir) })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/fieldsvc.db", cfg.Database.Path)
	assert.Equal(t, "@every 15m", cfg.Watcher.Schedule)
	assert.Equal(t, 24*time.Hour, cfg.BackupInterval())
	assert.Equal(t, 14*24*time.Hour, cfg.BackupRetention())
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_FIELDSVC_KEY", "from-env")
	dir := t.TempDir()
	path := writeConfig(t, `
server:
  api_key: ${TEST_FIELDSVC_KEY}
database:
  path: `+filepath.Join(dir, "orders.db")+`
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Server.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
