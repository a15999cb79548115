package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.StorageDriver)
	assert.Equal(t, "local", cfg.SinkDriver)
	assert.Equal(t, 256, cfg.RenderCacheSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
storageDriver: sqlite
sqlitePath: data/models.db
sinkDriver: s3
s3:
  bucket: schemas
  endpoint: minio:9000
log:
  level: debug
`), 0o644))

	t.Setenv("ADMINSCHEMA_SQLITE_PATH", "/var/lib/models.db")
	t.Setenv("ADMINSCHEMA_S3_USE_SSL", "yes")
	t.Setenv("ADMINSCHEMA_RENDER_CACHE", "16")

	cfg := Load(path, []string{"-port", "7000", "-s3-prefix", "admin"})
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.Equal(t, "/var/lib/models.db", cfg.SQLitePath)
	assert.Equal(t, "s3", cfg.SinkDriver)
	assert.Equal(t, "schemas", cfg.S3.Bucket)
	assert.Equal(t, "minio:9000", cfg.S3.Endpoint)
	assert.Equal(t, "admin", cfg.S3.Prefix)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.True(t, cfg.S3.UseSSL)
	assert.Equal(t, 16, cfg.RenderCacheSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadSwitchesConfigByFlag(t *testing.T) {
	dir := t.TempDir()
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("port: \"9100\"\n"), 0o644))

	cfg := Load(filepath.Join(dir, "config.yaml"), []string{"-config", other})
	assert.Equal(t, "9100", cfg.Port)
}
