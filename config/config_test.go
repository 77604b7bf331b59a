package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig("")
	assert.Equal(t, "invtrack", cfg.System.Appid)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 1829, cfg.Web.Port)
}

func TestLoadConfigFromFile(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "invtrack.yml")
	require.NoError(t, os.WriteFile(cfile, []byte(`
system:
  workdir: /tmp/invtrack-test
web:
  port: 9000
database:
  type: postgres
  host: db.internal
`), 0644))

	cfg := LoadConfig(cfile)
	assert.Equal(t, "/tmp/invtrack-test", cfg.System.Workdir)
	assert.Equal(t, 9000, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	// untouched keys keep their defaults
	assert.Equal(t, "invtrack", cfg.System.Appid)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("INVTRACK_WEB_PORT", "8088")
	t.Setenv("INVTRACK_DB_TYPE", "postgres")
	t.Setenv("INVTRACK_SYSTEM_DEBUG", "false")

	cfg := LoadConfig("")
	assert.Equal(t, 8088, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.False(t, cfg.System.Debug)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg := LoadConfig("/nonexistent/invtrack.yml")
	assert.Equal(t, DefaultAppConfig.Web.Port, cfg.Web.Port)
}
