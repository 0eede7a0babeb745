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
	assert.Equal(t, "vendtix", cfg.System.Appid)
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, 5000, cfg.Database.LockTimeoutMs)
	assert.NotEmpty(t, cfg.Logger.Filename)
}

func TestLoadConfigFile(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "vendtix.yml")
	data := []byte(`
system:
  appid: vendtix-test
  location: Asia/Tokyo
  workdir: /tmp/vendtix
web:
  host: 127.0.0.1
  port: 9816
  jwt_secret: test-secret
  jwt_expire_minutes: 5
database:
  type: postgres
  host: dbhost
  port: 5432
  name: vendtix_test
  user: tester
  lock_timeout_ms: 250
`)
	require.NoError(t, os.WriteFile(cfile, data, 0o600))

	cfg := LoadConfig(cfile)
	assert.Equal(t, "vendtix-test", cfg.System.Appid)
	assert.Equal(t, 9816, cfg.Web.Port)
	assert.Equal(t, "dbhost", cfg.Database.Host)
	assert.Equal(t, 250, cfg.Database.LockTimeoutMs)
	assert.Equal(t, filepath.Join("/tmp/vendtix", "vendtix.log"), cfg.Logger.Filename)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "vendtix.yml")
	require.NoError(t, os.WriteFile(cfile, []byte("web:\n  jwt_secret: from-file\n"), 0o600))

	t.Setenv("VENDTIX_WEB_JWT_SECRET", "from-env")
	t.Setenv("VENDTIX_DB_HOST", "env-db")

	cfg := LoadConfig(cfile)
	assert.Equal(t, "from-env", cfg.Web.JwtSecret)
	assert.Equal(t, "env-db", cfg.Database.Host)
}
