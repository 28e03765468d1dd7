package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, 12, cfg.View.PageSize)
	require.Equal(t, "http", cfg.Transport.Mode)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
db:
  path: /data/agency.db
log:
  level: debug
  file: /var/log/agencydesk.log
breaker:
  max_failures: 2
  open_timeout: 5s
view:
  page_size: 24
`), 0o600))

	t.Setenv("AGENCYDESK_CONFIG_PATH", path)
	t.Setenv("AGENCYDESK_SERVER_PORT", "7070")
	t.Setenv("AGENCYDESK_TRANSPORT_MODE", "STDIO")
	t.Setenv("AGENCYDESK_AUTH_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "/data/agency.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "/var/log/agencydesk.log", cfg.Log.File)
	require.Equal(t, 10, cfg.Log.MaxSizeMB, "unset keys keep defaults")
	require.Equal(t, uint32(2), cfg.Breaker.MaxFailures)
	require.Equal(t, 5*time.Second, cfg.Breaker.OpenTimeout)
	require.Equal(t, 24, cfg.View.PageSize)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.False(t, cfg.Auth.Enabled)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AGENCYDESK_DB_PATH=from-dotenv.db\nAGENCYDESK_LOG_LEVEL=warn\n"), 0o600))
	t.Setenv("AGENCYDESK_LOG_LEVEL", "error")
	t.Cleanup(func() { os.Unsetenv("AGENCYDESK_DB_PATH") })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-dotenv.db", cfg.DB.Path)
	require.Equal(t, "error", cfg.Log.Level, "the environment wins over .env")
}

func TestLoad_MissingExplicitEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AGENCYDESK_ENV_FILE", "does-not-exist.env")

	_, err := Load()
	require.ErrorContains(t, err, "load env file")
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"AGENCYDESK_SERVER_PORT":          "eighty",
		"AGENCYDESK_BREAKER_OPEN_TIMEOUT": "soon",
		"AGENCYDESK_TRANSPORT_MODE":       "grpc",
		"AGENCYDESK_VIEW_PAGE_SIZE":       "0",
		"AGENCYDESK_LOG_COMPRESS":         "maybe",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(name, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
