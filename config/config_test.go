package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  dsn: "file::memory:"
auth:
  secret_key: test-secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  driver: sqlite
  dsn: "file::memory:"
`)
	t.Setenv("PORT", "9100")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/assets")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@localhost/assets", cfg.Database.DSN)
	assert.Equal(t, "from-env", cfg.Auth.SecretKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("SECRET_KEY", "s")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoad_Validation(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{
			name: "unknown driver",
			body: "database:\n  driver: mysql\n  dsn: x\nauth:\n  secret_key: s\n",
		},
		{
			name: "missing dsn",
			body: "database:\n  driver: sqlite\nauth:\n  secret_key: s\n",
		},
		{
			name: "missing secret in release mode",
			body: "database:\n  driver: sqlite\n  dsn: x\n",
		},
		{
			name: "access outlives refresh",
			body: "database:\n  driver: sqlite\n  dsn: x\nauth:\n  secret_key: s\n  access_token_ttl_minutes: 120\n  refresh_token_ttl_hours: 1\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_DebugModeFallsBackToDevelopmentSecret(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  mode: debug\ndatabase:\n  driver: sqlite\n  dsn: x\n"))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Auth.SecretKey)
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load("config.example.yaml")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "json", cfg.Logging.Format)
}
