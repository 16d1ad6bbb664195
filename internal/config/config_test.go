package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
server:
  base_url: https://taddoist.example.com
session:
  secret: 0123456789abcdef0123456789abcdef
google:
  client_id: google-id
  client_secret: google-secret
todoist:
  client_id: todoist-id
  client_secret: todoist-secret
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "lax", cfg.Server.CookieSameSite)

	assert.Equal(t, "taddoist-sign-csrf", cfg.CSRF.CookieName)
	assert.Equal(t, "/sign", cfg.CSRF.CookiePath)
	assert.Equal(t, 10*time.Minute, cfg.CSRF.TTL)

	assert.Equal(t, "taddoist-session", cfg.Session.CookieName)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.TTL)
	require.NotNil(t, cfg.Session.Refresh)
	assert.True(t, *cfg.Session.Refresh)

	assert.Equal(t, "https://accounts.google.com", cfg.Google.Issuer)
	assert.Equal(t, []string{"openid", "email"}, cfg.Google.Scopes)
	assert.Equal(t, 5*time.Second, cfg.Google.ExchangeTimeout)

	assert.Equal(t, "data:read_write", cfg.Todoist.Scope)
	assert.Equal(t, "https://todoist.com/oauth/authorize", cfg.Todoist.AuthURL)
	assert.Equal(t, "https://todoist.com/oauth/access_token", cfg.Todoist.TokenURL)
	assert.Equal(t, 5*time.Second, cfg.Todoist.ExchangeTimeout)

	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.NoError(t, cfg.Validate())
}

func TestParse_SecretsFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_SECRET", "from-env")
	t.Setenv("TODOIST_CLIENT_ID", "todoist-env-id")
	t.Setenv("GAE_VERSION", "20240101t120000")

	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Google.ClientSecret)
	assert.Equal(t, "google-id", cfg.Google.ClientID)
	assert.Equal(t, "todoist-env-id", cfg.Todoist.ClientID)
	assert.Equal(t, "20240101t120000", cfg.Version)
}

func TestParse_VersionFallback(t *testing.T) {
	t.Setenv("GAE_VERSION", "")

	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, cfg.Version)
}

func TestParse_RedisDefaults(t *testing.T) {
	t.Setenv("REDIS_PASSWORD", "hunter2")

	cfg, err := Parse([]byte(minimalYAML + `
store:
  type: redis
  redis:
    address: localhost:6379
`))
	require.NoError(t, err)

	require.NotNil(t, cfg.Store.Redis)
	assert.Equal(t, 10, cfg.Store.Redis.PoolSize)
	assert.Equal(t, 3, cfg.Store.Redis.MaxRetries)
	assert.Equal(t, "taddoist", cfg.Store.Redis.KeyPrefix)
	assert.Equal(t, "hunter2", cfg.Store.Redis.Password)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("server: [unterminated"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://taddoist.example.com", cfg.Server.BaseURL)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_ExampleConfig(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "google-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "google-secret")
	t.Setenv("TODOIST_CLIENT_ID", "todoist-id")
	t.Setenv("TODOIST_CLIENT_SECRET", "todoist-secret")

	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "firestore", cfg.Store.Type)
	assert.Equal(t, "cloud", cfg.Logging.Format)
	assert.Equal(t, 720*time.Hour, cfg.Session.TTL)
}
