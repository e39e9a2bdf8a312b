package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"CONFIG_FILE", "APP_ENV", "HTTP_ADDR", "PB_DATA_DIR", "DATABASE_URL", "ALLOWED_ORIGINS", "DB_MIGRATE",
		"OPENROUTER_API_KEY", "OPENROUTER_BASE_URL", "OPENROUTER_PRIMARY_MODEL", "OPENROUTER_FALLBACK_MODEL",
		"OPENROUTER_TEMPERATURE", "OPENROUTER_MAX_TOKENS", "OPENROUTER_TIMEOUT",
		"EXTERNAL_TARGET", "EXTERNAL_API_BASE_URL", "EXTERNAL_API_ENDPOINT", "EXTERNAL_API_TIMEOUT",
		"DEFAULT_EXTERNAL_API_KEY", "EXTERNAL_USERNAME",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEFAULT_EXTERNAL_API_KEY", "ext-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.GeneratorEnabled())
	assert.Equal(t, "openai/gpt-3.5-turbo", cfg.OpenRouter.PrimaryModel)
	assert.Equal(t, "anthropic/claude-3-haiku", cfg.OpenRouter.FallbackModel)
	assert.Equal(t, 280, cfg.OpenRouter.MaxTokens)
	assert.Equal(t, "/post_tweet", cfg.External.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.External.Timeout())
	assert.Equal(t, "ext-key", cfg.External.DefaultAPIKey)
}

func TestLoadRequiresExternalKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_EXTERNAL_API_KEY")
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEFAULT_EXTERNAL_API_KEY", "ext-key")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("OPENROUTER_TIMEOUT", "5")
	t.Setenv("OPENROUTER_TEMPERATURE", "0.3")
	t.Setenv("EXTERNAL_API_TIMEOUT", "3")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,,")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.GeneratorEnabled())
	assert.Equal(t, 5*time.Second, cfg.OpenRouter.Timeout())
	assert.Equal(t, 0.3, cfg.OpenRouter.Temperature)
	assert.Equal(t, 3*time.Second, cfg.External.Timeout())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.DatabaseURL)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEFAULT_EXTERNAL_API_KEY", "ext-key")
	t.Setenv("EXTERNAL_API_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXTERNAL_API_TIMEOUT")
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: prod
database_url: sqlite://./data/tweets.db
openrouter:
  primary_model: meta/llama
external:
  target: twitter
  default_api_key: from-file
  username: filebot
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("EXTERNAL_USERNAME", "envbot")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "sqlite://./data/tweets.db", cfg.DatabaseURL)
	assert.Equal(t, "meta/llama", cfg.OpenRouter.PrimaryModel)
	assert.Equal(t, "anthropic/claude-3-haiku", cfg.OpenRouter.FallbackModel)
	assert.Equal(t, "twitter", cfg.External.Target)
	assert.Equal(t, "from-file", cfg.External.DefaultAPIKey)
	assert.Equal(t, "envbot", cfg.External.Username)
}

func TestValidateTarget(t *testing.T) {
	cfg := Default()
	cfg.External.DefaultAPIKey = "k"
	cfg.External.Target = "myspace"
	assert.Error(t, cfg.Validate())
}
