package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":5412", cfg.Server.ListenAddress())
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "workout_app", cfg.Database.Name)
	assert.Equal(t, 168*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.Equal(t, 1500, cfg.LLM.MaxTokens)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 1, cfg.LLM.RetryCount)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestLoadConfig_LegacyEnvNames(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("PORT", "9000")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.ListenAddress())
	assert.Equal(t, "mongodb://db:27017", cfg.Database.URI)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}

func TestLoadConfig_NestedEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("JWT_EXPIRATION", "30m")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("S3_BUCKET_NAME", "exports")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  address: "127.0.0.1:8081"
jwt:
  secret: "from-file"
  expiration: "2h"
database:
  name: "custom_db"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8081", cfg.Server.ListenAddress())
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "custom_db", cfg.Database.Name)
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=dotenv-secret\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-secret", cfg.JWT.Secret)
}

func TestServerConfig_ListenAddress(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServerConfig
		want string
	}{
		{"address only", ServerConfig{Address: ":5412"}, ":5412"},
		{"port overrides", ServerConfig{Address: ":5412", Port: "8080"}, ":8080"},
		{"keeps host", ServerConfig{Address: "0.0.0.0:5412", Port: "8080"}, "0.0.0.0:8080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ListenAddress())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{
		JWT:      JWTConfig{Secret: "s", Expiration: time.Hour},
		LLM:      LLMConfig{Timeout: time.Second, RetryCount: -1},
		Database: DatabaseConfig{Name: "db"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry_count")

	cfg.LLM.RetryCount = 0
	assert.NoError(t, cfg.Validate())
}
