package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedDefaults(t *testing.T) {
	cfg, err := Load(embeddedConfig)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Mode)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.Equal(t, 5*time.Minute, cfg.Storage.CacheTTL)
	assert.Equal(t, "recipes-api", cfg.Auth.JWT.Issuer)
	assert.Equal(t, time.Hour, cfg.Auth.JWT.AccessTokenTTL)
	assert.Equal(t, "localhost", cfg.Repositories.Postgres.Host)
	assert.Equal(t, "recipes.db", cfg.Repositories.SQLite.Path)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]byte("mode: production\n"))
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, time.Hour, cfg.Auth.JWT.AccessTokenTTL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RECIPES_STORAGE_DRIVER", "memory")

	cfg, err := Load(embeddedConfig)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}

func TestLoad_UnknownDriver(t *testing.T) {
	_, err := Load([]byte("storage:\n  driver: mongo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}

func TestLoad_PlaceholderSecret(t *testing.T) {
	t.Run("rejected outside development", func(t *testing.T) {
		t.Setenv("RECIPES_MODE", "production")

		_, err := Load(embeddedConfig)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "placeholder")
	})

	t.Run("accepted in development", func(t *testing.T) {
		cfg, err := Load(embeddedConfig)
		require.NoError(t, err)
		assert.Equal(t, placeholderSecret, cfg.Auth.JWT.SecretKey)
	})

	t.Run("overridden secret accepted in production", func(t *testing.T) {
		t.Setenv("RECIPES_MODE", "production")
		t.Setenv("RECIPES_AUTH_JWT_SECRETKEY", "a-real-secret")

		cfg, err := Load(embeddedConfig)
		require.NoError(t, err)
		assert.Equal(t, "a-real-secret", cfg.Auth.JWT.SecretKey)
	})
}
