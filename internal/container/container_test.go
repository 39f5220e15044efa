package container

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-recipes-api/config"
	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

func testConfig(driver string) *config.Config {
	cfg := &config.Config{}
	cfg.Storage.Driver = driver
	cfg.Auth.JWT = config.JWTConfig{SecretKey: "test", Issuer: "recipes-api", AccessTokenTTL: time.Hour}
	return cfg
}

func TestNewContainer_Memory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := NewContainer(context.Background(), testConfig(config.DriverMemory), logger)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	assert.Nil(t, c.Pool)
	assert.Nil(t, c.SQLite)
	assert.NotNil(t, c.RecipeHandler)
	assert.NotNil(t, c.Authenticate)

	rc := c.RouterConfig()
	assert.Same(t, c.AuthHandler, rc.AuthHandler)
}

func TestNewContainer_SQLiteWithCache(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(config.DriverSQLite)
	cfg.Repositories.SQLite.Path = filepath.Join(t.TempDir(), "recipes.db")
	cfg.Storage.CacheTTL = time.Minute
	cfg.Storage.CacheCleanup = time.Minute

	c, err := NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	require.NotNil(t, c.SQLite)

	ctx := context.Background()
	require.NoError(t, c.UserService.RegisterUser(ctx, "a@x.com", "password1"))
	created, err := c.RecipeService.CreateRecipe(ctx, types.RecipeDraft{
		Name: "Omelette", Category: "Breakfast", Description: "Quick",
		Ingredients: []string{"egg"}, Directions: []string{"fry"},
	}, "a@x.com")
	require.NoError(t, err)

	got, err := c.RecipeService.GetRecipeByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Author)
}

func TestNewContainer_PostgresNeedsHost(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := NewContainer(context.Background(), testConfig(config.DriverPostgres), logger)
	assert.Error(t, err)
}

func TestNewContainer_MissingSecret(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(config.DriverMemory)
	cfg.Auth.JWT.SecretKey = ""
	_, err := NewContainer(context.Background(), cfg, logger)
	assert.Error(t, err)
}
