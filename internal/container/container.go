package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-recipes-api/app/db"
	"github.com/FACorreiaa/go-recipes-api/config"
	"github.com/FACorreiaa/go-recipes-api/internal/api/auth"
	"github.com/FACorreiaa/go-recipes-api/internal/api/recipe"
	"github.com/FACorreiaa/go-recipes-api/internal/api/user"
	"github.com/FACorreiaa/go-recipes-api/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *slog.Logger
	Pool          *pgxpool.Pool
	SQLite        *database.SQLiteDB
	UserService   user.Service
	RecipeService recipe.Service
	Tokens        *auth.TokenService
	AuthHandler   *auth.AuthHandler
	UserHandler   *user.HandlerImpl
	RecipeHandler *recipe.HandlerImpl
	Authenticate  func(http.Handler) http.Handler
}

// NewContainer opens the configured store, migrates it and wires services and handlers.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	var (
		userRepo   user.Repository
		recipeRepo recipe.Repository
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dbConfig, err := database.NewDatabaseConfig(cfg, logger)
		if err != nil {
			return nil, err
		}
		if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
			return nil, err
		}
		pool, err := database.Init(dbConfig, logger)
		if err != nil {
			return nil, err
		}
		c.Pool = pool
		if !database.WaitForDB(ctx, pool, logger) {
			c.Close()
			return nil, errors.New("database not ready")
		}
		userRepo = user.NewRepository(pool, logger)
		recipeRepo = recipe.NewRepository(pool, logger)

	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.Repositories.SQLite.Path)
		if err != nil {
			logger.Error("Failed to open sqlite database", slog.String("path", cfg.Repositories.SQLite.Path), slog.Any("error", err))
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		c.SQLite = db
		if err = database.RunSQLiteMigrations(db, logger); err != nil {
			c.Close()
			return nil, err
		}
		if !database.WaitForDB(ctx, db, logger) {
			c.Close()
			return nil, errors.New("database not ready")
		}
		userRepo = user.NewSQLiteRepository(db, logger)
		recipeRepo = recipe.NewSQLiteRepository(db, logger)

	case config.DriverMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		userRepo = user.NewMemoryRepository()
		recipeRepo = recipe.NewMemoryRepository()

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Storage.CacheTTL > 0 {
		recipeRepo = recipe.NewCachedRepository(recipeRepo, cfg.Storage.CacheTTL, cfg.Storage.CacheCleanup, logger)
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWT)
	if err != nil {
		c.Close()
		return nil, err
	}

	userService := user.NewServiceImpl(userRepo, user.NewBcryptHasher(), logger)
	recipeService := recipe.NewServiceImpl(recipeRepo, userService, logger)

	c.UserService = userService
	c.RecipeService = recipeService
	c.Tokens = tokens
	c.AuthHandler = auth.NewAuthHandler(tokens, logger)
	c.UserHandler = user.NewHandlerImpl(userService, logger)
	c.RecipeHandler = recipe.NewHandlerImpl(recipeService, logger)
	c.Authenticate = auth.Authenticate(logger, userService, tokens)

	logger.Info("Container initialised", slog.String("driver", cfg.Storage.Driver))
	return c, nil
}

// RouterConfig returns the handlers the API router mounts.
func (c *Container) RouterConfig() *router.Config {
	return &router.Config{
		AuthHandler:            c.AuthHandler,
		UserHandler:            c.UserHandler,
		RecipeHandler:          c.RecipeHandler,
		AuthenticateMiddleware: c.Authenticate,
		AllowedOrigins:         c.Config.CORS.AllowedOrigins,
	}
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.SQLite != nil {
		if err := c.SQLite.Close(); err != nil {
			c.Logger.Warn("Failed to close sqlite database", slog.Any("error", err))
		}
	}
}
