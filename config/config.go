package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type JWTConfig struct {
	SecretKey      string        `mapstructure:"secretKey"`
	Issuer         string        `mapstructure:"issuer"`
	Audience       string        `mapstructure:"audience"`
	AccessTokenTTL time.Duration `mapstructure:"accessTokenTTL"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port    string `mapstructure:"port"`
			Enabled bool   `mapstructure:"enabled"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
		SQLite struct {
			Path string `mapstructure:"path"`
		} `mapstructure:"sqlite"`
	} `mapstructure:"repositories"`
	Storage struct {
		Driver       string        `mapstructure:"driver"`
		CacheTTL     time.Duration `mapstructure:"cacheTTL"`
		CacheCleanup time.Duration `mapstructure:"cacheCleanup"`
	} `mapstructure:"storage"`
	Auth struct {
		JWT JWTConfig `mapstructure:"jwt"`
	} `mapstructure:"auth"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
	Server struct {
		HTTPPort        string        `mapstructure:"HTTPPort"`
		Timeout         time.Duration `mapstructure:"HTTPTimeout"`
		ShutdownTimeout time.Duration `mapstructure:"ShutdownTimeout"`
	} `mapstructure:"server"`
}

// IsDevelopment reports whether the app runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Mode == "" || c.Mode == "development"
}

func InitConfig() (Config, error) {
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// RECIPES_STORAGE_DRIVER overrides storage.driver, and so on.
	v.SetEnvPrefix("recipes")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	return load(v)
}

// Load reads a config from raw YAML, applying the same env overrides as InitConfig.
func Load(raw []byte) (Config, error) {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix("recipes")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return load(v)
}

// placeholderSecret is the signing key shipped in config.yml.
const placeholderSecret = "change-me-in-production"

func load(v *viper.Viper) (Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Storage.Driver == "" {
		config.Storage.Driver = DriverPostgres
	}
	switch config.Storage.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}
	if config.Server.HTTPPort == "" {
		config.Server.HTTPPort = "8080"
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = 10 * time.Second
	}
	if !config.IsDevelopment() && config.Auth.JWT.SecretKey == placeholderSecret {
		return Config{}, fmt.Errorf("auth.jwt.secretKey still holds the shipped placeholder; set RECIPES_AUTH_JWT_SECRETKEY for mode %q", config.Mode)
	}
	if config.Auth.JWT.AccessTokenTTL == 0 {
		config.Auth.JWT.AccessTokenTTL = time.Hour
	}
	return config, nil
}
