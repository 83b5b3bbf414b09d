// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig

	DefaultLocale string `envconfig:"DEFAULT_LOCALE" default:"en_US"`
}

// DatabaseConfig selects the gorm driver and its connection settings.
// DSN, when set, wins over the discrete postgres fields.
type DatabaseConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"sqlite"`
	DSNValue string `envconfig:"DB_DSN"`
	Path     string `envconfig:"DB_PATH" default:"profiles.db"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"profiles"`
	Password string `envconfig:"DB_PASSWORD" default:"profiles"`
	DBName   string `envconfig:"DB_NAME" default:"profiles"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// RedisConfig configures the optional event publisher. An empty Addr disables it.
type RedisConfig struct {
	Addr    string `envconfig:"REDIS_ADDR"`
	Channel string `envconfig:"REDIS_CHANNEL" default:"profiles.events"`
}

// CacheConfig bounds the resolved-profile cache.
type CacheConfig struct {
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	Size int           `envconfig:"CACHE_SIZE" default:"1024"`
}

// LogConfig selects logrus level and formatter.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.DSNValue != "" {
		return d.DSNValue
	}
	if d.Driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
		)
	}
	return d.Path
}

// Load reads an optional .env file, then the environment.
// It uses sensible defaults for local development.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	return &cfg, nil
}
