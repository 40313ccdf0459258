// Package config loads runtime configuration from the environment and flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the settings needed to run the service.
type Config struct {
	AppPort         string
	DBDriver        string
	DatabaseDSN     string
	DBAutoMigrate   bool
	LinkBaseURL     string
	RabbitMQURL     string
	EventsConsume   bool
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// SetDefaults registers default values on v and enables environment lookups.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "file:katalog.db?cache=shared")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("LINK_BASE_URL", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("EVENTS_CONSUME", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.AutomaticEnv()
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppPort:         v.GetString("APP_PORT"),
		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		DBAutoMigrate:   v.GetBool("DB_AUTO_MIGRATE"),
		LinkBaseURL:     v.GetString("LINK_BASE_URL"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		EventsConsume:   v.GetBool("EVENTS_CONSUME"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       strings.ToLower(v.GetString("LOG_FORMAT")),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres:
		if cfg.DatabaseDSN == "" {
			return Config{}, fmt.Errorf("DATABASE_DSN is required for driver %q", cfg.DBDriver)
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return Config{}, fmt.Errorf("unsupported LOG_FORMAT %q", cfg.LogFormat)
	}

	if !strings.Contains(cfg.AppPort, ":") {
		cfg.AppPort = ":" + cfg.AppPort
	}

	if cfg.EventsConsume && cfg.RabbitMQURL == "" {
		return Config{}, fmt.Errorf("EVENTS_CONSUME requires RABBITMQ_URL")
	}

	return cfg, nil
}
