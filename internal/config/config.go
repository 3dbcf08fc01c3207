// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort                = 8080
	defaultServerHost                = "0.0.0.0"
	defaultReadTimeout               = 30 * time.Second
	defaultWriteTimeout              = 30 * time.Second
	defaultDatabasePath              = "./data/coachhub.db"
	defaultDatabaseConnectionTimeout = 5 * time.Second
	defaultLogLevel                  = "info"
	defaultLogPretty                 = false
	defaultStorageURLTTL             = 60 * time.Minute
	defaultStorageRefreshLead        = 15 * time.Minute
	defaultPlaybackTickInterval      = 250 * time.Millisecond
	defaultSwitchDebounce            = 150 * time.Millisecond
	defaultMaxLanes                  = 5
	envPrefix                        = "COACHHUB"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Storage  StorageConfig
	Playback PlaybackConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path              string
	ConnectionTimeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// StorageConfig holds the media object store connection and signed URL policy.
// URLTTL is the lifetime requested for each signed URL; RefreshLead is how long
// before expiry a cached URL is refreshed.
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	URLTTL          time.Duration
	RefreshLead     time.Duration
}

// PlaybackConfig holds playback engine tuning
type PlaybackConfig struct {
	TickInterval   time.Duration
	SwitchDebounce time.Duration
	MaxLanes       int
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/coachhub")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnectionTimeout)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.bucket", "game-film")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.urlttl", defaultStorageURLTTL)
	v.SetDefault("storage.refreshlead", defaultStorageRefreshLead)

	v.SetDefault("playback.tickinterval", defaultPlaybackTickInterval)
	v.SetDefault("playback.switchdebounce", defaultSwitchDebounce)
	v.SetDefault("playback.maxlanes", defaultMaxLanes)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	if c.Storage.URLTTL <= 0 {
		return fmt.Errorf("invalid storage URL TTL: %v (must be > 0)", c.Storage.URLTTL)
	}
	if c.Storage.RefreshLead <= 0 || c.Storage.RefreshLead >= c.Storage.URLTTL {
		return fmt.Errorf("invalid storage refresh lead: %v (must be > 0 and < URL TTL %v)", c.Storage.RefreshLead, c.Storage.URLTTL)
	}

	if c.Playback.TickInterval <= 0 {
		return fmt.Errorf("invalid playback tick interval: %v (must be > 0)", c.Playback.TickInterval)
	}
	if c.Playback.SwitchDebounce < 0 {
		return fmt.Errorf("invalid switch debounce: %v (must be >= 0)", c.Playback.SwitchDebounce)
	}
	if c.Playback.MaxLanes < 1 {
		return fmt.Errorf("invalid max lanes: %d (must be >= 1)", c.Playback.MaxLanes)
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
