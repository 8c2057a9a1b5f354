package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Addressing modes for resolving an external series id against TMDB.
const (
	// AddressingResolve maps the external id to a TMDB id via /find
	// before any series call.
	AddressingResolve = "resolve"
	// AddressingDirect addresses series endpoints with the external id
	// as-is.
	AddressingDirect = "direct"
)

// Failure modes for a failed series assembly.
const (
	// FailurePropagate surfaces assembly failures to the host as a
	// request error.
	FailurePropagate = "propagate"
	// FailureDegrade answers with a null meta instead of failing the
	// host request.
	FailureDegrade = "degrade"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	OMDB    OMDBConfig    `mapstructure:"omdb"`
	Addon   AddonConfig   `mapstructure:"addon"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // "console" or "json"
	Path       string `mapstructure:"path"`   // directory for log files, empty disables files
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// TMDBConfig holds metadata provider configuration.
type TMDBConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	Timeout      int    `mapstructure:"timeout"` // seconds
}

// OMDBConfig holds ratings provider configuration.
type OMDBConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

// AddonConfig holds addon behavior configuration.
type AddonConfig struct {
	// Addressing selects how external ids are resolved against TMDB:
	// "resolve" (default) or "direct".
	Addressing string `mapstructure:"addressing"`
	// FailureMode selects what the host sees when a series assembly
	// fails: "propagate" (default) or "degrade".
	FailureMode string `mapstructure:"failure_mode"`
	// Workers bounds the episode fan-out. 0 means one worker per
	// episode.
	Workers int `mapstructure:"workers"`
}

// CacheConfig holds cache lifetimes.
type CacheConfig struct {
	SeriesTTLHours  int `mapstructure:"series_ttl_hours"`
	EpisodeTTLHours int `mapstructure:"episode_ttl_hours"`
	// SweepCron is the schedule for the expired-entry sweep.
	SweepCron string `mapstructure:"sweep_cron"`
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.episcope")
	}

	v.SetEnvPrefix("EPISCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults + env vars
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7700)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.image_base_url", "https://image.tmdb.org/t/p")
	v.SetDefault("tmdb.timeout", 10)

	v.SetDefault("omdb.api_key", "")
	v.SetDefault("omdb.base_url", "https://www.omdbapi.com")
	v.SetDefault("omdb.timeout", 10)

	v.SetDefault("addon.addressing", AddressingResolve)
	v.SetDefault("addon.failure_mode", FailurePropagate)
	v.SetDefault("addon.workers", 0)

	v.SetDefault("cache.series_ttl_hours", 24)
	v.SetDefault("cache.episode_ttl_hours", 12)
	v.SetDefault("cache.sweep_cron", "*/30 * * * *")
}

// Validate rejects configuration values outside the supported modes.
func (c *Config) Validate() error {
	switch c.Addon.Addressing {
	case AddressingResolve, AddressingDirect:
	default:
		return fmt.Errorf("addon.addressing must be %q or %q, got %q",
			AddressingResolve, AddressingDirect, c.Addon.Addressing)
	}

	switch c.Addon.FailureMode {
	case FailurePropagate, FailureDegrade:
	default:
		return fmt.Errorf("addon.failure_mode must be %q or %q, got %q",
			FailurePropagate, FailureDegrade, c.Addon.FailureMode)
	}

	if c.Cache.SeriesTTLHours <= 0 || c.Cache.EpisodeTTLHours <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	return nil
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
