package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/awaistahir/smart-wash/internal/alarm"
	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Dataset DatasetConfig `mapstructure:"dataset"`
	Store   StoreConfig   `mapstructure:"store"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Alarm   AlarmConfig   `mapstructure:"alarm"`
	Laundry LaundryConfig `mapstructure:"laundry"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig defines where the dashboard listens
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	BindAddress string `mapstructure:"bind_address"`
	Timeout     string `mapstructure:"timeout"`
}

// DatasetConfig selects where the historical table comes from
type DatasetConfig struct {
	Source   string `mapstructure:"source"` // "csv" or "sqlite"
	Path     string `mapstructure:"path"`   // CSV file for the csv source
	SkipRows []int  `mapstructure:"skip_rows"`
}

// StoreConfig defines the SQLite database location
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig controls dataset snapshot caching
type CacheConfig struct {
	Size  int         `mapstructure:"size"`
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig defines the optional shared snapshot cache
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      string `mapstructure:"ttl"`
}

// AlarmConfig picks the alarm affordance strategy
type AlarmConfig struct {
	Strategy string `mapstructure:"strategy"`
}

// LaundryConfig describes the machine
type LaundryConfig struct {
	CycleMinutes int `mapstructure:"cycle_minutes"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CycleDuration returns the configured wash duration
func (l LaundryConfig) CycleDuration() time.Duration {
	return time.Duration(l.CycleMinutes) * time.Minute
}

// DefaultDir returns $HOME/.smartwash
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".smartwash"
	}
	return filepath.Join(home, ".smartwash")
}

// Load reads configuration from configPath (optional), environment variables and defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(DefaultDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("SMARTWASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file, use defaults and environment variables
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.bind_address", "")
	v.SetDefault("server.timeout", "30s")

	v.SetDefault("dataset.source", "csv")
	v.SetDefault("dataset.path", "laundry_example.csv")
	v.SetDefault("dataset.skip_rows", []int{1, 2})

	v.SetDefault("store.path", filepath.Join(DefaultDir(), "smartwash.db"))

	v.SetDefault("cache.size", 8)
	v.SetDefault("cache.redis.enabled", false)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.ttl", "10m")

	v.SetDefault("alarm.strategy", "button")

	v.SetDefault("laundry.cycle_minutes", 50)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	switch cfg.Dataset.Source {
	case "csv":
		if cfg.Dataset.Path == "" {
			return fmt.Errorf("dataset path is required for the csv source")
		}
	case "sqlite":
		if cfg.Store.Path == "" {
			return fmt.Errorf("store path is required for the sqlite source")
		}
	default:
		return fmt.Errorf("unknown dataset source: %q", cfg.Dataset.Source)
	}

	if _, err := alarm.New(cfg.Alarm.Strategy); err != nil {
		return err
	}

	if cfg.Laundry.CycleMinutes <= 0 {
		return fmt.Errorf("invalid cycle minutes: %d", cfg.Laundry.CycleMinutes)
	}

	if _, err := time.ParseDuration(cfg.Server.Timeout); err != nil {
		return fmt.Errorf("invalid server timeout: %w", err)
	}

	if cfg.Cache.Redis.Enabled {
		if cfg.Cache.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required when the redis cache is enabled")
		}
		if _, err := time.ParseDuration(cfg.Cache.Redis.TTL); err != nil {
			return fmt.Errorf("invalid redis ttl: %w", err)
		}
	}

	return nil
}

// ParseDuration parses a duration string with a fallback
func ParseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
