package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the demo application configuration.
type Config struct {
	Cache  CacheConfig `mapstructure:"cache"`
	HTTP   HTTPConfig  `mapstructure:"http"`
	Locale string      `mapstructure:"locale"`
}

// CacheConfig holds the cache manager configuration.
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	MaxSize         int           `mapstructure:"max_size"`
	Storage         string        `mapstructure:"storage"` // memory | persistent | session
	Dir             string        `mapstructure:"dir"`     // persistent backend only
	Quota           int64         `mapstructure:"quota"`   // bytes, persistent/session only
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	SingleFlight    bool          `mapstructure:"single_flight"`
}

// HTTPConfig holds the outbound HTTP configuration.
type HTTPConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Load reads the configuration from a file and environment variables.
// A missing config file is fine; defaults and env cover everything.
func Load(path string) (*Config, error) {
	vip := viper.New()
	if path != "" {
		vip.SetConfigFile(path)
	} else {
		vip.SetConfigName("config")
		vip.AddConfigPath(".")
	}

	vip.SetConfigType("yaml")
	vip.SetEnvPrefix("WEBKIT")
	vip.AutomaticEnv()
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	vip.SetDefault("cache.ttl", 5*time.Minute)
	vip.SetDefault("cache.max_size", 100)
	vip.SetDefault("cache.storage", "memory")
	vip.SetDefault("cache.cleanup_interval", time.Minute)
	vip.SetDefault("http.timeout", 10*time.Second)
	vip.SetDefault("http.cache_ttl", 5*time.Minute)
	vip.SetDefault("locale", "tr")

	if err := vip.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	switch cfg.Cache.Storage {
	case "memory", "persistent", "session":
	default:
		return nil, fmt.Errorf("unknown cache.storage %q", cfg.Cache.Storage)
	}

	return &cfg, nil
}
