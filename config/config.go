package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// TomlServer holds HTTP server settings
type TomlServer struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	AllowOrigin string `toml:"allow_origin"`
}

// TomlDatabase selects the storage backend
type TomlDatabase struct {
	Driver   string `toml:"driver"` // sqlite or postgres
	Path     string `toml:"path"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
}

// TomlProvider configures the external search provider
type TomlProvider struct {
	Kind           string  `toml:"kind"` // ytdlp or youtube
	APIKey         string  `toml:"api_key"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RatePerSecond  float64 `toml:"rate_per_second"`
}

// TomlFeed configures feed assembly and the search cache
type TomlFeed struct {
	PerKeyword         int    `toml:"per_keyword"`
	Cache              string `toml:"cache"` // database or memory
	CacheMaxAgeSeconds int    `toml:"cache_max_age_seconds"`
	MemoryCacheSize    int    `toml:"memory_cache_size"`
	Seed               uint64 `toml:"seed"` // zero picks a random seed
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Server   TomlServer   `toml:"server"`
	Database TomlDatabase `toml:"database"`
	Provider TomlProvider `toml:"provider"`
	Feed     TomlFeed     `toml:"feed"`
}

func Default() *TomlConfig {
	return &TomlConfig{
		Server: TomlServer{
			Host:        "",
			Port:        5000,
			AllowOrigin: "*",
		},
		Database: TomlDatabase{
			Driver: "sqlite",
			Path:   "customtube.db",
			Host:   "localhost",
			Port:   5432,
			User:   "customtube",
			Name:   "customtube",
		},
		Provider: TomlProvider{
			Kind:           "ytdlp",
			TimeoutSeconds: 60,
		},
		Feed: TomlFeed{
			PerKeyword:      10,
			Cache:           "database",
			MemoryCacheSize: 256,
		},
	}
}

// LoadConfig reads a TOML file on top of the defaults. Keys missing from the
// file keep their default value.
func LoadConfig(path string) (*TomlConfig, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

func (c *TomlConfig) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Provider.Kind {
	case "ytdlp":
	case "youtube":
		if c.Provider.APIKey == "" {
			return fmt.Errorf("provider youtube requires an api_key")
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider.Kind)
	}

	switch c.Feed.Cache {
	case "database":
	case "memory":
		if c.Feed.MemoryCacheSize < 1 {
			return fmt.Errorf("memory_cache_size must be positive")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Feed.Cache)
	}

	if c.Feed.PerKeyword < 1 {
		return fmt.Errorf("per_keyword must be positive")
	}
	if c.Feed.CacheMaxAgeSeconds < 0 {
		return fmt.Errorf("cache_max_age_seconds must not be negative")
	}

	return nil
}

func (p TomlProvider) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// CacheMaxAge of zero means cached results never go stale
func (f TomlFeed) CacheMaxAge() time.Duration {
	return time.Duration(f.CacheMaxAgeSeconds) * time.Second
}
