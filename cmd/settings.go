/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"math/rand/v2"

	"customtube/cache"
	"customtube/config"
	"customtube/db"
	"customtube/feeds"
	"customtube/provider"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db-driver",
			Usage:   "Database driver, sqlite or postgres",
			EnvVars: []string{"CUSTOMTUBE_DB_DRIVER"},
			Value:   "sqlite",
		},
		&cli.StringFlag{
			Name:    "database",
			Aliases: []string{"d"},
			Usage:   "SQLite database file location",
			EnvVars: []string{"CUSTOMTUBE_DATABASE"},
			Value:   "customtube.db",
		},
		&cli.StringFlag{
			Name:    "db-host",
			Usage:   "PostgreSQL host",
			EnvVars: []string{"CUSTOMTUBE_DB_HOST"},
			Value:   "localhost",
		},
		&cli.IntFlag{
			Name:    "db-port",
			Usage:   "PostgreSQL port",
			EnvVars: []string{"CUSTOMTUBE_DB_PORT"},
			Value:   5432,
		},
		&cli.StringFlag{
			Name:    "db-user",
			Usage:   "PostgreSQL user",
			EnvVars: []string{"CUSTOMTUBE_DB_USER"},
			Value:   "customtube",
		},
		&cli.StringFlag{
			Name:    "db-password",
			Usage:   "PostgreSQL password",
			EnvVars: []string{"CUSTOMTUBE_DB_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "db-name",
			Usage:   "PostgreSQL database name",
			EnvVars: []string{"CUSTOMTUBE_DB_NAME"},
			Value:   "customtube",
		},
	}
}

func feedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "provider",
			Usage:   "Search provider, ytdlp or youtube",
			EnvVars: []string{"CUSTOMTUBE_PROVIDER"},
			Value:   provider.KindYtDlp,
		},
		&cli.StringFlag{
			Name:    "youtube-api-key",
			Usage:   "YouTube Data API key, required by the youtube provider",
			EnvVars: []string{"CUSTOMTUBE_YOUTUBE_API_KEY"},
		},
		&cli.IntFlag{
			Name:    "provider-timeout",
			Usage:   "Seconds before a single search is abandoned",
			EnvVars: []string{"CUSTOMTUBE_PROVIDER_TIMEOUT"},
			Value:   60,
		},
		&cli.Float64Flag{
			Name:    "rate",
			Usage:   "Maximum searches per second, 0 for no limit",
			EnvVars: []string{"CUSTOMTUBE_RATE"},
		},
		&cli.IntFlag{
			Name:    "per-keyword",
			Usage:   "Maximum number of videos per keyword",
			EnvVars: []string{"CUSTOMTUBE_PER_KEYWORD"},
			Value:   feeds.DefaultPerKeyword,
		},
		&cli.StringFlag{
			Name:    "cache",
			Usage:   "Search cache backend, database or memory",
			EnvVars: []string{"CUSTOMTUBE_CACHE"},
			Value:   "database",
		},
		&cli.IntFlag{
			Name:    "cache-max-age",
			Usage:   "Seconds before a cached search is refreshed, 0 to never refresh",
			EnvVars: []string{"CUSTOMTUBE_CACHE_MAX_AGE"},
		},
		&cli.IntFlag{
			Name:    "memory-cache-size",
			Usage:   "Number of keywords kept by the memory cache",
			EnvVars: []string{"CUSTOMTUBE_MEMORY_CACHE_SIZE"},
			Value:   256,
		},
		&cli.Uint64Flag{
			Name:    "seed",
			Usage:   "Seed for the feed shuffle, 0 for a random seed",
			EnvVars: []string{"CUSTOMTUBE_SEED"},
		},
	}
}

// loadConfig reads the optional config file and applies any flag that was
// explicitly set on top of it
func loadConfig(ctx *cli.Context) (*config.TomlConfig, error) {
	cfg := config.Default()

	if path := ctx.String("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	overrideString(ctx, "db-driver", &cfg.Database.Driver)
	overrideString(ctx, "database", &cfg.Database.Path)
	overrideString(ctx, "db-host", &cfg.Database.Host)
	overrideInt(ctx, "db-port", &cfg.Database.Port)
	overrideString(ctx, "db-user", &cfg.Database.User)
	overrideString(ctx, "db-password", &cfg.Database.Password)
	overrideString(ctx, "db-name", &cfg.Database.Name)

	overrideString(ctx, "provider", &cfg.Provider.Kind)
	overrideString(ctx, "youtube-api-key", &cfg.Provider.APIKey)
	overrideInt(ctx, "provider-timeout", &cfg.Provider.TimeoutSeconds)
	if ctx.IsSet("rate") {
		cfg.Provider.RatePerSecond = ctx.Float64("rate")
	}

	overrideInt(ctx, "per-keyword", &cfg.Feed.PerKeyword)
	overrideString(ctx, "cache", &cfg.Feed.Cache)
	overrideInt(ctx, "cache-max-age", &cfg.Feed.CacheMaxAgeSeconds)
	overrideInt(ctx, "memory-cache-size", &cfg.Feed.MemoryCacheSize)
	if ctx.IsSet("seed") {
		cfg.Feed.Seed = ctx.Uint64("seed")
	}

	overrideString(ctx, "host", &cfg.Server.Host)
	overrideInt(ctx, "port", &cfg.Server.Port)
	overrideString(ctx, "allow-origin", &cfg.Server.AllowOrigin)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func overrideString(ctx *cli.Context, name string, target *string) {
	if ctx.IsSet(name) {
		*target = ctx.String(name)
	}
}

func overrideInt(ctx *cli.Context, name string, target *int) {
	if ctx.IsSet(name) {
		*target = ctx.Int(name)
	}
}

func databaseOptions(cfg *config.TomlConfig) db.Options {
	return db.Options{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
	}
}

// openDatabase migrates the database to the latest version and opens it
func openDatabase(cfg *config.TomlConfig) (*db.DB, error) {
	opts := databaseOptions(cfg)

	log.WithFields(log.Fields{
		"driver": opts.Driver,
		"path":   opts.Path,
		"host":   opts.Host,
	}).Debug("Database configured")

	if err := db.Migrate(opts); err != nil {
		return nil, err
	}
	return db.Open(opts)
}

func newProvider(ctx *cli.Context, cfg *config.TomlConfig) (provider.Provider, error) {
	var p provider.Provider
	switch cfg.Provider.Kind {
	case provider.KindYouTube:
		yt, err := provider.NewYouTube(ctx.Context, cfg.Provider.APIKey)
		if err != nil {
			return nil, err
		}
		p = yt
	default:
		p = provider.NewYtDlp(cfg.Provider.Timeout())
	}
	return provider.NewLimited(p, cfg.Provider.RatePerSecond), nil
}

func newCacheStore(cfg *config.TomlConfig, database *db.DB) (cache.Store, error) {
	if cfg.Feed.Cache == "memory" {
		return cache.NewMemory(cfg.Feed.MemoryCacheSize)
	}
	return database, nil
}

func newFetcher(ctx *cli.Context, cfg *config.TomlConfig, database *db.DB) (*feeds.Fetcher, error) {
	p, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create search provider: %w", err)
	}

	store, err := newCacheStore(cfg, database)
	if err != nil {
		return nil, fmt.Errorf("could not create search cache: %w", err)
	}

	return feeds.NewFetcher(p, store, cfg.Feed.CacheMaxAge()), nil
}

func newAssembler(cfg *config.TomlConfig, database *db.DB, fetcher *feeds.Fetcher) *feeds.Assembler {
	var rnd *rand.Rand
	if cfg.Feed.Seed != 0 {
		rnd = rand.New(rand.NewPCG(cfg.Feed.Seed, cfg.Feed.Seed))
	}
	return feeds.NewAssembler(database, fetcher, cfg.Feed.PerKeyword, rnd)
}
