/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"customtube/config"
	"customtube/db"
	"customtube/server"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const tidyInterval = 5 * time.Minute

func serveCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Usage:   "Host to bind the HTTP server to",
			EnvVars: []string{"CUSTOMTUBE_HOST"},
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Port to bind the HTTP server to",
			EnvVars: []string{"CUSTOMTUBE_PORT"},
			Value:   5000,
		},
		&cli.StringFlag{
			Name:    "allow-origin",
			Usage:   "Value of the Access-Control-Allow-Origin header",
			EnvVars: []string{"CUSTOMTUBE_ALLOW_ORIGIN"},
			Value:   "*",
		},
	}
	flags = append(flags, databaseFlags()...)
	flags = append(flags, feedFlags()...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the customtube feed",
		Description: `Starts the customtube HTTP server.

Serves the keyword and banned channel API, the assembled feed and the web UI.
Superseded search cache rows are tidied every five minutes while running.`,
		Flags: flags,
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			database, err := waitForDatabase(sigCtx, cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			fetcher, err := newFetcher(ctx, cfg, database)
			if err != nil {
				return err
			}

			app := server.Server(&server.ServerConfig{
				Store:       database,
				Feed:        newAssembler(cfg, database, fetcher),
				AllowOrigin: cfg.Server.AllowOrigin,
			})

			go tidyPeriodically(sigCtx, database)

			go func() {
				<-sigCtx.Done()
				log.Info("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(60 * time.Second); err != nil {
					log.WithFields(log.Fields{
						"error": err,
					}).Error("Error shutting down server")
				}
			}()

			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			log.WithFields(log.Fields{
				"address":  addr,
				"provider": cfg.Provider.Kind,
				"cache":    cfg.Feed.Cache,
			}).Info("Starting server")

			if err := app.Listen(addr); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}

			log.Info("Done!")
			return nil
		},
	}
}

// waitForDatabase retries migrating and opening the database until it is
// reachable, e.g. while a postgres container is still starting
func waitForDatabase(ctx context.Context, cfg *config.TomlConfig) (*db.DB, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 2 * time.Minute

	var database *db.DB
	err := backoff.RetryNotify(func() error {
		opened, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		if err := opened.Ping(ctx); err != nil {
			opened.Close()
			return err
		}
		database = opened
		return nil
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		log.WithFields(log.Fields{
			"error": err,
			"retry": wait,
		}).Warn("Database not ready")
	})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	return database, nil
}

func tidyPeriodically(ctx context.Context, database *db.DB) {
	ticker := time.NewTicker(tidyInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := database.Tidy(ctx)
			if err != nil {
				log.WithFields(log.Fields{
					"error": err,
				}).Error("Error tidying search cache")
				continue
			}
			log.WithFields(log.Fields{
				"removed": removed,
			}).Info("Tidied search cache")
		}
	}
}
