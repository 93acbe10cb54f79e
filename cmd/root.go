/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "customtube",
		Usage: "A YouTube feed built from your own search keywords",
		Description: `A video feed assembled from YouTube searches for a list of saved
		keywords, with videos from banned channels filtered out.

		Search results are cached per keyword in the database so repeated feed
		requests do not hit YouTube again. The feed is served as JSON over an
		HTTP API together with a small web UI.

		Flags can generally be set via environment variables, e.g.:

		--database => CUSTOMTUBE_DATABASE=customtube.db
		--port => CUSTOMTUBE_PORT=8080

		Settings can also be read from a TOML file passed with --config.
		Flags win over the file, the file wins over the defaults.
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				EnvVars: []string{"CUSTOMTUBE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (trace, debug, info, warn, error)",
				EnvVars: []string{"CUSTOMTUBE_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "log-json",
				Usage:   "Write logs as JSON",
				EnvVars: []string{"CUSTOMTUBE_LOG_JSON"},
			},
		},
		Before: func(ctx *cli.Context) error {
			level, err := log.ParseLevel(ctx.String("log-level"))
			if err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			log.SetLevel(level)

			if ctx.Bool("log-json") {
				log.SetFormatter(&log.JSONFormatter{})
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			rollbackCmd(),
			tidyCmd(),
			warmCmd(),
			feedCmd(),
			keywordsCmd(),
			banCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
