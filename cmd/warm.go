/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"customtube/feeds"

	"github.com/urfave/cli/v2"
)

func warmCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Number of keywords searched in parallel",
			EnvVars: []string{"CUSTOMTUBE_WORKERS"},
			Value:   4,
		},
	}
	flags = append(flags, databaseFlags()...)
	flags = append(flags, feedFlags()...)

	return &cli.Command{
		Name:  "warm",
		Usage: "Pre-fetch search results for every keyword",
		Description: `Searches every saved keyword that has no fresh cached result and
stores the result in the search cache, so the next feed request is served from
the cache. Can be run as a cron job.`,
		Flags: flags,
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			database, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			fetcher, err := newFetcher(ctx, cfg, database)
			if err != nil {
				return err
			}

			keywords, err := database.ListKeywords(ctx.Context)
			if err != nil {
				return err
			}

			names := feeds.KeywordNames(keywords)
			results := feeds.Warm(ctx.Context, fetcher, names, cfg.Feed.PerKeyword, ctx.Int("workers"))

			for _, name := range names {
				if count, ok := results[name]; ok {
					fmt.Printf("%s: %d videos\n", name, count)
				}
			}
			return nil
		},
	}
}
