/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func tidyCmd() *cli.Command {
	return &cli.Command{
		Name:  "tidy",
		Usage: "Tidy up the search cache",
		Description: `Tidy up the database by removing superseded search results.

		Every keyword keeps its most recent cached search, older rows are deleted.
		This keeps the database size down without changing the feed.`,
		Flags: databaseFlags(),
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

			removed, err := database.Tidy(ctx.Context)
			if err != nil {
				return err
			}

			fmt.Printf("Removed %d cached searches\n", removed)
			return nil
		},
	}
}
