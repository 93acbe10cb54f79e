/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func feedCmd() *cli.Command {
	flags := append(databaseFlags(), feedFlags()...)

	return &cli.Command{
		Name:  "feed",
		Usage: "Print the assembled feed",
		Description: `Assembles the feed for the saved keywords and prints it to the
command line as a single JSON document. Use a tool like jq to process the output.

Prints all other log messages to stderr.`,
		Flags: flags,
		Action: func(ctx *cli.Context) error {
			log.SetOutput(os.Stderr)

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

			feed, err := newAssembler(cfg, database, fetcher).Assemble(ctx.Context)
			if err != nil {
				return err
			}

			feedJson, err := json.Marshal(feed)
			if err != nil {
				return err
			}
			fmt.Println(string(feedJson))
			return nil
		},
	}
}
