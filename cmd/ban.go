/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"customtube/db"

	"github.com/urfave/cli/v2"
)

func banCmd() *cli.Command {
	return &cli.Command{
		Name:  "ban",
		Usage: "Manage banned channels",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Hide every video uploaded by a channel",
				ArgsUsage: "<channel name>",
				Description: `Bans a channel by its exact, case sensitive name as shown
as the uploader of a video.`,
				Flags: databaseFlags(),
				Action: func(ctx *cli.Context) error {
					channel := strings.Join(ctx.Args().Slice(), " ")
					if strings.TrimSpace(channel) == "" {
						return errors.New("no channel name provided")
					}

					cfg, err := loadConfig(ctx)
					if err != nil {
						return err
					}

					database, err := openDatabase(cfg)
					if err != nil {
						return err
					}
					defer database.Close()

					err = database.BanChannel(ctx.Context, channel)
					if errors.Is(err, db.ErrDuplicate) {
						fmt.Println("Channel already banned")
						return nil
					}
					if err != nil {
						return err
					}

					fmt.Println("Banned channel:", channel)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List banned channels",
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

					channels, err := database.ListBannedChannels(ctx.Context)
					if err != nil {
						return err
					}

					for _, channel := range channels {
						fmt.Println(channel.ChannelName)
					}
					return nil
				},
			},
		},
	}
}
