/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"customtube/db"

	"github.com/cqroot/prompt"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
)

func keywordsCmd() *cli.Command {
	return &cli.Command{
		Name:  "keywords",
		Usage: "Manage the saved search keywords",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved keywords, newest first",
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

					keywords, err := database.ListKeywords(ctx.Context)
					if err != nil {
						return err
					}

					for _, keyword := range lo.Reverse(keywords) {
						fmt.Println(keyword.Keyword)
					}
					return nil
				},
			},
			{
				Name:      "add",
				Usage:     "Save a keyword",
				ArgsUsage: "<keyword>",
				Flags:     databaseFlags(),
				Action: func(ctx *cli.Context) error {
					keyword := strings.Join(ctx.Args().Slice(), " ")
					if strings.TrimSpace(keyword) == "" {
						return errors.New("no keyword provided")
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

					err = database.AddKeyword(ctx.Context, keyword)
					if errors.Is(err, db.ErrDuplicate) {
						return fmt.Errorf("keyword %q already exists", keyword)
					}
					if err != nil {
						return err
					}

					fmt.Println("Keyword added:", keyword)
					return nil
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a saved keyword",
				ArgsUsage: "<keyword>",
				Flags: append(databaseFlags(), &cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Usage:   "Remove without asking for confirmation",
				}),
				Action: func(ctx *cli.Context) error {
					keyword := strings.Join(ctx.Args().Slice(), " ")
					if strings.TrimSpace(keyword) == "" {
						return errors.New("no keyword provided")
					}

					if !ctx.Bool("yes") {
						confirmation, err := prompt.New().Ask(fmt.Sprintf("Type %q to remove it:", keyword)).Input("")
						if err != nil {
							return err
						}
						if confirmation != keyword {
							return errors.New("confirmation did not match, keyword kept")
						}
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

					err = database.DeleteKeyword(ctx.Context, keyword)
					if errors.Is(err, db.ErrNotFound) {
						return fmt.Errorf("keyword %q not found", keyword)
					}
					if err != nil {
						return err
					}

					fmt.Println("Keyword deleted:", keyword)
					return nil
				},
			},
		},
	}
}
