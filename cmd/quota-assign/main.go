// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "quota-assign",
		Usage: "Assign customers to groups under per-type quotas",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "specify the yaml config file",
			},
		},
		Commands: []*cli.Command{
			assignCmd,
			serveCmd,
		},
	}
}

var assignCmd = &cli.Command{
	Name:    "assign",
	Usage:   "Assign the customers of a workbook and add the result sheet to it",
	Aliases: []string{"a"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "input",
			Aliases:  []string{"i"},
			Required: true,
			Usage:    "specify the input workbook (.xlsx), updated in place",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "specify the random seed (random when omitted)",
		},
		&cli.StringFlag{
			Name:  "sheet",
			Usage: "specify the output sheet name (default: Assigned)",
		},
		&cli.BoolFlag{
			Name:  "no-shuffle",
			Usage: "keep the output grouped by customer type",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "validate and assign without writing the workbook",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "print the per-type group counts",
		},
	},
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		if ctx.IsSet("seed") {
			seed := ctx.Int64("seed")
			cfg.Seed = &seed
		}
		if sheet := ctx.String("sheet"); sheet != "" {
			cfg.Sheets.Output = sheet
		}
		if ctx.Bool("no-shuffle") {
			cfg.GlobalShuffle = false
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return doAssign(ctx.App.Writer, cfg, ctx.String("input"), ctx.Bool("dry-run"), ctx.Bool("verbose"))
	},
}

var serveCmd = &cli.Command{
	Name:    "serve",
	Usage:   "Serve the upload endpoint",
	Aliases: []string{"s"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "addr",
			Usage: "specify the listen address (default: :8080)",
		},
	},
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		if addr := ctx.String("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return doServe(ctx.Context, cfg)
	},
}
