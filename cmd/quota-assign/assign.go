// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"github.com/someonegg/quotassign/internal/config"
	"github.com/someonegg/quotassign/internal/logger"
	"github.com/someonegg/quotassign/internal/pipeline"
	"github.com/someonegg/quotassign/internal/server"
)

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return cfg, nil
}

func doAssign(w io.Writer, cfg *config.Config, input string, dryRun, verbose bool) error {
	// Stage logs stay quiet so that a plain run prints only the result line.
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level, zapcore.WarnLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	opts := pipeline.OptionsFrom(cfg)
	opts.DryRun = dryRun

	res, err := pipeline.New(log.With("input", input), opts).RunFile(input)
	if err != nil {
		return err
	}

	if verbose {
		printCounts(w, res.Counts)
	}
	if dryRun {
		fmt.Fprintf(w, "OK: %d customers assigned (dry run, seed %d), file not modified: %s\n",
			len(res.Assigned), res.Seed, input)
		return nil
	}
	fmt.Fprintf(w, "OK: wrote sheet '%s' to file: %s (%d customers)\n", res.Sheet, input, len(res.Assigned))
	return nil
}

func printCounts(w io.Writer, counts map[string]map[string]int) {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, t := range types {
		groups := make([]string, 0, len(counts[t]))
		for g := range counts[t] {
			groups = append(groups, g)
		}
		sort.Strings(groups)
		for _, g := range groups {
			fmt.Fprintf(w, "%s\t%s\t%d\n", t, g, counts[t][g])
		}
	}
}

func doServe(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level, zapcore.InfoLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(log, cfg).Run(ctx)
}
