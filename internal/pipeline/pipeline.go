// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline runs Load, Validate, Assign and Write over one workbook.
package pipeline

import (
	"fmt"
	"math/rand/v2"

	"github.com/someonegg/quotassign"
	"github.com/someonegg/quotassign/internal/config"
	"github.com/someonegg/quotassign/internal/logger"
	"github.com/someonegg/quotassign/workbook"
)

type Options struct {
	Sheets        config.SheetsConfig
	Seed          *int64
	GlobalShuffle bool

	// DryRun stops before the workbook is touched.
	DryRun bool
}

func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Sheets:        cfg.Sheets,
		Seed:          cfg.Seed,
		GlobalShuffle: cfg.GlobalShuffle,
	}
}

type Result struct {
	Sheet    string
	Seed     int64
	Assigned []quotassign.AssignedCustomer
	Counts   map[string]map[string]int // type -> group -> customers
}

type Pipeline struct {
	log      *logger.Logger
	opts     Options
	assigner quotassign.Assigner
}

func New(log *logger.Logger, opts Options) *Pipeline {
	return &Pipeline{
		log:      log.With("component", "pipeline"),
		opts:     opts,
		assigner: quotassign.ShuffleAssigner(opts.GlobalShuffle),
	}
}

// Run assigns the customers of an open workbook and writes the result sheet
// into it. Nothing is written unless validation and assignment succeed.
func (p *Pipeline) Run(wb *workbook.Workbook) (*Result, error) {
	s := p.opts.Sheets

	tables, err := wb.Tables(s.Customers, s.Groups, s.Quotas)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		p.log.Debug("sheet loaded", "sheet", t.Name, "columns", len(t.Columns), "rows", len(t.Rows))
	}

	in, err := quotassign.Validate(tables[0], tables[1], tables[2])
	if err != nil {
		return nil, err
	}
	p.log.Info("input validated",
		"customers", len(in.Customers), "groups", len(in.Groups), "quotas", len(in.Quotas))

	// A drawn seed is reported so that the run can be reproduced.
	var seed int64
	if p.opts.Seed != nil {
		seed = *p.opts.Seed
	} else {
		seed = rand.Int64()
	}

	assigned, err := p.assigner.Assign(in, quotassign.NewRand(&seed))
	if err != nil {
		return nil, err
	}
	res := &Result{
		Sheet:    s.Output,
		Seed:     seed,
		Assigned: assigned,
		Counts:   quotassign.Tally(assigned),
	}
	p.log.Info("customers assigned", "customers", len(assigned), "seed", seed)

	if p.opts.DryRun {
		return res, nil
	}

	if err := wb.WriteAssigned(s.Output, in.Columns, assigned); err != nil {
		return nil, fmt.Errorf("write sheet '%s' failed: %w", s.Output, err)
	}
	p.log.Info("sheet written", "sheet", s.Output, "rows", len(assigned))
	return res, nil
}

// RunFile runs over the artifact at path and saves it in place.
func (p *Pipeline) RunFile(path string) (*Result, error) {
	wb, err := workbook.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	res, err := p.Run(wb)
	if err != nil {
		return nil, err
	}
	if p.opts.DryRun {
		return res, nil
	}
	if err := wb.Save(); err != nil {
		return nil, fmt.Errorf("save workbook failed: %w", err)
	}
	return res, nil
}
