// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the quota-assign settings from yaml and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/someonegg/quotassign"
)

type Config struct {
	Sheets SheetsConfig `yaml:"sheets"`

	// Seed makes a run reproducible. Nil draws a fresh seed per run.
	Seed *int64 `yaml:"seed"`

	// GlobalShuffle interleaves customer types in the output order.
	GlobalShuffle bool `yaml:"global_shuffle"`

	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

type SheetsConfig struct {
	Customers string `yaml:"customers"`
	Groups    string `yaml:"groups"`
	Quotas    string `yaml:"quotas"`
	Output    string `yaml:"output"`
}

type LogConfig struct {
	Mode string `yaml:"mode"` // dev, prod

	// Level overrides the per-command default: warn for assign, info for serve.
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

func DefaultConfig() *Config {
	return &Config{
		Sheets: SheetsConfig{
			Customers: quotassign.SheetCustomers,
			Groups:    quotassign.SheetGroups,
			Quotas:    quotassign.SheetQuotas,
			Output:    quotassign.SheetAssigned,
		},
		GlobalShuffle: true,
		Log: LogConfig{
			Mode: "dev",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 32,
		},
	}
}

// Load reads the yaml file at path over the defaults and then applies
// environment overrides. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config failed: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := strings.TrimSpace(os.Getenv("QUOTASSIGN_SEED")); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid QUOTASSIGN_SEED: %w", err)
		}
		c.Seed = &seed
	}
	if v := strings.TrimSpace(os.Getenv("QUOTASSIGN_OUTPUT_SHEET")); v != "" {
		c.Sheets.Output = v
	}
	if v := strings.TrimSpace(os.Getenv("QUOTASSIGN_LOG_MODE")); v != "" {
		c.Log.Mode = v
	}
	if v := strings.TrimSpace(os.Getenv("QUOTASSIGN_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("QUOTASSIGN_ADDR")); v != "" {
		c.Server.Addr = v
	}
	return nil
}

func (c *Config) Validate() error {
	s := c.Sheets
	if s.Customers == "" || s.Groups == "" || s.Quotas == "" || s.Output == "" {
		return errors.New("sheet names must not be empty")
	}
	for _, in := range []string{s.Customers, s.Groups, s.Quotas} {
		if in == s.Output {
			return fmt.Errorf("output sheet '%s' would overwrite an input sheet", s.Output)
		}
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.New("server.max_upload_mb must be positive")
	}
	return nil
}
