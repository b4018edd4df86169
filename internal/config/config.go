// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

// Package config loads ruleenginectl's configuration: defaults, overlaid
// with an optional YAML config file, overlaid with command-line flags.
// None of this touches the policy core, which takes its inputs as plain
// Go values and knows nothing about config files or flags.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds ruleenginectl's settings. Every field has a default, set in
// Defaults(), so a caller that supplies neither a config file nor flags
// still gets a usable Config. Output is loaded but no subcommand reads it:
// evaluate and compose always print JSON.
type Config struct {
	RulePaths []string `koanf:"rule_paths"`
	LogFormat string   `koanf:"log_format"`
	LogLevel  string   `koanf:"log_level"`
	Output    string   `koanf:"output"`
}

// Defaults returns the built-in configuration, before any file or flag
// overlay is applied.
func Defaults() Config {
	return Config{
		RulePaths: nil,
		LogFormat: "json",
		LogLevel:  "info",
		Output:    "json",
	}
}

// Load builds a Config from defaults, an optional YAML file at path
// (skipped entirely if path is empty or the file doesn't exist), and flags
// (which always take precedence over the file). flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	defaultsMap := map[string]any{
		"rule_paths": defaults.RulePaths,
		"log_format": defaults.LogFormat,
		"log_level":  defaults.LogLevel,
		"output":     defaults.Output,
	}
	if err := k.Load(confmap.Provider(defaultsMap, "."), nil); err != nil {
		return Config{}, oops.In("config").Hint("failed to load defaults").Wrap(err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, oops.In("config").With("path", path).Hint("failed to load config file").Wrap(err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, oops.In("config").With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.In("config").Hint("failed to load flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.In("config").Hint("failed to unmarshal configuration").Wrap(err)
	}
	return cfg, nil
}
