// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package main

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bedecarroll/unet-sub001/internal/config"
	"github.com/bedecarroll/unet-sub001/internal/logging"
	"github.com/bedecarroll/unet-sub001/internal/xdg"
)

// Global flags available to every subcommand.
var (
	configFile string
	logFormat  string
	logLevel   string
)

// loadedConfig is populated by the root command's PersistentPreRunE and
// read by subcommands that want a config-supplied default (e.g. evaluate
// falling back to cfg.RulePaths when --rules is omitted).
var loadedConfig config.Config

// resolvedConfigPath is the config path actually loaded: either --config
// or the XDG default, set by loadConfig.
var resolvedConfigPath string

// NewRootCmd builds the root command for ruleenginectl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ruleenginectl",
		Short: "Parse and evaluate network-policy rule files",
		Long: `ruleenginectl drives the policy rule engine from the command line:
parsing rule text, evaluating it against a device record, and generating
or validating the JSON Schemas for the documents that cross that boundary.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			loadedConfig = cfg
			logging.SetDefault("ruleenginectl", version, cfg.LogFormat, cfg.LogLevel)
			slog.Debug("configuration loaded", "config_file", resolvedConfigPath, "commit", commit)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML); defaults to $XDG_CONFIG_HOME/ruleenginectl/config.yaml")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json or text (overrides config file)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config file)")

	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newEvaluateCmd())
	cmd.AddCommand(newComposeCmd())
	cmd.AddCommand(newSchemaCmd())

	return cmd
}

// loadConfig layers the config file under this invocation's flags. If
// --config was not given, it falls back to the XDG config directory's
// config.yaml, matching the teacher's empty-path-means-XDG-default
// convention (see internal/access/policy/audit.NewLogger's WAL path); a
// missing file at that default path is not an error, since config.Load
// tolerates os.IsNotExist.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := configFile
	if path == "" {
		path = filepath.Join(xdg.ConfigDir(), "config.yaml")
	}
	resolvedConfigPath = path

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}
