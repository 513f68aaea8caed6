// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/protobridge/cmd/protobridge/commands"
	"github.com/walteh/protobridge/cmd/protobridge/opts"
	"github.com/walteh/protobridge/pkg/config"
	"github.com/walteh/protobridge/pkg/log"
	"github.com/walteh/protobridge/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// newRootCmd creates the root command. Register is the root command itself,
// inspect is its only subcommand.
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *opts.RootOpts) {
	o := &opts.RootOpts{
		Console: log.New(stdout, zerolog.Nop()),
	}

	cmd := commands.NewRegisterCmd(o)
	cmd.Version = GetVersionInfo().Version
	cmd.SetVersionTemplate(FormatVersion())
	cmd.SilenceErrors = true
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addRootFlags(cmd, o)

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		ctx := setupLogging(cmd.Context(), stderr, o.Debug)

		cfg, err := loadConfig(ctx, cmd, o)
		if err != nil {
			return err
		}

		o.Config = cfg
		o.Files = status.New("")
		o.Console = log.New(stdout, *zerolog.Ctx(ctx))

		cmd.SetContext(log.NewContext(ctx, o.Console))
		return nil
	}

	cmd.AddCommand(commands.NewInspectCmd(o))

	return cmd, o
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", config.DefaultFile, "config file path (yaml, json or hcl)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// loadConfig loads the config file and applies the flags that were set on top of it.
// The file is optional unless --config was given.
func loadConfig(ctx context.Context, cmd *cobra.Command, o *opts.RootOpts) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(ctx, o.ConfigFile, changed(cmd, "config"))
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	if changed(cmd, "union") {
		cfg.Union = o.Union
	}
	if changed(cmd, "import-style") {
		cfg.ImportStyle = o.ImportStyle
	}
	if changed(cmd, "import-prefix") {
		cfg.ImportPrefix = o.ImportPrefix
	}
	if changed(cmd, "allow-unmatched") {
		cfg.AllowUnmatched = o.AllowUnmatched
	}
	if changed(cmd, "allow-duplicate-imports") {
		cfg.AllowDuplicateImports = o.AllowDuplicateImports
	}
	if changed(cmd, "verify-module") {
		cfg.VerifyModule = o.VerifyModule
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating flags: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("effective configuration")
	return cfg, nil
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// setupLogging configures zerolog based on flags
func setupLogging(ctx context.Context, w io.Writer, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger.WithContext(ctx)
}
