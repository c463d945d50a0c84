// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
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
//
// SPDX-License-Identifier: Apache-2.0

// Command dwarfcheck checks the quality of the DWARF debugging information in ELF files.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"fillmore-labs.com/dwarfcheck/checker"
	"fillmore-labs.com/dwarfcheck/settings"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(status)
}

// run executes the command line and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	status := 1
	cmd := rootCommand(logger, level, stdout, stderr, &status)

	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}

	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v.\n", err)

		return 1
	}

	return status
}

// Mode flags registered by [checker.Checker.RegisterFlags].
const (
	flagCheckLines = "check-debug-lines"
	flagCheckVars  = "check-debug-vars"
)

// rootCommand returns the dwarfcheck command. The exit status of the check is stored in status.
func rootCommand(logger *slog.Logger, level *slog.LevelVar, stdout, stderr io.Writer, status *int) *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	output := checker.Options{checker.WithLogger(logger), checker.WithOutput(stdout, stderr)}

	c, err := checker.New(output)
	if err != nil {
		panic(err)
	}

	goFlags := flag.NewFlagSet("dwarfcheck", flag.ContinueOnError)
	c.RegisterFlags(goFlags)

	cmd := &cobra.Command{
		Use:           "dwarfcheck [flags] file...",
		Short:         "Check the DWARF debugging information of ELF files",
		Long:          "dwarfcheck reports missing declaration lines and the location coverage of variables.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, files []string) error {
			if verbose {
				level.Set(slog.LevelDebug)
			}

			if configPath != "" {
				s, err := settings.Load(configPath)
				if err != nil {
					return err
				}

				if c, err = configured(cmd.Flags(), s, output); err != nil {
					return err
				}
			}

			*status = c.Run(cmd.Context(), files)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.AddGoFlagSet(goFlags)
	flags.StringVar(&configPath, "config", "", "read settings from the YAML `file`")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug messages")

	return cmd
}

// configured creates a checker from the settings, with the flags given on the command line taking precedence.
// A mode flag replaces the mode of the settings.
func configured(changed *pflag.FlagSet, s settings.Settings, output checker.Options) (*checker.Checker, error) {
	if changed.Changed(flagCheckLines) || changed.Changed(flagCheckVars) {
		s.Mode = nil
	}

	c, err := checker.New(append(s.Options(), output)...)
	if err != nil {
		return nil, err
	}

	goFlags := flag.NewFlagSet("dwarfcheck", flag.ContinueOnError)
	c.RegisterFlags(goFlags)

	changed.Visit(func(f *pflag.Flag) {
		if goFlags.Lookup(f.Name) == nil {
			return
		}

		if setErr := goFlags.Set(f.Name, f.Value.String()); setErr != nil && err == nil {
			err = setErr
		}
	})

	if err != nil {
		return nil, err
	}

	return c, nil
}
