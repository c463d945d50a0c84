// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
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

package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"runtime/trace"

	"golang.org/x/sync/errgroup"

	"fillmore-labs.com/dwarfcheck/internal/check"
	"fillmore-labs.com/dwarfcheck/internal/config"
	"fillmore-labs.com/dwarfcheck/internal/die"
	"fillmore-labs.com/dwarfcheck/internal/dwarfdata"
	"fillmore-labs.com/dwarfcheck/internal/tabrule"
)

var (
	// ErrInputUnavailable is returned for files that cannot be opened or read.
	ErrInputUnavailable = errors.New("cannot check file")

	// ErrInvalidJobs is returned for a job count below one.
	ErrInvalidJobs = errors.New("invalid number of jobs")
)

// opener reads the units of the named file.
type opener func(name string, logger *slog.Logger) (iter.Seq2[*die.Entry, error], io.Closer, error)

// Checker runs the configured check over ELF files.
type Checker struct {
	// modes holds the requested checks, line checks take precedence.
	modes config.Modes

	// tabulate, ignore and dump are the unparsed rule strings.
	tabulate string
	ignore   string
	dump     string

	// jobs is the maximum number of files checked concurrently.
	jobs int

	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer

	open opener
}

// New creates a new [Checker].
// It allows for programmatic configuration using [Option]; for command-line
// use, bind the configuration to flags with [Checker.RegisterFlags].
func New(opts ...Option) (*Checker, error) {
	c := &Checker{
		modes:  config.DefaultModes(),
		jobs:   1,
		logger: slog.Default(),
		stdout: os.Stdout,
		stderr: os.Stderr,
		open:   openFile,
	}

	Options(opts).apply(c)

	if c.jobs < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidJobs, c.jobs)
	}

	c.logger.LogAttrs(context.Background(), slog.LevelDebug, "Created checker", Options(opts).LogAttr())

	return c, nil
}

// Run checks all files and writes the reports in argument order.
//
// Files that cannot be checked are reported on the error stream, the run
// continues with the next file. The result is the exit status: 0 when every
// file was checked, 1 otherwise or when no file was given.
func (c *Checker) Run(ctx context.Context, files []string) int {
	if len(files) == 0 {
		_, _ = io.WriteString(c.stderr, "Missing file name.\n")

		return 1
	}

	if c.jobs < 1 {
		_, _ = fmt.Fprintf(c.stderr, "error: %v: %d.\n", ErrInvalidJobs, c.jobs)

		return 1
	}

	ctx, task := trace.NewTask(ctx, "Checker")
	defer task.End()

	opts := c.options(ctx)

	results := make([]result, len(files))
	for i := range results {
		results[i].done = make(chan struct{})
	}

	go c.schedule(ctx, files, opts, results)

	status := 0

	for i, name := range files {
		r := &results[i]
		<-r.done

		if len(files) > 1 {
			_, _ = fmt.Fprintf(c.stdout, "\n%s:\n", name)
		}

		_, _ = r.out.WriteTo(c.stdout)

		if r.err != nil {
			status = 1

			_, _ = fmt.Fprintf(c.stderr, "error: %v.\n", r.err)
		}
	}

	return status
}

// result is the buffered report of one file.
type result struct {
	out  bytes.Buffer
	err  error
	done chan struct{}
}

// schedule checks the files with at most c.jobs running concurrently.
func (c *Checker) schedule(ctx context.Context, files []string, opts *check.Options, results []result) {
	var g errgroup.Group
	g.SetLimit(c.jobs)

	for i, name := range files {
		r := &results[i]

		g.Go(func() error {
			defer close(r.done)

			r.err = c.checkFile(ctx, name, opts, &r.out)

			return nil
		})
	}

	_ = g.Wait()
}

// checkFile runs the check over a single file.
func (c *Checker) checkFile(ctx context.Context, name string, opts *check.Options, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	region := trace.StartRegion(ctx, "Open")
	units, closer, err := c.open(name, c.logger)
	region.End()

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInputUnavailable, err)
	}

	defer func() { _ = closer.Close() }()

	sum, err := opts.Run(ctx, w, units)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}

		return fmt.Errorf("%w: %s: %w", ErrInputUnavailable, name, err)
	}

	c.logger.LogAttrs(ctx, slog.LevelDebug, "Checked file",
		slog.String("file", name),
		slog.Int("variables", sum.Variables),
		slog.Int("errors", sum.Errors),
		slog.Int("problems", sum.Problems),
	)

	return nil
}

// options parses the rule strings, logging grammar warnings.
func (c *Checker) options(ctx context.Context) *check.Options {
	o := check.DefaultOptions()
	o.Mode = config.Selected(c.modes)

	if c.tabulate != "" {
		chain, warnings := tabrule.Parse(c.tabulate)
		c.warn(ctx, "tabulate", warnings)

		o.Tabulate = chain
	}

	var warnings []error

	o.Ignore, warnings = config.ParseCategories(c.ignore)
	c.warn(ctx, "ignore", warnings)

	o.Dump, warnings = config.ParseCategories(c.dump)
	c.warn(ctx, "dump", warnings)

	return o
}

func (c *Checker) warn(ctx context.Context, option string, warnings []error) {
	for _, w := range warnings {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "Ignoring rule item",
			slog.String("option", option),
			slog.Any("error", w),
		)
	}
}

// openFile reads the units of an ELF file.
func openFile(name string, logger *slog.Logger) (iter.Seq2[*die.Entry, error], io.Closer, error) {
	f, err := dwarfdata.Open(name)
	if err != nil {
		return nil, nil, err
	}

	f.Logger = logger.With(slog.String("file", name))

	return f.Units(), f, nil
}
