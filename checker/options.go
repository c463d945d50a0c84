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
	"io"
	"log/slog"

	"fillmore-labs.com/dwarfcheck/internal/config"
)

// Option configures specific behavior of a [New] checker.
type Option interface {
	apply(c *Checker)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(c *Checker) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(c)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithMode is an [Option] to select the check to run.
func WithMode(mode config.Mode) Option { return modeOption{mode: mode} }

type modeOption struct{ mode config.Mode }

func (o modeOption) apply(c *Checker) {
	c.modes = config.NewBitMask(o.mode)
}

func (o modeOption) LogAttr() slog.Attr {
	return slog.String("mode", o.mode.String())
}

// WithTabulate is an [Option] to print a coverage table driven by the given rule string.
// An empty string disables the table.
func WithTabulate(rules string) Option { return tabulateOption{rules: rules} }

type tabulateOption struct{ rules string }

func (o tabulateOption) apply(c *Checker) {
	c.tabulate = o.rules
}

func (o tabulateOption) LogAttr() slog.Attr {
	return slog.String("tabulate", o.rules)
}

// WithIgnore is an [Option] to skip variables of the given comma separated categories.
func WithIgnore(categories string) Option { return ignoreOption{categories: categories} }

type ignoreOption struct{ categories string }

func (o ignoreOption) apply(c *Checker) {
	c.ignore = o.categories
}

func (o ignoreOption) LogAttr() slog.Attr {
	return slog.String("ignore", o.categories)
}

// WithDump is an [Option] to print only variables of the given comma separated categories.
func WithDump(categories string) Option { return dumpOption{categories: categories} }

type dumpOption struct{ categories string }

func (o dumpOption) apply(c *Checker) {
	c.dump = o.categories
}

func (o dumpOption) LogAttr() slog.Attr {
	return slog.String("dump", o.categories)
}

// WithJobs is an [Option] to configure the number of files checked in parallel.
func WithJobs(jobs int) Option { return jobsOption{jobs: jobs} }

type jobsOption struct{ jobs int }

func (o jobsOption) apply(c *Checker) {
	c.jobs = o.jobs
}

func (o jobsOption) LogAttr() slog.Attr {
	return slog.Int("jobs", o.jobs)
}

// WithLogger is an [Option] to configure the destination of diagnostics about the run.
func WithLogger(logger *slog.Logger) Option { return loggerOption{logger: logger} }

type loggerOption struct{ logger *slog.Logger }

func (o loggerOption) apply(c *Checker) {
	if o.logger != nil {
		c.logger = o.logger
	}
}

func (o loggerOption) LogAttr() slog.Attr {
	return slog.Bool("logger", o.logger != nil)
}

// WithOutput is an [Option] to configure the report and error streams.
func WithOutput(stdout, stderr io.Writer) Option { return outputOption{stdout: stdout, stderr: stderr} }

type outputOption struct{ stdout, stderr io.Writer }

func (o outputOption) apply(c *Checker) {
	if o.stdout != nil {
		c.stdout = o.stdout
	}

	if o.stderr != nil {
		c.stderr = o.stderr
	}
}

func (o outputOption) LogAttr() slog.Attr {
	return slog.Bool("output", o.stdout != nil || o.stderr != nil)
}
