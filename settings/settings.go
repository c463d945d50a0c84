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

// Package settings loads the dwarfcheck configuration file.
//
// # Usage
//
// Create a file `.dwarfcheck.yaml`:
//
//	---
//	mode: vars
//	tabulate: "0.0,0:10"
//	ignore: artificial,inlined
//	dump: no_coverage
//	jobs: 4
//
// and run:
//
//	dwarfcheck --config .dwarfcheck.yaml prog
//
// Command line flags override settings from the file.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"fillmore-labs.com/dwarfcheck/checker"
	"fillmore-labs.com/dwarfcheck/internal/config"
)

// Settings represents the configuration options of a [checker.Checker].
type Settings struct {
	// Mode selects the check to run, "vars" or "lines".
	Mode *config.Mode `yaml:"mode,omitempty"`
	// Tabulate is the threshold rule string of the coverage table.
	Tabulate *string `yaml:"tabulate,omitempty"`
	// Ignore lists the categories of variables to skip.
	Ignore *string `yaml:"ignore,omitempty"`
	// Dump lists the categories of variables to print.
	Dump *string `yaml:"dump,omitempty"`
	// Jobs sets the number of files checked in parallel.
	Jobs *int `yaml:"jobs,omitempty"`
}

// Load reads the settings from the named YAML file.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	s, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Decode reads the settings from a YAML document. Unknown keys are rejected.
// An empty document yields empty settings.
func Decode(r io.Reader) (Settings, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Settings
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, err
	}

	return s, nil
}

// Options converts [Settings] into a list of [checker.Option].
// It processes settings and applies them only when explicitly set (non-nil).
func (s Settings) Options() []checker.Option {
	var opts []checker.Option

	opts = appendOption(opts, s.Mode, checker.WithMode)
	opts = appendOption(opts, s.Tabulate, checker.WithTabulate)
	opts = appendOption(opts, s.Ignore, checker.WithIgnore)
	opts = appendOption(opts, s.Dump, checker.WithDump)
	opts = appendOption(opts, s.Jobs, checker.WithJobs)

	return opts
}

// appendOption appends a non-nil setting to a [checker.Option] list.
func appendOption[T any](opts []checker.Option, value *T, constructor func(T) checker.Option) []checker.Option {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}
