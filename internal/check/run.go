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

// Package check runs the line and variable checks over the entries of one file.
package check

import (
	"context"
	"io"
	"iter"
	"runtime/trace"
	"strings"

	"fillmore-labs.com/dwarfcheck/internal/config"
	"fillmore-labs.com/dwarfcheck/internal/die"
)

// Summary counts the findings of one check.
type Summary struct {
	// Problems is the number of entries without declaration line or file.
	// Unnamed and reserved entries are counted but not printed.
	Problems int

	// Variables is the number of variables with computed coverage.
	Variables int

	// Errors is the number of variables whose coverage could not be computed.
	Errors int
}

// Run executes the configured check over all units and writes the report to w.
//
// Per-entry failures are reported in the output and counted in the summary.
// An error reading the units or a canceled context ends the check.
func (o *Options) Run(ctx context.Context, w io.Writer, units iter.Seq2[*die.Entry, error]) (Summary, error) {
	ctx, task := trace.NewTask(ctx, "DwarfCheck")
	defer task.End()

	trace.Log(ctx, "mode", o.Mode.String())

	if o.Mode == config.CheckLines {
		return checkLines(ctx, w, units)
	}

	return o.checkVariables(ctx, w, units)
}

// entries walks all units, checking for cancellation before each unit.
func entries(ctx context.Context, units iter.Seq2[*die.Entry, error]) iter.Seq2[die.Stack, error] {
	return func(yield func(die.Stack, error) bool) {
		for s, err := range die.WalkUnits(units) {
			if err == nil && len(s) == 1 {
				err = ctx.Err()
			}

			if !yield(s, err) || err != nil {
				return
			}
		}
	}
}

// reserved reports names of the implementation.
func reserved(name string) bool {
	return strings.HasPrefix(name, "__")
}
