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

package check

import (
	"context"
	"debug/dwarf"
	"fmt"
	"io"
	"iter"
	"runtime/trace"

	"fillmore-labs.com/dwarfcheck/internal/coverage"
	"fillmore-labs.com/dwarfcheck/internal/die"
)

const varsBanner = "****CHECKING DEBUG VARIABLES****\n"

// checkVariables reports the location coverage of variables and formal parameters.
func (o *Options) checkVariables(ctx context.Context, w io.Writer, units iter.Seq2[*die.Entry, error]) (Summary, error) {
	_, _ = io.WriteString(w, varsBanner)

	var (
		sum  Summary
		hist Histogram
	)

	region := trace.StartRegion(ctx, "Variables")

	for s, err := range entries(ctx, units) {
		if err != nil {
			region.End()

			return sum, err
		}

		e := s.Current()
		if e.Tag != dwarf.TagVariable && e.Tag != dwarf.TagFormalParameter {
			continue
		}

		// Declarations of external variables; the definition is checked instead.
		if e.Has(dwarf.AttrExternal) && e.Integrate(dwarf.AttrLocation) == nil {
			continue
		}

		name := e.Name()
		if reserved(name) {
			continue
		}

		loc := e.IntegratedLocation()

		categories := staticCategories(s, loc)
		if categories.Intersects(o.Ignore) {
			continue
		}

		// Only location lists need ranges; their absence is reported by [coverage.Compute].
		ranges, _ := s.EnclosingRanges()

		result, err := coverage.Compute(loc, ranges)
		if err != nil {
			sum.Errors++

			writeHeader(w, s, name)
			_, _ = fmt.Fprintf(w, "error: %v: %v.\n", e, err)

			continue
		}

		categories = categories.Union(derivedCategories(result))
		if categories.Intersects(o.Ignore) {
			continue
		}

		sum.Variables++
		hist.Add(result.Coverage)

		if o.Dump.Empty() || categories.Intersects(o.Dump) {
			writeHeader(w, s, name)
			_, _ = fmt.Fprintf(w, "\t-location coverage:%v%%\n", result.Coverage)
		}
	}

	region.End()

	if o.Tabulate != nil {
		defer trace.StartRegion(ctx, "Tabulate").End()

		hist.Tabulate(w, o.Tabulate.Clone())
	}

	return sum, nil
}

// writeHeader writes the line introducing a variable.
func writeHeader(w io.Writer, s die.Stack, name string) {
	var function string
	if fn := s.Enclosing(dwarf.TagSubprogram, dwarf.TagInlinedSubroutine); fn != nil {
		function = fn.Name()
	} else if p := s.Parent(); p != nil {
		function = p.Name()
	}

	_, _ = fmt.Fprintf(w, "Function <%s> variable <%s>:\n", function, name)
}
