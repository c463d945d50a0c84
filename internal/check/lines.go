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

	"fillmore-labs.com/dwarfcheck/internal/die"
)

const (
	linesBanner  = "****CHECKING DEBUG LINES****\n"
	linesSuccess = "\n\n All declare lines and files are set properly! \n\n"
)

// checkLines reports variables, parameters and functions without declaration line or file.
func checkLines(ctx context.Context, w io.Writer, units iter.Seq2[*die.Entry, error]) (Summary, error) {
	defer trace.StartRegion(ctx, "Lines").End()

	_, _ = io.WriteString(w, linesBanner)

	var sum Summary

	for s, err := range entries(ctx, units) {
		if err != nil {
			return sum, err
		}

		e := s.Current()

		var kind string

		switch e.Tag {
		case dwarf.TagVariable, dwarf.TagFormalParameter:
			kind = "Variable"

		case dwarf.TagSubprogram:
			kind = "Function"

		default:
			continue
		}

		if e.Integrate(dwarf.AttrDeclLine) != nil && e.Integrate(dwarf.AttrDeclFile) != nil {
			continue
		}

		sum.Problems++

		name := e.Name()
		if name == "" || reserved(name) {
			continue
		}

		_, _ = fmt.Fprintf(w, "%s <%s> does not have line or file set!!!\n", kind, name)
	}

	if sum.Problems == 0 {
		_, _ = io.WriteString(w, linesSuccess)
	}

	return sum, nil
}
