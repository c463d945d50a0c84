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
	"debug/dwarf"

	"fillmore-labs.com/dwarfcheck/internal/config"
	"fillmore-labs.com/dwarfcheck/internal/coverage"
	"fillmore-labs.com/dwarfcheck/internal/die"
)

// DW_AT_inline values.
const (
	inlInlined         = 1
	inlDeclaredInlined = 3
)

// staticCategories returns the categories known before the coverage is computed.
func staticCategories(s die.Stack, loc die.Location) config.CategoryMask {
	var m config.CategoryMask

	e := s.Current()

	if f := e.Integrate(dwarf.AttrArtificial); f != nil {
		artificial, _ := f.Val.(bool)
		m.Set(config.Artificial, artificial)
	}

	if fn := s.Enclosing(dwarf.TagSubprogram); fn != nil && inlined(fn) {
		m.Enable(config.Inlined)
	}

	if s.Enclosing(dwarf.TagInlinedSubroutine) != nil {
		m.Enable(config.InlinedSubroutine)
	}

	if x, ok := loc.(die.Expr); ok && x.Expr.SingleAddress() {
		m.Enable(config.SingleAddr)
	}

	return m
}

// inlined reports whether the subprogram is declared inline or inlined.
func inlined(fn *die.Entry) bool {
	f := fn.Integrate(dwarf.AttrInline)
	if f == nil {
		return false
	}

	v, _ := f.Val.(int64)

	return v == inlInlined || v == inlDeclaredInlined
}

// derivedCategories returns the categories following from the coverage result.
func derivedCategories(r coverage.Result) config.CategoryMask {
	var m config.CategoryMask

	m.Set(config.NoCoverage, r.Coverage == coverage.ZeroCoverage)
	m.Set(config.Mutable, r.Storage.Mutable)
	m.Set(config.Immutable, r.Storage.Immutable)

	return m
}
