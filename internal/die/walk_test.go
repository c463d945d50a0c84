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

package die_test

import (
	"debug/dwarf"
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "fillmore-labs.com/dwarfcheck/internal/die"
)

// tree builds
//
//	0x10 compile_unit
//	  0x20 subprogram
//	    0x30 formal_parameter
//	    0x40 lexical_block
//	      0x50 variable
//	  0x60 variable
func tree() *Entry {
	return &Entry{Offset: 0x10, Tag: dwarf.TagCompileUnit, Ranges: RangeSet{{0x1000, 0x2000}}, Children: []*Entry{
		{Offset: 0x20, Tag: dwarf.TagSubprogram, Ranges: RangeSet{{0x1000, 0x1100}}, Children: []*Entry{
			{Offset: 0x30, Tag: dwarf.TagFormalParameter},
			{Offset: 0x40, Tag: dwarf.TagLexDwarfBlock, Ranges: RangeSet{{0x1010, 0x1020}, {0x1030, 0x1040}}, Children: []*Entry{
				{Offset: 0x50, Tag: dwarf.TagVariable},
			}},
		}},
		{Offset: 0x60, Tag: dwarf.TagVariable},
	}}
}

func offsets(s Stack) []dwarf.Offset {
	o := make([]dwarf.Offset, len(s))
	for i, e := range s {
		o[i] = e.Offset
	}

	return o
}

func TestWalk(t *testing.T) {
	t.Parallel()

	var got [][]dwarf.Offset
	for s := range Walk(tree()) {
		got = append(got, offsets(s))
	}

	want := [][]dwarf.Offset{
		{0x10},
		{0x10, 0x20},
		{0x10, 0x20, 0x30},
		{0x10, 0x20, 0x40},
		{0x10, 0x20, 0x40, 0x50},
		{0x10, 0x60},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkBreak(t *testing.T) {
	t.Parallel()

	n := 0
	for s := range Walk(tree()) {
		n++
		if s.Current().Offset == 0x30 {
			break
		}
	}

	if n != 3 {
		t.Errorf("Visited %d entries before break, want 3", n)
	}

	for range Walk(nil) {
		t.Error("Walk(nil) yielded an entry")
	}
}

func TestWalkUnits(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("broken unit")

	units := func(yield func(*Entry, error) bool) {
		if !yield(tree(), nil) {
			return
		}

		if !yield(&Entry{Offset: 0x100, Tag: dwarf.TagCompileUnit}, nil) {
			return
		}

		yield(nil, errBroken)
	}

	var (
		visited int
		err     error
	)

	for s, e := range WalkUnits(iter.Seq2[*Entry, error](units)) {
		if e != nil {
			err = e

			break
		}

		visited++

		if len(s) == 0 {
			t.Fatal("Empty stack")
		}
	}

	if visited != 7 {
		t.Errorf("Visited %d entries, want 7", visited)
	}

	if !errors.Is(err, errBroken) {
		t.Errorf("Got error %v, want %v", err, errBroken)
	}
}

func TestEnclosingRanges(t *testing.T) {
	t.Parallel()

	stacks := map[dwarf.Offset]Stack{}
	for s := range Walk(tree()) {
		stacks[s.Current().Offset] = slices.Clone(s)
	}

	tests := []struct {
		name  string
		stack Stack
		want  RangeSet
		err   error
	}{
		{"Parameter", stacks[0x30], RangeSet{{0x1000, 0x1100}}, nil},
		{"BlockVariable", stacks[0x50], RangeSet{{0x1010, 0x1020}, {0x1030, 0x1040}}, nil},
		{"Global", stacks[0x60], RangeSet{{0x1000, 0x2000}}, nil},
		{"Own", stacks[0x40], RangeSet{{0x1010, 0x1020}, {0x1030, 0x1040}}, nil},
		{"NoRanges", Stack{{Offset: 1, Tag: dwarf.TagCompileUnit}, {Offset: 2, Tag: dwarf.TagVariable}}, nil, ErrMissingRanges},
		{"EmptyStack", nil, nil, ErrMissingRanges},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.stack.EnclosingRanges()
			if !errors.Is(err, tt.err) {
				t.Fatalf("EnclosingRanges() error = %v, want %v", err, tt.err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("EnclosingRanges() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got, want := stacks[0x50].Enclosing(dwarf.TagSubprogram).Offset, dwarf.Offset(0x20); got != want {
		t.Errorf("Enclosing subprogram = %#x, want %#x", got, want)
	}

	if e := stacks[0x20].Enclosing(dwarf.TagSubprogram); e != nil {
		t.Errorf("Subprogram encloses itself: %v", e)
	}

	if got, want := stacks[0x50].Parent().Offset, dwarf.Offset(0x40); got != want {
		t.Errorf("Parent = %#x, want %#x", got, want)
	}
}

func TestIntegrate(t *testing.T) {
	t.Parallel()

	abstract := &Entry{
		Offset: 0x10,
		Tag:    dwarf.TagVariable,
		Fields: []dwarf.Field{
			{Attr: dwarf.AttrName, Val: "x", Class: dwarf.ClassString},
			{Attr: dwarf.AttrDeclLine, Val: int64(12), Class: dwarf.ClassConstant},
		},
		Location: ConstValue{},
	}

	concrete := &Entry{
		Offset: 0x80,
		Tag:    dwarf.TagVariable,
		Fields: []dwarf.Field{{Attr: dwarf.AttrAbstractOrigin, Val: dwarf.Offset(0x10), Class: dwarf.ClassReference}},
		Origin: abstract,
	}

	if got := concrete.Name(); got != "x" {
		t.Errorf("Name() = %q, want %q", got, "x")
	}

	if concrete.Has(dwarf.AttrDeclLine) {
		t.Error("Has(DeclLine) follows origin")
	}

	if f := concrete.Integrate(dwarf.AttrDeclLine); f == nil || f.Val != int64(12) {
		t.Errorf("Integrate(DeclLine) = %v", f)
	}

	if _, ok := concrete.IntegratedLocation().(ConstValue); !ok {
		t.Errorf("IntegratedLocation() = %T, want ConstValue", concrete.IntegratedLocation())
	}

	if got := concrete.String(); got != "DIE 0x80" {
		t.Errorf("String() = %q", got)
	}
}

func TestRangeSetLen(t *testing.T) {
	t.Parallel()

	s := FromPairs([][2]uint64{{0x10, 0x18}, {0x20, 0x28}, {0x30, 0x30}, {0x40, 0x38}})
	if got, want := s.Len(), uint64(16); got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}

	if FromPairs(nil) != nil {
		t.Error("FromPairs(nil) is not nil")
	}
}
