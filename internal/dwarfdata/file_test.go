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

package dwarfdata_test

import (
	"debug/dwarf"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-delve/delve/pkg/dwarf/loclist"
	"github.com/go-delve/delve/pkg/dwarf/op"
	"github.com/google/go-cmp/cmp"

	"fillmore-labs.com/dwarfcheck/internal/coverage"
	"fillmore-labs.com/dwarfcheck/internal/die"
	. "fillmore-labs.com/dwarfcheck/internal/dwarfdata"
	"fillmore-labs.com/dwarfcheck/internal/locexpr"
)

func TestOpenMissing(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Got error %v, want %v", err, fs.ErrNotExist)
	}
}

func TestOpenNotELF(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "text")
	if err := os.WriteFile(path, []byte("not an object file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if f, err := Open(path); err == nil {
		_ = f.Close()

		t.Error("Expected error opening a text file")
	}
}

type locEntry struct {
	low, high uint64
	instr     []byte
}

// debugLoc encodes a .debug_loc list with 8 byte addresses.
func debugLoc(entries ...locEntry) []byte {
	var b []byte
	for _, e := range entries {
		b = binary.LittleEndian.AppendUint64(b, e.low)
		b = binary.LittleEndian.AppendUint64(b, e.high)
		b = binary.LittleEndian.AppendUint16(b, uint16(len(e.instr)))
		b = append(b, e.instr...)
	}

	return append(b, make([]byte, 16)...)
}

func TestListLookup(t *testing.T) {
	t.Parallel()

	data := debugLoc(
		locEntry{0x1000, 0x1004, []byte{byte(op.DW_OP_reg0)}},
		locEntry{0x1004, 0x1008, nil},
		locEntry{0x1008, 0x100c, []byte{byte(op.DW_OP_lit1), byte(op.DW_OP_stack_value)}},
		locEntry{0x2000, 0x2001, []byte{0x01}},
	)

	format := locexpr.Format{AddrSize: 8, OffsetSize: 4, Order: binary.LittleEndian}
	lookup := NewListLookup(loclist.NewDwarf2Reader(data, 8), 0, 0, nil, format)

	tests := []struct {
		addr uint64
		want []locexpr.Expression
	}{
		{0x1002, []locexpr.Expression{{{Opcode: op.DW_OP_reg0}}}},
		{0x1004, []locexpr.Expression{nil}},
		{0x100b, []locexpr.Expression{{{Opcode: op.DW_OP_lit1}, {Opcode: op.DW_OP_stack_value}}}},
		{0x0fff, nil},
		{0x100c, nil},
	}

	for _, tt := range tests {
		got, err := lookup.At(tt.addr)
		if err != nil {
			t.Fatalf("At(%#x) failed: %v", tt.addr, err)
		}

		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("At(%#x) mismatch (-want +got):\n%s", tt.addr, diff)
		}
	}

	if _, err := lookup.At(0x2000); !errors.Is(err, locexpr.ErrUnknownOpcode) {
		t.Errorf("Got error %v, want %v", err, locexpr.ErrUnknownOpcode)
	}

	got, err := coverage.Compute(die.List{Lookup: lookup}, die.RangeSet{{Low: 0x1000, High: 0x1010}})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	want := coverage.Result{Coverage: 50, Storage: locexpr.Storage{Mutable: true, Immutable: true}}
	if got != want {
		t.Errorf("Got %+v, want %+v", got, want)
	}
}

func TestUnitsOfTestBinary(t *testing.T) {
	if testing.Short() {
		t.Skip("reads the debug information of the test binary")
	}

	if runtime.GOOS != "linux" {
		t.Skip("test binary is not ELF")
	}

	t.Parallel()

	exe, err := os.Executable()
	if err != nil {
		t.Skip(err)
	}

	f, err := Open(exe)
	if errors.Is(err, ErrNoDebugInfo) {
		t.Skip(err)
	}

	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	defer func() { _ = f.Close() }()

	var units, functions int

	for s, err := range die.WalkUnits(f.Units()) {
		if err != nil {
			t.Fatalf("Units failed: %v", err)
		}

		switch e := s.Current(); e.Tag {
		case dwarf.TagCompileUnit:
			units++

			if len(s) != 1 {
				t.Errorf("Compile unit %v at depth %d", e, len(s))
			}

		case dwarf.TagSubprogram:
			if len(e.Ranges) > 0 {
				functions++
			}
		}
	}

	if units == 0 || functions == 0 {
		t.Errorf("Got %d units with %d functions, want some", units, functions)
	}

	if len(f.Headers()) < units {
		t.Errorf("Got %d headers for %d units", len(f.Headers()), units)
	}
}
