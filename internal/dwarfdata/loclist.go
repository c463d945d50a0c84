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

package dwarfdata

import (
	"errors"
	"fmt"

	"github.com/go-delve/delve/pkg/dwarf/godwarf"
	"github.com/go-delve/delve/pkg/dwarf/loclist"

	"fillmore-labs.com/dwarfcheck/internal/die"
	"fillmore-labs.com/dwarfcheck/internal/locexpr"
)

// ErrMalformedList is returned when a location list cannot be read.
var ErrMalformedList = errors.New("malformed location list")

// listLookup queries one location list of a unit.
type listLookup struct {
	reader    loclist.Reader
	off       int
	base      uint64
	debugAddr *godwarf.DebugAddr
	format    locexpr.Format
	// decoded caches expressions by their encoding, shared by the lists of a unit.
	decoded map[string]locexpr.Expression
}

var _ die.LocationLookup = (*listLookup)(nil)

// NewListLookup returns a lookup of the list at off, read by reader.
//
// base is the unit base address, debugAddr the unit's .debug_addr contribution
// for DWARF 5 lists.
func NewListLookup(reader loclist.Reader, off int, base uint64, debugAddr *godwarf.DebugAddr, format locexpr.Format) die.LocationLookup {
	return &listLookup{
		reader:    reader,
		off:       off,
		base:      base,
		debugAddr: debugAddr,
		format:    format,
		decoded:   make(map[string]locexpr.Expression),
	}
}

// At implements [die.LocationLookup].
func (l *listLookup) At(addr uint64) (exprs []locexpr.Expression, err error) {
	defer func() {
		if r := recover(); r != nil {
			exprs, err = nil, fmt.Errorf("%w at offset %#x: %v", ErrMalformedList, l.off, r)
		}
	}()

	e, err := l.reader.Find(l.off, 0, l.base, addr, l.debugAddr)
	if err != nil {
		return nil, err
	}

	if e == nil {
		return nil, nil
	}

	key := string(e.Instr)
	if expr, ok := l.decoded[key]; ok {
		return []locexpr.Expression{expr}, nil
	}

	expr, err := locexpr.Decode(e.Instr, l.format)
	if err != nil {
		return nil, err
	}

	l.decoded[key] = expr

	return []locexpr.Expression{expr}, nil
}
