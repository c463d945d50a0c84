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

// Package dwarfdata reads the debugging information entries of an ELF file
// into [die.Entry] trees.
package dwarfdata

import (
	"debug/dwarf"
	"debug/elf"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-delve/delve/pkg/dwarf/godwarf"
	"github.com/go-delve/delve/pkg/dwarf/loclist"
	"golang.org/x/time/rate"

	"fillmore-labs.com/dwarfcheck/internal/die"
)

// ErrNoDebugInfo is returned for files without a .debug_info section.
var ErrNoDebugInfo = errors.New("no DWARF information")

var entryErrorLogLimiter = rate.NewLimiter(rate.Every(1*time.Minute), 10)

// File is an ELF file opened for reading its debugging information.
//
// A File is not safe for concurrent use.
type File struct {
	// Logger receives throttled warnings about entries that cannot be fully read.
	Logger *slog.Logger

	elf     *elf.File
	data    *dwarf.Data
	order   binary.ByteOrder
	headers map[dwarf.Offset]UnitHeader

	loc       []byte
	loc2      map[int]*loclist.Dwarf2Reader // keyed by address size
	loclists  []byte
	loc5      *loclist.Dwarf5Reader
	debugAddr *godwarf.DebugAddrSection

	// units caches the units of entries referenced from other units.
	units   map[dwarf.Offset]*unit
	foreign map[dwarf.Offset]*die.Entry
}

// Open opens the named ELF file and reads its DWARF sections.
func Open(path string) (*File, error) {
	ef, err := elf.Open(path)
	if err != nil {
		return nil, err
	}

	f, err := newFile(ef)
	if err != nil {
		_ = ef.Close()

		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

func newFile(ef *elf.File) (*File, error) {
	info, err := section(ef, ".debug_info")
	if err != nil {
		return nil, err
	}

	if len(info) == 0 {
		return nil, ErrNoDebugInfo
	}

	data, err := ef.DWARF()
	if err != nil {
		return nil, fmt.Errorf("reading DWARF: %w", err)
	}

	headers, err := ParseUnitHeaders(info, ef.ByteOrder)
	if err != nil {
		return nil, err
	}

	f := &File{
		Logger:  slog.Default(),
		elf:     ef,
		data:    data,
		order:   ef.ByteOrder,
		headers: headers,
		loc2:    make(map[int]*loclist.Dwarf2Reader),
		units:   make(map[dwarf.Offset]*unit),
		foreign: make(map[dwarf.Offset]*die.Entry),
	}

	if f.loc, err = section(ef, ".debug_loc"); err != nil {
		return nil, err
	}

	if f.loclists, err = section(ef, ".debug_loclists"); err != nil {
		return nil, err
	}

	if len(f.loclists) > 0 {
		f.loc5 = loclist.NewDwarf5Reader(f.loclists)
	}

	addr, err := section(ef, ".debug_addr")
	if err != nil {
		return nil, err
	}

	if len(addr) > 0 {
		f.debugAddr = godwarf.ParseAddr(addr)
	}

	return f, nil
}

// section returns the uncompressed contents of the named section, or nil if it is absent.
func section(ef *elf.File, name string) ([]byte, error) {
	s := ef.Section(name)
	if s == nil || s.Type == elf.SHT_NOBITS {
		return nil, nil
	}

	b, err := s.Data()
	if err != nil {
		return nil, fmt.Errorf("reading section %s: %w", name, err)
	}

	return b, nil
}

// Close closes the underlying ELF file.
func (f *File) Close() error {
	return f.elf.Close()
}

// Headers returns the parsed unit headers, keyed by the offset of the unit entry.
func (f *File) Headers() map[dwarf.Offset]UnitHeader {
	return f.headers
}

// warn logs a throttled warning about an entry.
func (f *File) warn(msg string, args ...any) {
	if entryErrorLogLimiter.Allow() {
		f.Logger.Warn(msg, args...)
	}
}

// dwarf2Reader returns the .debug_loc reader for the given address size.
func (f *File) dwarf2Reader(addrSize int) (*loclist.Dwarf2Reader, bool) {
	if len(f.loc) == 0 {
		return nil, false
	}

	r, ok := f.loc2[addrSize]
	if !ok {
		r = loclist.NewDwarf2Reader(f.loc, addrSize)
		f.loc2[addrSize] = r
	}

	return r, true
}
