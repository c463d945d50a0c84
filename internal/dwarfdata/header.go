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
	"debug/dwarf"
	"encoding/binary"
	"errors"
	"fmt"

	"fillmore-labs.com/dwarfcheck/internal/locexpr"
)

// ErrMalformedHeader is returned for a unit header that cannot be parsed.
var ErrMalformedHeader = errors.New("malformed unit header")

// UnitHeader describes the encoding of one unit in .debug_info.
type UnitHeader struct {
	// Offset is the offset of the unit header.
	Offset dwarf.Offset
	// End is the offset of the following unit.
	End dwarf.Offset
	// Version is the DWARF version, 2 through 5.
	Version int
	// Dwarf64 is set for the 64-bit DWARF format.
	Dwarf64 bool
	// AddrSize is the size of a target address in bytes.
	AddrSize int
}

// OffsetSize returns the size of a section offset in this unit.
func (h UnitHeader) OffsetSize() int {
	if h.Dwarf64 {
		return 8
	}

	return 4
}

// Format returns the operand encoding of location expressions in this unit.
func (h UnitHeader) Format(order binary.ByteOrder) locexpr.Format {
	return locexpr.Format{AddrSize: h.AddrSize, OffsetSize: h.OffsetSize(), Order: order}
}

// Unit types of DWARF 5 headers.
const (
	utCompile      = 0x01
	utType         = 0x02
	utPartial      = 0x03
	utSkeleton     = 0x04
	utSplitCompile = 0x05
	utSplitType    = 0x06
)

// ParseUnitHeaders parses all unit headers of a .debug_info section.
//
// The result is keyed by the offset of the first entry of each unit, as
// returned for the unit entry by [dwarf.Reader].
func ParseUnitHeaders(info []byte, order binary.ByteOrder) (map[dwarf.Offset]UnitHeader, error) {
	headers := make(map[dwarf.Offset]UnitHeader)

	for off := 0; off < len(info); {
		h, first, next, err := parseUnitHeader(info, off, order)
		if err != nil {
			return headers, fmt.Errorf("unit at %#x: %w", off, err)
		}

		headers[dwarf.Offset(first)] = h
		off = next
	}

	return headers, nil
}

// parseUnitHeader returns the header at off, the offset of the unit's first
// entry and the offset of the next unit.
func parseUnitHeader(info []byte, off int, order binary.ByteOrder) (UnitHeader, int, int, error) {
	h := UnitHeader{Offset: dwarf.Offset(off)}
	b := info[off:]

	if len(b) < 4 {
		return h, 0, 0, ErrMalformedHeader
	}

	length, pos := uint64(order.Uint32(b)), 4

	switch {
	case length == 0xffffffff:
		if len(b) < 12 {
			return h, 0, 0, ErrMalformedHeader
		}

		h.Dwarf64, length, pos = true, order.Uint64(b[4:]), 12

	case length >= 0xfffffff0:
		return h, 0, 0, fmt.Errorf("%w: reserved length %#x", ErrMalformedHeader, length)
	}

	if length > uint64(len(b)-pos) {
		return h, 0, 0, fmt.Errorf("%w: length %#x exceeds section", ErrMalformedHeader, length)
	}

	unit, next := b[pos:pos+int(length)], off+pos+int(length)
	h.End = dwarf.Offset(next)

	if len(unit) < 2 {
		return h, 0, 0, ErrMalformedHeader
	}

	h.Version = int(order.Uint16(unit))

	var rest int // header bytes after the version

	switch h.Version {
	case 2, 3, 4:
		rest = h.OffsetSize() + 1
		if len(unit) < 2+rest {
			return h, 0, 0, ErrMalformedHeader
		}

		h.AddrSize = int(unit[2+h.OffsetSize()])

	case 5:
		if len(unit) < 4 {
			return h, 0, 0, ErrMalformedHeader
		}

		unitType := unit[2]
		h.AddrSize = int(unit[3])
		rest = 2 + h.OffsetSize()

		switch unitType {
		case utCompile, utPartial:

		case utSkeleton, utSplitCompile:
			rest += 8

		case utType, utSplitType:
			rest += 8 + h.OffsetSize()

		default:
			return h, 0, 0, fmt.Errorf("%w: unknown unit type %#x", ErrMalformedHeader, unitType)
		}

		if len(unit) < 2+rest {
			return h, 0, 0, ErrMalformedHeader
		}

	default:
		return h, 0, 0, fmt.Errorf("%w: unsupported version %d", ErrMalformedHeader, h.Version)
	}

	return h, off + pos + 2 + rest, next, nil
}
