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
	"testing"

	"github.com/google/go-cmp/cmp"

	. "fillmore-labs.com/dwarfcheck/internal/dwarfdata"
)

// unit32 returns a 32-bit DWARF unit with the given header fields after the
// length and a body of n bytes.
func unit32(header []byte, n int) []byte {
	b := binary.LittleEndian.AppendUint32(nil, uint32(len(header)+n))
	b = append(b, header...)

	return append(b, make([]byte, n)...)
}

// unit64 returns a 64-bit DWARF unit.
func unit64(header []byte, n int) []byte {
	b := binary.LittleEndian.AppendUint32(nil, 0xffffffff)
	b = binary.LittleEndian.AppendUint64(b, uint64(len(header)+n))
	b = append(b, header...)

	return append(b, make([]byte, n)...)
}

func TestParseUnitHeaders(t *testing.T) {
	t.Parallel()

	// version 4: version, abbrev offset (4), address size
	v4 := unit32([]byte{4, 0, 0, 0, 0, 0, 8}, 5)
	// version 2 with 4 byte addresses
	v2 := unit32([]byte{2, 0, 0, 0, 0, 0, 4}, 3)
	// version 5 compile unit: version, unit type, address size, abbrev offset (4)
	v5 := unit32([]byte{5, 0, 0x01, 8, 0, 0, 0, 0}, 6)
	// version 5 skeleton unit with dwo_id
	v5skeleton := unit32(append([]byte{5, 0, 0x04, 8, 0, 0, 0, 0}, make([]byte, 8)...), 2)
	// 64-bit version 5 type unit: abbrev offset (8), signature (8), type offset (8)
	v5type := unit64(append([]byte{5, 0, 0x02, 8}, make([]byte, 24)...), 4)

	var info []byte
	for _, u := range [][]byte{v4, v2, v5, v5skeleton, v5type} {
		info = append(info, u...)
	}

	o2 := len(v4)
	o3 := o2 + len(v2)
	o4 := o3 + len(v5)
	o5 := o4 + len(v5skeleton)

	want := map[dwarf.Offset]UnitHeader{
		11:           {Offset: 0, End: off(o2), Version: 4, AddrSize: 8},
		off(o2 + 11): {Offset: off(o2), End: off(o3), Version: 2, AddrSize: 4},
		off(o3 + 12): {Offset: off(o3), End: off(o4), Version: 5, AddrSize: 8},
		off(o4 + 20): {Offset: off(o4), End: off(o5), Version: 5, AddrSize: 8},
		off(o5 + 40): {Offset: off(o5), End: off(len(info)), Version: 5, Dwarf64: true, AddrSize: 8},
	}

	got, err := ParseUnitHeaders(info, binary.LittleEndian)
	if err != nil {
		t.Fatalf("ParseUnitHeaders failed: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseUnitHeaders mismatch (-want +got):\n%s", diff)
	}
}

func off(o int) dwarf.Offset { return dwarf.Offset(o) }

func TestParseUnitHeadersBigEndian(t *testing.T) {
	t.Parallel()

	info := []byte{0, 0, 0, 9, 0, 3, 0, 0, 0, 0, 4, 0, 0}

	got, err := ParseUnitHeaders(info, binary.BigEndian)
	if err != nil {
		t.Fatalf("ParseUnitHeaders failed: %v", err)
	}

	h, ok := got[11]
	if !ok {
		t.Fatalf("No unit at 11 in %v", got)
	}

	if h.Version != 3 || h.AddrSize != 4 || h.OffsetSize() != 4 {
		t.Errorf("Got %+v, want version 3 with 4 byte addresses", h)
	}
}

func TestParseUnitHeadersErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info []byte
	}{
		{"Short", []byte{1, 0}},
		{"Overlong", unit32([]byte{4, 0, 0, 0, 0, 0, 8}, 0)[:8]},
		{"Reserved", []byte{0xf0, 0xff, 0xff, 0xff, 4, 0}},
		{"Version", unit32([]byte{6, 0, 0, 0, 0, 0, 8}, 0)},
		{"UnitType", unit32([]byte{5, 0, 0x09, 8, 0, 0, 0, 0}, 0)},
		{"TruncatedSkeleton", unit32([]byte{5, 0, 0x04, 8, 0, 0, 0, 0}, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseUnitHeaders(tt.info, binary.LittleEndian); !errors.Is(err, ErrMalformedHeader) {
				t.Errorf("Got error %v, want %v", err, ErrMalformedHeader)
			}
		})
	}
}

func TestUnitHeaderFormat(t *testing.T) {
	t.Parallel()

	f := UnitHeader{Version: 5, Dwarf64: true, AddrSize: 4}.Format(binary.BigEndian)
	if f.AddrSize != 4 || f.OffsetSize != 8 || f.Order != binary.BigEndian {
		t.Errorf("Got %+v", f)
	}
}
