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

package die

import (
	"debug/dwarf"
	"fmt"

	"fillmore-labs.com/dwarfcheck/internal/locexpr"
)

// Entry is a read-only view of one debugging information entry.
type Entry struct {
	Offset dwarf.Offset
	Tag    dwarf.Tag
	// Fields are the attributes in the order they appear in the entry.
	Fields []dwarf.Field
	// Ranges are the address ranges recorded on this entry, if any.
	Ranges RangeSet
	// Location is the decoded DW_AT_location of this entry, nil when absent.
	Location Location
	// Origin is the entry referenced by DW_AT_abstract_origin or DW_AT_specification.
	Origin   *Entry
	Children []*Entry
}

// maxOriginDepth bounds the DW_AT_abstract_origin / DW_AT_specification chain.
const maxOriginDepth = 8

// Field returns the attribute field of this entry, without following origins.
func (e *Entry) Field(attr dwarf.Attr) *dwarf.Field {
	for i := range e.Fields {
		if e.Fields[i].Attr == attr {
			return &e.Fields[i]
		}
	}

	return nil
}

// Has reports whether the entry itself carries the attribute.
func (e *Entry) Has(attr dwarf.Attr) bool {
	return e.Field(attr) != nil
}

// Val returns the value of the attribute on this entry, or nil.
func (e *Entry) Val(attr dwarf.Attr) any {
	if f := e.Field(attr); f != nil {
		return f.Val
	}

	return nil
}

// Integrate returns the attribute from this entry or, failing that, from its origin chain.
func (e *Entry) Integrate(attr dwarf.Attr) *dwarf.Field {
	for cur, depth := e, 0; cur != nil && depth < maxOriginDepth; cur, depth = cur.Origin, depth+1 {
		if f := cur.Field(attr); f != nil {
			return f
		}
	}

	return nil
}

// IntegratedLocation returns the location of this entry or its origin chain.
func (e *Entry) IntegratedLocation() Location {
	for cur, depth := e, 0; cur != nil && depth < maxOriginDepth; cur, depth = cur.Origin, depth+1 {
		if cur.Location != nil {
			return cur.Location
		}
	}

	return nil
}

// Name returns the integrated DW_AT_name of the entry, or the empty string.
func (e *Entry) Name() string {
	if f := e.Integrate(dwarf.AttrName); f != nil {
		if name, ok := f.Val.(string); ok {
			return name
		}
	}

	return ""
}

// Flag reports whether a flag attribute is present and set on this entry.
func (e *Entry) Flag(attr dwarf.Attr) bool {
	v, ok := e.Val(attr).(bool)

	return ok && v
}

func (e *Entry) String() string {
	return fmt.Sprintf("DIE %#x", uint64(e.Offset))
}

// Range is a half-open address range [Low, High).
type Range struct {
	Low, High uint64
}

// Len returns the number of addresses in the range.
func (r Range) Len() uint64 {
	if r.High <= r.Low {
		return 0
	}

	return r.High - r.Low
}

func (r Range) String() string {
	return fmt.Sprintf("[%#x, %#x)", r.Low, r.High)
}

// RangeSet is an ordered sequence of address ranges.
type RangeSet []Range

// Len returns the total number of addresses in all ranges.
func (s RangeSet) Len() uint64 {
	var n uint64
	for _, r := range s {
		n += r.Len()
	}

	return n
}

// FromPairs converts the output of [dwarf.Data.Ranges].
func FromPairs(pairs [][2]uint64) RangeSet {
	if len(pairs) == 0 {
		return nil
	}

	s := make(RangeSet, len(pairs))
	for i, p := range pairs {
		s[i] = Range{Low: p[0], High: p[1]}
	}

	return s
}

// Location is the decoded location attribute of an entry.
type Location interface {
	location()
}

// ConstValue is the location of an entry carrying DW_AT_const_value.
type ConstValue struct{}

// Expr is a single location expression, valid over the whole lifetime of the entry.
type Expr struct {
	Expr locexpr.Expression
}

// List is a location list.
type List struct {
	Lookup LocationLookup
}

// Invalid is a location attribute that could not be decoded.
type Invalid struct {
	Err error
}

func (ConstValue) location() {}
func (Expr) location()       {}
func (List) location()       {}
func (Invalid) location()    {}

// LocationLookup queries a location list.
type LocationLookup interface {
	// At returns the expressions active at addr. An empty result means the
	// address is not covered by the list.
	At(addr uint64) ([]locexpr.Expression, error)
}
