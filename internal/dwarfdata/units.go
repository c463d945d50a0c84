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
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/go-delve/delve/pkg/dwarf/godwarf"

	"fillmore-labs.com/dwarfcheck/internal/die"
	"fillmore-labs.com/dwarfcheck/internal/locexpr"
)

var (
	// ErrUnknownUnit is returned for a unit entry without a parsed header.
	ErrUnknownUnit = errors.New("unit header not found")

	// ErrNoLocationLists is returned when a location list refers to a missing section.
	ErrNoLocationLists = errors.New("location list section missing")
)

// unit holds the per-unit state needed to decode the attributes of its entries.
type unit struct {
	file    *File
	header  UnitHeader
	cu      *dwarf.Entry
	format  locexpr.Format
	base    uint64
	addr    *godwarf.DebugAddr
	entries map[dwarf.Offset]*die.Entry
	decoded map[string]locexpr.Expression
	refs    []originRef
}

// originRef is an unresolved DW_AT_abstract_origin or DW_AT_specification.
type originRef struct {
	entry  *die.Entry
	target dwarf.Offset
}

// Units yields one entry tree per unit of the file, in section order.
//
// A read error ends the sequence.
func (f *File) Units() iter.Seq2[*die.Entry, error] {
	return func(yield func(*die.Entry, error) bool) {
		r := f.data.Reader()

		var next *dwarf.Entry

		for {
			e := next
			if e == nil {
				var err error
				if e, err = r.Next(); err != nil {
					yield(nil, err)

					return
				}

				if e == nil {
					return
				}
			}

			next = nil

			if e.Tag == 0 {
				continue
			}

			root, following, err := f.readUnit(r, e)
			if !yield(root, err) || err != nil {
				return
			}

			next = following
		}
	}
}

// readUnit reads the tree of the unit entry cu. When the unit's entries are
// not terminated, the first entry of the following unit is returned.
func (f *File) readUnit(r *dwarf.Reader, cu *dwarf.Entry) (*die.Entry, *dwarf.Entry, error) {
	u, err := f.newUnit(cu)
	if err != nil {
		return nil, nil, err
	}

	root := u.entry(cu)

	var following *dwarf.Entry

	if cu.Children {
		stack := []*die.Entry{root}

		for len(stack) > 0 {
			e, err := r.Next()
			if err != nil {
				return nil, nil, err
			}

			if e == nil {
				return nil, nil, fmt.Errorf("unit %#x: %w", cu.Offset, io.ErrUnexpectedEOF)
			}

			if e.Offset >= u.header.End {
				following = e

				break
			}

			if e.Tag == 0 {
				stack = stack[:len(stack)-1]

				continue
			}

			n := u.entry(e)

			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)

			if e.Children {
				stack = append(stack, n)
			}
		}
	}

	u.resolveOrigins()

	return root, following, nil
}

func (f *File) newUnit(cu *dwarf.Entry) (*unit, error) {
	h, ok := f.headers[cu.Offset]
	if !ok {
		return nil, fmt.Errorf("%w for entry %#x", ErrUnknownUnit, cu.Offset)
	}

	u := &unit{
		file:    f,
		header:  h,
		cu:      cu,
		format:  h.Format(f.order),
		entries: make(map[dwarf.Offset]*die.Entry),
		decoded: make(map[string]locexpr.Expression),
	}

	if low, ok := cu.Val(dwarf.AttrLowpc).(uint64); ok {
		u.base = low
	}

	if addrBase, ok := cu.Val(dwarf.AttrAddrBase).(int64); ok && f.debugAddr != nil {
		u.addr = f.debugAddr.GetSubsection(uint64(addrBase))
	}

	return u, nil
}

// entry converts e and records it for origin resolution.
func (u *unit) entry(e *dwarf.Entry) *die.Entry {
	n := &die.Entry{
		Offset: e.Offset,
		Tag:    e.Tag,
		Fields: e.Field,
	}

	u.entries[e.Offset] = n

	if e.Val(dwarf.AttrLowpc) != nil || e.Val(dwarf.AttrRanges) != nil {
		ranges, err := u.file.data.Ranges(e)
		if err != nil {
			u.file.warn("Can't read ranges", "entry", n, "error", err)
		}

		n.Ranges = die.FromPairs(ranges)
	}

	n.Location = u.location(e)

	for _, attr := range [...]dwarf.Attr{dwarf.AttrAbstractOrigin, dwarf.AttrSpecification} {
		if target, ok := e.Val(attr).(dwarf.Offset); ok {
			u.refs = append(u.refs, originRef{entry: n, target: target})

			break
		}
	}

	return n
}

// location decodes the DW_AT_location of e.
func (u *unit) location(e *dwarf.Entry) die.Location {
	if e.Val(dwarf.AttrConstValue) != nil {
		return die.ConstValue{}
	}

	field := e.AttrField(dwarf.AttrLocation)
	if field == nil {
		return nil
	}

	switch field.Class {
	case dwarf.ClassExprLoc, dwarf.ClassBlock:
		raw, _ := field.Val.([]byte)

		expr, err := locexpr.Decode(raw, u.format)
		if err != nil {
			return die.Invalid{Err: err}
		}

		return die.Expr{Expr: expr}

	case dwarf.ClassLocListPtr:
		off, ok := field.Val.(int64)
		if !ok {
			return die.Invalid{Err: fmt.Errorf("location list offset of type %T", field.Val)}
		}

		return u.list(off)

	case dwarf.ClassLocList:
		off, err := u.loclistx(field.Val)
		if err != nil {
			return die.Invalid{Err: err}
		}

		return u.list(off)

	default:
		return die.Invalid{Err: fmt.Errorf("unsupported location class %s", field.Class)}
	}
}

// list returns the location list at the section offset off.
func (u *unit) list(off int64) die.Location {
	l := &listLookup{off: int(off), base: u.base, format: u.format, decoded: u.decoded}

	if u.header.Version >= 5 {
		if u.file.loc5 == nil || u.file.loc5.Empty() {
			return die.Invalid{Err: fmt.Errorf("%w: .debug_loclists", ErrNoLocationLists)}
		}

		l.reader, l.debugAddr = u.file.loc5, u.addr
	} else {
		r, ok := u.file.dwarf2Reader(u.header.AddrSize)
		if !ok {
			return die.Invalid{Err: fmt.Errorf("%w: .debug_loc", ErrNoLocationLists)}
		}

		l.reader = r
	}

	return die.List{Lookup: l}
}

// loclistx resolves a DW_FORM_loclistx index through the offsets table at DW_AT_loclists_base.
func (u *unit) loclistx(val any) (int64, error) {
	var idx uint64

	switch v := val.(type) {
	case uint64:
		idx = v

	case int64:
		idx = uint64(v)

	default:
		return 0, fmt.Errorf("location list index of type %T", val)
	}

	base, ok := u.cu.Val(dwarf.AttrLoclistsBase).(int64)
	if !ok {
		return 0, fmt.Errorf("location list index %d without DW_AT_loclists_base", idx)
	}

	size := uint64(u.header.OffsetSize())

	pos := uint64(base) + idx*size
	if pos+size > uint64(len(u.file.loclists)) {
		return 0, fmt.Errorf("location list index %d: %w", idx, ErrNoLocationLists)
	}

	var rel uint64
	if size == 8 {
		rel = u.file.order.Uint64(u.file.loclists[pos:])
	} else {
		rel = uint64(u.file.order.Uint32(u.file.loclists[pos:]))
	}

	return base + int64(rel), nil
}

// resolveOrigins links the origins of the unit's entries, looking up targets
// in other units when necessary.
func (u *unit) resolveOrigins() {
	for _, ref := range u.refs {
		if target, ok := u.entries[ref.target]; ok {
			ref.entry.Origin = target

			continue
		}

		target, err := u.file.entryAt(ref.target, 0)
		if err != nil {
			u.file.warn("Can't resolve origin", "entry", ref.entry, "target", ref.target, "error", err)

			continue
		}

		ref.entry.Origin = target
	}

	u.refs = nil
}

// entryAt reads a single entry outside the unit being read, without its children.
func (f *File) entryAt(off dwarf.Offset, depth int) (*die.Entry, error) {
	if e, ok := f.foreign[off]; ok {
		return e, nil
	}

	u, err := f.unitAt(off)
	if err != nil {
		return nil, err
	}

	r := f.data.Reader()
	r.Seek(off)

	e, err := r.Next()
	if err != nil {
		return nil, err
	}

	if e == nil || e.Offset != off {
		return nil, fmt.Errorf("no entry at %#x", off)
	}

	n := u.entry(e)
	f.foreign[off] = n

	refs := u.refs
	u.refs = nil

	for _, ref := range refs {
		if depth >= maxOriginDepth {
			break
		}

		if ref.entry.Origin, err = f.entryAt(ref.target, depth+1); err != nil {
			f.warn("Can't resolve origin", "entry", ref.entry, "target", ref.target, "error", err)
		}
	}

	return n, nil
}

const maxOriginDepth = 8

// unitAt returns the unit containing the offset.
func (f *File) unitAt(off dwarf.Offset) (*unit, error) {
	var (
		first dwarf.Offset
		found bool
	)

	for o, h := range f.headers {
		if h.Offset <= off && off < h.End {
			first, found = o, true

			break
		}
	}

	if !found {
		return nil, fmt.Errorf("%w for offset %#x", ErrUnknownUnit, off)
	}

	if u, ok := f.units[first]; ok {
		return u, nil
	}

	r := f.data.Reader()
	r.Seek(first)

	cu, err := r.Next()
	if err != nil {
		return nil, err
	}

	if cu == nil {
		return nil, fmt.Errorf("%w for offset %#x", ErrUnknownUnit, off)
	}

	u, err := f.newUnit(cu)
	if err != nil {
		return nil, err
	}

	f.units[first] = u

	return u, nil
}
