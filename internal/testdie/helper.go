// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
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

// Package testdie provides utilities for building debugging information entries in tests.
//
// It is designed to simplify testing of the checks by describing synthetic
// units in YAML instead of compiling and reading real object files.
package testdie

import (
	"debug/dwarf"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"iter"
	"testing"

	"gopkg.in/yaml.v3"

	"fillmore-labs.com/dwarfcheck/internal/die"
	"fillmore-labs.com/dwarfcheck/internal/locexpr"
)

// Format is the expression encoding of synthetic units.
var Format = locexpr.Format{AddrSize: 8, OffsetSize: 4, Order: binary.LittleEndian}

// ErrQuery is returned by synthetic location lists at their fail_at address.
var ErrQuery = errors.New("synthetic query failure")

// Node is the YAML description of one entry.
type Node struct {
	// ID names the entry for origin references.
	ID  string `yaml:"id"`
	Tag string `yaml:"tag"`

	Name       string `yaml:"name"`
	DeclFile   *int64 `yaml:"decl_file"`
	DeclLine   *int64 `yaml:"decl_line"`
	External   bool   `yaml:"external"`
	Artificial bool   `yaml:"artificial"`
	Inline     int64  `yaml:"inline"`
	// Origin is the ID of the abstract origin.
	Origin string `yaml:"origin"`

	Ranges [][2]uint64 `yaml:"ranges"`

	ConstValue bool `yaml:"const_value"`
	// Expr is a hex encoded location expression.
	Expr *string `yaml:"expr"`
	// List is a location list.
	List    []ListEntry `yaml:"list"`
	FailAt  *uint64     `yaml:"fail_at"`
	Invalid string      `yaml:"invalid"`

	Children []Node `yaml:"children"`
}

// ListEntry is one entry of a location list, valid over [Low, High).
type ListEntry struct {
	Low  uint64 `yaml:"low"`
	High uint64 `yaml:"high"`
	Expr string `yaml:"expr"`
}

var tags = map[string]dwarf.Tag{
	"compile_unit":       dwarf.TagCompileUnit,
	"subprogram":         dwarf.TagSubprogram,
	"variable":           dwarf.TagVariable,
	"formal_parameter":   dwarf.TagFormalParameter,
	"lexical_block":      dwarf.TagLexDwarfBlock,
	"inlined_subroutine": dwarf.TagInlinedSubroutine,
	"base_type":          dwarf.TagBaseType,
}

// Parse builds unit trees from a YAML list of compile units.
//
// Entry offsets are assigned in pre-order, starting at 0x10.
func Parse(tb testing.TB, src []byte) []*die.Entry {
	tb.Helper()

	var nodes []Node
	if err := yaml.Unmarshal(src, &nodes); err != nil {
		tb.Fatalf("Failed to parse units: %v", err)
	}

	b := builder{tb: tb, ids: make(map[string]*die.Entry)}

	roots := make([]*die.Entry, 0, len(nodes))
	for i := range nodes {
		roots = append(roots, b.build(&nodes[i]))
	}

	for _, ref := range b.refs {
		target, ok := b.ids[ref.id]
		if !ok {
			tb.Fatalf("Unknown origin %q", ref.id)
		}

		ref.entry.Origin = target
		ref.entry.Fields = append(ref.entry.Fields, dwarf.Field{Attr: dwarf.AttrAbstractOrigin, Val: target.Offset, Class: dwarf.ClassReference})
	}

	return roots
}

// Units returns the trees as a unit sequence.
func Units(roots []*die.Entry) iter.Seq2[*die.Entry, error] {
	return func(yield func(*die.Entry, error) bool) {
		for _, root := range roots {
			if !yield(root, nil) {
				return
			}
		}
	}
}

type originRef struct {
	entry *die.Entry
	id    string
}

type builder struct {
	tb     testing.TB
	offset dwarf.Offset
	ids    map[string]*die.Entry
	refs   []originRef
}

func (b *builder) build(n *Node) *die.Entry {
	b.tb.Helper()

	tag, ok := tags[n.Tag]
	if !ok {
		b.tb.Fatalf("Unknown tag %q", n.Tag)
	}

	b.offset += 0x10

	e := &die.Entry{Offset: b.offset, Tag: tag}

	if n.ID != "" {
		b.ids[n.ID] = e
	}

	if n.Origin != "" {
		b.refs = append(b.refs, originRef{entry: e, id: n.Origin})
	}

	b.fields(e, n)

	for _, r := range n.Ranges {
		e.Ranges = append(e.Ranges, die.Range{Low: r[0], High: r[1]})
	}

	e.Location = b.location(n)

	for i := range n.Children {
		e.Children = append(e.Children, b.build(&n.Children[i]))
	}

	return e
}

func (b *builder) fields(e *die.Entry, n *Node) {
	add := func(attr dwarf.Attr, val any, class dwarf.Class) {
		e.Fields = append(e.Fields, dwarf.Field{Attr: attr, Val: val, Class: class})
	}

	if n.Name != "" {
		add(dwarf.AttrName, n.Name, dwarf.ClassString)
	}

	if n.DeclFile != nil {
		add(dwarf.AttrDeclFile, *n.DeclFile, dwarf.ClassConstant)
	}

	if n.DeclLine != nil {
		add(dwarf.AttrDeclLine, *n.DeclLine, dwarf.ClassConstant)
	}

	if n.External {
		add(dwarf.AttrExternal, true, dwarf.ClassFlag)
	}

	if n.Artificial {
		add(dwarf.AttrArtificial, true, dwarf.ClassFlag)
	}

	if n.Inline != 0 {
		add(dwarf.AttrInline, n.Inline, dwarf.ClassConstant)
	}

	if n.ConstValue {
		add(dwarf.AttrConstValue, int64(0), dwarf.ClassConstant)
	}

	switch {
	case n.Expr != nil:
		add(dwarf.AttrLocation, b.decode(*n.Expr), dwarf.ClassExprLoc)

	case n.List != nil, n.Invalid != "":
		add(dwarf.AttrLocation, int64(0), dwarf.ClassLocListPtr)
	}
}

func (b *builder) location(n *Node) die.Location {
	switch {
	case n.ConstValue:
		return die.ConstValue{}

	case n.Invalid != "":
		return die.Invalid{Err: errors.New(n.Invalid)}

	case n.Expr != nil:
		expr, err := locexpr.Decode(b.decode(*n.Expr), Format)
		if err != nil {
			b.tb.Fatalf("Invalid expression %q: %v", *n.Expr, err)
		}

		return die.Expr{Expr: expr}

	case n.List != nil:
		l := list{failAt: n.FailAt}
		for _, le := range n.List {
			expr, err := locexpr.Decode(b.decode(le.Expr), Format)
			if err != nil {
				b.tb.Fatalf("Invalid expression %q: %v", le.Expr, err)
			}

			l.entries = append(l.entries, listEntry{low: le.Low, high: le.High, expr: expr})
		}

		return die.List{Lookup: l}

	default:
		return nil
	}
}

func (b *builder) decode(s string) []byte {
	raw, err := hex.DecodeString(s)
	if err != nil {
		b.tb.Fatalf("Invalid hex %q: %v", s, err)
	}

	return raw
}

type listEntry struct {
	low, high uint64
	expr      locexpr.Expression
}

type list struct {
	entries []listEntry
	failAt  *uint64
}

func (l list) At(addr uint64) ([]locexpr.Expression, error) {
	if l.failAt != nil && *l.failAt == addr {
		return nil, ErrQuery
	}

	var exprs []locexpr.Expression

	for _, e := range l.entries {
		if e.low <= addr && addr < e.high {
			exprs = append(exprs, e.expr)
		}
	}

	return exprs, nil
}
