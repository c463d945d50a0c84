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

package locexpr

import (
	"fmt"
	"strings"

	"github.com/go-delve/delve/pkg/dwarf/op"
)

// Op is a single decoded operation of a location expression.
type Op struct {
	Opcode op.Opcode
	// Operands holds the fixed-size and LEB128 operands in order. Signed operands
	// are stored in two's complement, block operands contribute their length.
	Operands []uint64
	// Block is the data of DW_OP_implicit_value, DW_OP_entry_value and typed constants.
	Block []byte
}

// Expression is a decoded location expression.
type Expression []Op

// SingleAddress reports whether the expression is exactly one static address.
func (e Expression) SingleAddress() bool {
	return len(e) == 1 && (e[0].Opcode == op.DW_OP_addr || e[0].Opcode == OpAddrx || e[0].Opcode == OpGNUAddrIndex)
}

func (e Expression) String() string {
	var sb strings.Builder
	for i, o := range e {
		if i > 0 {
			sb.WriteByte(' ')
		}

		fmt.Fprintf(&sb, "%#02x", byte(o.Opcode))

		for _, v := range o.Operands {
			fmt.Fprintf(&sb, ":%#x", v)
		}
	}

	return sb.String()
}

// Storage is the classification of the pieces of a location.
//
// Mutable pieces are described by an address (memory or register), immutable
// pieces by a computed value.
type Storage struct {
	Mutable   bool
	Immutable bool
}

// Union combines the classifications of two locations.
func (s Storage) Union(o Storage) Storage {
	return Storage{Mutable: s.Mutable || o.Mutable, Immutable: s.Immutable || o.Immutable}
}

// Classify scans the operations once and classifies every piece of the expression.
//
// A piece is immutable when a value-form operation (DW_OP_stack_value,
// DW_OP_implicit_value) precedes its DW_OP_piece or DW_OP_bit_piece.
// The trailing piece is always committed, so an empty expression is mutable.
func Classify(expr Expression) Storage {
	var (
		s       Storage
		pending bool // value-form operation seen in the current piece
	)

	commit := func() {
		if pending {
			s.Immutable = true
		} else {
			s.Mutable = true
		}

		pending = false
	}

	for _, o := range expr {
		switch o.Opcode {
		case op.DW_OP_stack_value, op.DW_OP_implicit_value:
			pending = true

		case op.DW_OP_piece, op.DW_OP_bit_piece:
			commit()
		}
	}

	commit()

	return s
}
