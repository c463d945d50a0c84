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
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-delve/delve/pkg/dwarf/op"
)

var (
	// ErrUnknownOpcode is returned for opcodes without a known operand encoding.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrTruncated is returned when an operand extends past the end of the expression.
	ErrTruncated = errors.New("truncated operand")
)

// Format describes the unit-dependent sizes needed to decode operands.
type Format struct {
	// AddrSize is the size of a target address in bytes.
	AddrSize int
	// OffsetSize is 4 for 32-bit DWARF and 8 for 64-bit DWARF.
	OffsetSize int
	// Order is the byte order of the target.
	Order binary.ByteOrder
}

// DecodeError reports where decoding of an expression failed.
type DecodeError struct {
	Offset int
	Opcode op.Opcode
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("location expression at byte %d (opcode %#02x): %v", e.Offset, byte(e.Opcode), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode splits a raw DWARF expression into operations.
//
// On error the operations decoded so far are returned together with a [*DecodeError].
func Decode(raw []byte, f Format) (Expression, error) {
	d := decoder{data: raw, format: f}

	var expr Expression
	for d.pos < len(d.data) {
		start := d.pos
		code := op.Opcode(d.data[d.pos])
		d.pos++

		kinds, ok := operandsOf(code)
		if !ok {
			return expr, &DecodeError{Offset: start, Opcode: code, Err: ErrUnknownOpcode}
		}

		o := Op{Opcode: code}
		for _, k := range kinds {
			if err := d.operand(k, &o); err != nil {
				return expr, &DecodeError{Offset: start, Opcode: code, Err: err}
			}
		}

		expr = append(expr, o)
	}

	return expr, nil
}

type decoder struct {
	data   []byte
	pos    int
	format Format
}

func (d *decoder) operand(k operand, o *Op) error {
	switch k {
	case opAddr:
		v, err := d.fixed(d.format.AddrSize)
		if err != nil {
			return err
		}

		o.Operands = append(o.Operands, v)

	case opOffset:
		v, err := d.fixed(d.format.OffsetSize)
		if err != nil {
			return err
		}

		o.Operands = append(o.Operands, v)

	case opU1, opU2, opU4, opU8:
		v, err := d.fixed(k.size())
		if err != nil {
			return err
		}

		o.Operands = append(o.Operands, v)

	case opS1, opS2, opS4, opS8:
		size := k.size()

		v, err := d.fixed(size)
		if err != nil {
			return err
		}

		shift := 64 - 8*size
		o.Operands = append(o.Operands, uint64(int64(v<<shift)>>shift))

	case opULEB:
		v, n := binary.Uvarint(d.data[d.pos:])
		if n <= 0 {
			return ErrTruncated
		}

		d.pos += n
		o.Operands = append(o.Operands, v)

	case opSLEB:
		v, n := sleb128(d.data[d.pos:])
		if n <= 0 {
			return ErrTruncated
		}

		d.pos += n
		o.Operands = append(o.Operands, uint64(v))

	case opBlockULEB:
		size, n := binary.Uvarint(d.data[d.pos:])
		if n <= 0 {
			return ErrTruncated
		}

		d.pos += n

		return d.block(size, o)

	case opBlock1:
		if d.pos >= len(d.data) {
			return ErrTruncated
		}

		size := uint64(d.data[d.pos])
		d.pos++

		return d.block(size, o)
	}

	return nil
}

func (d *decoder) fixed(size int) (uint64, error) {
	if size <= 0 || size > 8 || len(d.data)-d.pos < size {
		return 0, ErrTruncated
	}

	b := d.data[d.pos : d.pos+size]
	d.pos += size

	order := d.format.Order
	if order == nil {
		order = binary.LittleEndian
	}

	switch size {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(order.Uint16(b)), nil
	case 4:
		return uint64(order.Uint32(b)), nil
	case 8:
		return order.Uint64(b), nil
	}

	var v uint64
	if order == binary.BigEndian {
		for _, c := range b {
			v = v<<8 | uint64(c)
		}
	} else {
		for i := len(b) - 1; i >= 0; i-- {
			v = v<<8 | uint64(b[i])
		}
	}

	return v, nil
}

func (d *decoder) block(size uint64, o *Op) error {
	if uint64(len(d.data)-d.pos) < size {
		return ErrTruncated
	}

	o.Operands = append(o.Operands, size)
	o.Block = d.data[d.pos : d.pos+int(size)]
	d.pos += int(size)

	return nil
}

// sleb128 decodes a signed LEB128 number, returning the number of bytes read
// or 0 if the input ends early.
func sleb128(b []byte) (int64, int) {
	var (
		v     int64
		shift uint
	)

	for i, c := range b {
		if shift < 64 {
			v |= int64(c&0x7f) << shift
		}

		shift += 7

		if c&0x80 == 0 {
			if shift < 64 && c&0x40 != 0 {
				v |= -1 << shift
			}

			return v, i + 1
		}
	}

	return 0, 0
}
