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

import "github.com/go-delve/delve/pkg/dwarf/op"

// DWARF 5 and GNU extension opcodes.
const (
	OpImplicitPointer    op.Opcode = 0xa0
	OpAddrx              op.Opcode = 0xa1
	OpConstx             op.Opcode = 0xa2
	OpEntryValue         op.Opcode = 0xa3
	OpConstType          op.Opcode = 0xa4
	OpRegvalType         op.Opcode = 0xa5
	OpDerefType          op.Opcode = 0xa6
	OpXderefType         op.Opcode = 0xa7
	OpConvert            op.Opcode = 0xa8
	OpReinterpret        op.Opcode = 0xa9
	OpGNUPushTLSAddress  op.Opcode = 0xe0
	OpGNUUninit          op.Opcode = 0xf0
	OpGNUImplicitPointer op.Opcode = 0xf2
	OpGNUEntryValue      op.Opcode = 0xf3
	OpGNUConstType       op.Opcode = 0xf4
	OpGNURegvalType      op.Opcode = 0xf5
	OpGNUDerefType       op.Opcode = 0xf6
	OpGNUConvert         op.Opcode = 0xf7
	OpGNUReinterpret     op.Opcode = 0xf9
	OpGNUParameterRef    op.Opcode = 0xfa
	OpGNUAddrIndex       op.Opcode = 0xfb
	OpGNUConstIndex      op.Opcode = 0xfc
	OpGNUVariableValue   op.Opcode = 0xfd
)

// operand is the encoding class of one operand.
type operand uint8

const (
	opAddr      operand = iota + 1 // target address
	opOffset                       // section offset, 4 or 8 bytes
	opU1                           // 1-byte unsigned
	opS1                           // 1-byte signed
	opU2                           // 2-byte unsigned
	opS2                           // 2-byte signed
	opU4                           // 4-byte unsigned
	opS4                           // 4-byte signed
	opU8                           // 8-byte unsigned
	opS8                           // 8-byte signed
	opULEB                         // unsigned LEB128
	opSLEB                         // signed LEB128
	opBlockULEB                    // ULEB128 length followed by that many bytes
	opBlock1                       // 1-byte length followed by that many bytes
)

func (k operand) size() int {
	switch k {
	case opU1, opS1:
		return 1
	case opU2, opS2:
		return 2
	case opU4, opS4:
		return 4
	case opU8, opS8:
		return 8
	default:
		return 0
	}
}

var operandTable = map[op.Opcode][]operand{
	op.DW_OP_addr:           {opAddr},
	op.DW_OP_const1u:        {opU1},
	op.DW_OP_const1s:        {opS1},
	op.DW_OP_const2u:        {opU2},
	op.DW_OP_const2s:        {opS2},
	op.DW_OP_const4u:        {opU4},
	op.DW_OP_const4s:        {opS4},
	op.DW_OP_const8u:        {opU8},
	op.DW_OP_const8s:        {opS8},
	op.DW_OP_constu:         {opULEB},
	op.DW_OP_consts:         {opSLEB},
	op.DW_OP_pick:           {opU1},
	op.DW_OP_plus_uconst:    {opULEB},
	op.DW_OP_skip:           {opS2},
	op.DW_OP_bra:            {opS2},
	op.DW_OP_regx:           {opULEB},
	op.DW_OP_fbreg:          {opSLEB},
	op.DW_OP_bregx:          {opULEB, opSLEB},
	op.DW_OP_piece:          {opULEB},
	op.DW_OP_deref_size:     {opU1},
	op.DW_OP_xderef_size:    {opU1},
	op.DW_OP_call2:          {opU2},
	op.DW_OP_call4:          {opU4},
	op.DW_OP_call_ref:       {opOffset},
	op.DW_OP_bit_piece:      {opULEB, opULEB},
	op.DW_OP_implicit_value: {opBlockULEB},

	OpImplicitPointer:    {opOffset, opSLEB},
	OpAddrx:              {opULEB},
	OpConstx:             {opULEB},
	OpEntryValue:         {opBlockULEB},
	OpConstType:          {opULEB, opBlock1},
	OpRegvalType:         {opULEB, opULEB},
	OpDerefType:          {opU1, opULEB},
	OpXderefType:         {opU1, opULEB},
	OpConvert:            {opULEB},
	OpReinterpret:        {opULEB},
	OpGNUImplicitPointer: {opOffset, opSLEB},
	OpGNUEntryValue:      {opBlockULEB},
	OpGNUConstType:       {opULEB, opBlock1},
	OpGNURegvalType:      {opULEB, opULEB},
	OpGNUDerefType:       {opU1, opULEB},
	OpGNUConvert:         {opULEB},
	OpGNUReinterpret:     {opULEB},
	OpGNUParameterRef:    {opU4},
	OpGNUAddrIndex:       {opULEB},
	OpGNUConstIndex:      {opULEB},
	OpGNUVariableValue:   {opOffset},
}

// operandsOf returns the operand encodings of an opcode. Opcodes without operands
// return an empty list, unknown opcodes report false.
func operandsOf(code op.Opcode) ([]operand, bool) {
	if kinds, ok := operandTable[code]; ok {
		return kinds, true
	}

	switch {
	case code >= op.DW_OP_breg0 && code <= op.DW_OP_breg31:
		return []operand{opSLEB}, true

	case code >= op.DW_OP_lit0 && code <= op.DW_OP_reg31,
		code == op.DW_OP_deref,
		code >= op.DW_OP_dup && code <= op.DW_OP_xor,
		code >= op.DW_OP_eq && code <= op.DW_OP_ne,
		code == op.DW_OP_nop,
		code == op.DW_OP_push_object_address,
		code == op.DW_OP_form_tls_address,
		code == op.DW_OP_call_frame_cfa,
		code == op.DW_OP_stack_value,
		code == OpGNUPushTLSAddress,
		code == OpGNUUninit:
		return nil, true

	default:
		return nil, false
	}
}
