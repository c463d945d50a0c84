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

// Package locexpr decodes DWARF location expressions and classifies their storage.
//
// A location expression is a small stack program. For coverage analysis only two
// kinds of operations matter:
//
//   - value-form operations (DW_OP_stack_value, DW_OP_implicit_value) state that
//     the result is the value itself, not its address
//   - composite boundaries (DW_OP_piece, DW_OP_bit_piece) end one piece of a
//     composite location
//
// All other operations are decoded only to find the next opcode.
package locexpr
