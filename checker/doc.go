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

// Package checker implements the dwarfcheck quality checks over ELF files.
//
// # Overview
//
// dwarfcheck reads the DWARF debugging information of compiled programs and
// reports how well it describes the source:
//
//   - lines: variables, parameters and functions without a declaration line or file
//   - vars: the share of its scope in which each variable has a known location
//
// # Example
//
//	$ dwarfcheck -tabulate=0.0,0:10 -dump=no_coverage prog
//	****CHECKING DEBUG VARIABLES****
//	Function <main> variable <unused>:
//		-location coverage:0.0%
//	cov%	samples	cumul
//	0.0	1/4%	1/4%
//	...
//
// # Categories
//
// Variables can be ignored or selected for output by category:
//
//   - single_addr: located by a single fixed address
//   - artificial: generated by the compiler
//   - inlined, inlined_subroutine: part of inlined code
//   - no_coverage: without any covered address
//   - mutable, immutable: located in storage or described by value
package checker
