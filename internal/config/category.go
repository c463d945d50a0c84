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

package config

import (
	"fmt"
	"strings"
)

// Category classifies a variable-like debug entry.
type Category uint8

//go:generate go tool stringer -type Category -linecomment
const (
	// SingleAddr marks entries located by a single fixed address expression.
	SingleAddr Category = iota // single_addr
	// Artificial marks compiler-generated entries (DW_AT_artificial).
	Artificial // artificial
	// Inlined marks entries inside a subprogram declared or actually inlined.
	Inlined // inlined
	// InlinedSubroutine marks entries inside a DW_TAG_inlined_subroutine.
	InlinedSubroutine // inlined_subroutine
	// NoCoverage marks entries where not a single address is covered.
	NoCoverage // no_coverage
	// Mutable marks entries with at least one address-described piece.
	Mutable // mutable
	// Immutable marks entries with at least one value-described piece.
	Immutable // immutable
)

// NumCategories is the size of the [Category] enumeration.
const NumCategories = int(Immutable) + 1

// CategoryMask is the set of categories an entry belongs to, or that a rule selects.
type CategoryMask = BitMask[Category]

// UnknownCategoryError is a rule grammar warning for a token that names no [Category].
type UnknownCategoryError struct {
	Token string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Token)
}

// ParseCategories parses a comma separated list of category names.
//
// Unknown names are skipped and returned as warnings, parsing continues with the
// next item. Empty items are ignored.
func ParseCategories(text string) (CategoryMask, []error) {
	var (
		mask     CategoryMask
		warnings []error
	)

	for token := range strings.SplitSeq(text, ",") {
		if token == "" {
			continue
		}

		c, ok := LookupCategory(token)
		if !ok {
			warnings = append(warnings, &UnknownCategoryError{Token: token})

			continue
		}

		mask.Enable(c)
	}

	return mask, warnings
}

// LookupCategory returns the [Category] with the exact given name.
func LookupCategory(name string) (Category, bool) {
	for c := range Category(NumCategories) {
		if c.String() == name {
			return c, true
		}
	}

	return 0, false
}
