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

// Package coverage computes the fraction of an entry's live address range
// that is described by a location.
package coverage

import (
	"errors"
	"fmt"
	"strconv"

	"fillmore-labs.com/dwarfcheck/internal/die"
	"fillmore-labs.com/dwarfcheck/internal/locexpr"
)

// Coverage is a location coverage percentage in [0, 100] or [ZeroCoverage].
type Coverage int

// ZeroCoverage means not a single address is covered. It is distinct from 0,
// which is a partial coverage rounded down.
const ZeroCoverage Coverage = -1

// Full is the coverage of a location valid over the whole live range.
const Full Coverage = 100

func (c Coverage) String() string {
	if c == ZeroCoverage {
		return "0.0"
	}

	return strconv.Itoa(int(c))
}

// ErrZeroLengthRange is returned when the live ranges of an entry have no addresses.
var ErrZeroLengthRange = errors.New("zero-length range")

// LocationQueryError is returned when a location can not be queried.
type LocationQueryError struct {
	// Addr is the failed query address of a location list.
	Addr uint64
	Err  error

	list bool
}

func (e *LocationQueryError) Error() string {
	if !e.list {
		return fmt.Sprintf("invalid location: %v", e.Err)
	}

	return fmt.Sprintf("location query at %#x: %v", e.Addr, e.Err)
}

func (e *LocationQueryError) Unwrap() error {
	return e.Err
}

// Result is the coverage and storage classification of one location.
type Result struct {
	Coverage Coverage
	Storage  locexpr.Storage
}

// Compute returns the coverage of loc over the live ranges.
//
// ranges are only consulted for location lists; a location list with empty
// ranges fails with [die.ErrMissingRanges].
func Compute(loc die.Location, ranges die.RangeSet) (Result, error) {
	switch l := loc.(type) {
	case die.ConstValue:
		return Result{Coverage: Full, Storage: locexpr.Storage{Immutable: true}}, nil

	case nil:
		return Result{Coverage: ZeroCoverage}, nil

	case die.Expr:
		if len(l.Expr) == 0 {
			return Result{Coverage: ZeroCoverage}, nil
		}

		return Result{Coverage: Full, Storage: locexpr.Classify(l.Expr)}, nil

	case die.List:
		return scan(l.Lookup, ranges)

	case die.Invalid:
		return Result{}, &LocationQueryError{Err: l.Err}

	default:
		return Result{}, fmt.Errorf("unsupported location %T", loc)
	}
}

// scan queries the location list at every address of ranges.
func scan(lookup die.LocationLookup, ranges die.RangeSet) (Result, error) {
	if len(ranges) == 0 {
		return Result{}, die.ErrMissingRanges
	}

	var (
		storage         locexpr.Storage
		length, covered uint64
	)

	for _, r := range ranges {
		length += r.Len()

		for addr := r.Low; addr < r.High; addr++ {
			exprs, err := lookup.At(addr)
			if err != nil {
				return Result{}, &LocationQueryError{Addr: addr, Err: err, list: true}
			}

			hit := false

			for _, expr := range exprs {
				if len(expr) == 0 {
					continue
				}

				hit = true

				if !storage.Mutable || !storage.Immutable {
					storage = storage.Union(locexpr.Classify(expr))
				}
			}

			if hit {
				covered++
			}
		}
	}

	if length == 0 {
		return Result{}, ErrZeroLengthRange
	}

	if covered == 0 {
		return Result{Coverage: ZeroCoverage}, nil
	}

	return Result{Coverage: Coverage(100 * covered / length), Storage: storage}, nil
}
