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
	"iter"
	"math/bits"
	"strings"
)

// Enum is the constraint for closed enumerations usable in a [BitMask].
// Values must be smaller than 64.
type Enum interface {
	~uint8
	fmt.Stringer
}

// BitMask is a fixed-width set of enumeration values.
type BitMask[E Enum] struct {
	value uint64
}

// NewBitMask creates a new typed [BitMask] instance with the specified values enabled.
func NewBitMask[E Enum](values ...E) BitMask[E] {
	var b BitMask[E]
	for _, v := range values {
		b.Enable(v)
	}

	return b
}

// Set adjusts the bitmask by enabling or disabling the specified value.
func (b *BitMask[E]) Set(v E, on bool) {
	if on {
		b.Enable(v)
	} else {
		b.Disable(v)
	}
}

// Enable adds the given value to the set.
func (b *BitMask[E]) Enable(v E) {
	b.value |= 1 << v
}

// Disable removes the given value from the set.
func (b *BitMask[E]) Disable(v E) {
	b.value &^= 1 << v
}

// Enabled checks if the specified value is in the set.
func (b BitMask[E]) Enabled(v E) bool {
	return b.value&(1<<v) != 0
}

// Intersects reports whether b and o have at least one value in common.
func (b BitMask[E]) Intersects(o BitMask[E]) bool {
	return b.value&o.value != 0
}

// Union returns the values present in either b or o.
func (b BitMask[E]) Union(o BitMask[E]) BitMask[E] {
	return BitMask[E]{value: b.value | o.value}
}

// Empty reports whether no value is set.
func (b BitMask[E]) Empty() bool {
	return b.value == 0
}

// Len returns the number of values in the set.
func (b BitMask[E]) Len() int {
	return bits.OnesCount64(b.value)
}

// All yields the values in the set in ascending order.
func (b BitMask[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for rest := b.value; rest != 0; rest &= rest - 1 {
			if !yield(E(bits.TrailingZeros64(rest))) {
				return
			}
		}
	}
}

// String returns the comma separated names of the values in the set.
func (b BitMask[E]) String() string {
	var sb strings.Builder
	for v := range b.All() {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}

		sb.WriteString(v.String())
	}

	return sb.String()
}
