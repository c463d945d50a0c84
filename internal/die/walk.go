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

package die

import (
	"debug/dwarf"
	"errors"
	"iter"
	"slices"
)

// ErrMissingRanges is returned when no entry on the ancestor stack records address ranges.
var ErrMissingRanges = errors.New("no ranges for this DIE")

// Stack is the chain of entries from the unit root to the current entry, inclusive.
type Stack []*Entry

// Current returns the innermost entry.
func (s Stack) Current() *Entry {
	if len(s) == 0 {
		return nil
	}

	return s[len(s)-1]
}

// Parent returns the direct parent of the current entry, or nil for a unit root.
func (s Stack) Parent() *Entry {
	if len(s) < 2 {
		return nil
	}

	return s[len(s)-2]
}

// EnclosingRanges returns the innermost non-empty range set on the stack,
// starting with the current entry.
func (s Stack) EnclosingRanges() (RangeSet, error) {
	for _, e := range slices.Backward(s) {
		if len(e.Ranges) > 0 {
			return e.Ranges, nil
		}
	}

	return nil, ErrMissingRanges
}

// Enclosing returns the innermost proper ancestor with one of the given tags.
func (s Stack) Enclosing(tags ...dwarf.Tag) *Entry {
	if len(s) < 2 {
		return nil
	}

	for _, e := range slices.Backward(s[:len(s)-1]) {
		if slices.Contains(tags, e.Tag) {
			return e
		}
	}

	return nil
}

// Walk yields every entry of the tree rooted at root in depth-first pre-order,
// as the stack of its ancestors.
//
// The yielded stack is reused; it is only valid until the next iteration.
// Use [slices.Clone] to retain it.
func Walk(root *Entry) iter.Seq[Stack] {
	return func(yield func(Stack) bool) {
		if root == nil {
			return
		}

		stack, next := Stack{root}, []int{0}
		if !yield(stack) {
			return
		}

		for len(stack) > 0 {
			top := len(stack) - 1

			parent := stack[top]
			if next[top] >= len(parent.Children) {
				stack, next = stack[:top], next[:top]

				continue
			}

			child := parent.Children[next[top]]
			next[top]++

			stack, next = append(stack, child), append(next, 0)
			if !yield(stack) {
				return
			}
		}
	}
}

// WalkUnits walks all unit trees in order. An error from the unit sequence is
// yielded with a nil stack and ends the walk.
func WalkUnits(units iter.Seq2[*Entry, error]) iter.Seq2[Stack, error] {
	return func(yield func(Stack, error) bool) {
		for unit, err := range units {
			if err != nil {
				yield(nil, err)

				return
			}

			for s := range Walk(unit) {
				if !yield(s, nil) {
					return
				}
			}
		}
	}
}
