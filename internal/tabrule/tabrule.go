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

// Package tabrule implements the threshold chain that drives coverage tabulation.
//
// A rule string is a comma separated list of START[:STEP] items. START is either
// the zero coverage token "0.0" or a percentage, STEP repeats the rule every STEP
// percent. The chain always ends with the rule 100.
package tabrule

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"fillmore-labs.com/dwarfcheck/internal/coverage"
)

// ZeroToken is the rule start for [coverage.ZeroCoverage].
const ZeroToken = "0.0"

// Rule is a threshold to watch for. A zero Step makes it one-shot.
type Rule struct {
	Start coverage.Coverage
	Step  int
}

func (r Rule) String() string {
	if r.Step == 0 {
		return r.Start.String()
	}

	return r.Start.String() + ":" + strconv.Itoa(r.Step)
}

// terminal ends every chain.
var terminal = Rule{Start: coverage.Full, Step: 0}

// SyntaxError is a rule grammar warning for one item.
type SyntaxError struct {
	Item string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("tabulation rule %q: %s", e.Item, e.Msg)
}

// Chain is a sorted sequence of rules, the front being the next threshold of interest.
//
// A Chain is not safe for concurrent use; use [Chain.Clone] for each tabulation.
type Chain struct {
	rules []Rule
}

// Parse builds a chain from a rule string.
//
// Parse never fails. Malformed items are reported as [*SyntaxError] warnings:
// trailing characters after a number force the step to 0 and the item is kept,
// an item without a start or with a start outside [0, 100] is dropped.
//
// Items with equal starts are merged: a stepping rule is kept over a one-shot rule,
// the later item wins among equals, and a start of 100 is always the one-shot terminal.
func Parse(text string) (*Chain, []error) {
	var (
		rules    []Rule
		warnings []error
	)

	for item := range strings.SplitSeq(text, ",") {
		if item == "" {
			continue
		}

		r, ok, warning := parseItem(item)
		if warning != nil {
			warnings = append(warnings, warning)
		}

		if ok {
			rules = append(rules, r)
		}
	}

	rules = append(rules, terminal)

	slices.SortStableFunc(rules, func(a, b Rule) int { return cmp.Compare(a.Start, b.Start) })

	return &Chain{rules: dedup(rules)}, warnings
}

// parseItem parses one START[:STEP] item.
func parseItem(item string) (Rule, bool, error) {
	var (
		r    Rule
		rest string
	)

	if after, ok := strings.CutPrefix(item, ZeroToken); ok {
		r.Start, rest = coverage.ZeroCoverage, after
	} else {
		n, after, ok := leadingNumber(item)
		if !ok {
			return Rule{}, false, &SyntaxError{Item: item, Msg: "missing start"}
		}

		if n < 0 || n > int(coverage.Full) {
			return Rule{}, false, &SyntaxError{Item: item, Msg: "start out of range"}
		}

		r.Start, rest = coverage.Coverage(n), after
	}

	if rest == "" {
		return r, true, nil
	}

	after, ok := strings.CutPrefix(rest, ":")
	if !ok {
		return r, true, &SyntaxError{Item: item, Msg: "trailing characters " + strconv.Quote(rest)}
	}

	step, after, ok := leadingNumber(after)
	if !ok || after != "" {
		return r, true, &SyntaxError{Item: item, Msg: "invalid step " + strconv.Quote(rest[1:])}
	}

	r.Step = step

	return r, true, nil
}

// dedup keeps one rule per start. The terminal rule wins at [coverage.Full], elsewhere
// the last stepping rule, or the last rule if none steps.
func dedup(rules []Rule) []Rule {
	out := rules[:0]

	for i := 0; i < len(rules); {
		j, keep := i, rules[i]
		for ; j < len(rules) && rules[j].Start == rules[i].Start; j++ {
			if rules[j].Step != 0 || keep.Step == 0 {
				keep = rules[j]
			}
		}

		if keep.Start == coverage.Full {
			keep = terminal
		}

		out = append(out, keep)
		i = j
	}

	return out
}

// leadingNumber parses the decimal digits at the start of s.
func leadingNumber(s string) (int, string, bool) {
	i := 0
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
	}

	if i == 0 {
		return 0, s, false
	}

	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, s, false
	}

	return n, s[i:], true
}

// Match reports whether the front rule starts at c.
func (ch *Chain) Match(c coverage.Coverage) bool {
	return len(ch.rules) > 0 && ch.rules[0].Start == c
}

// Advance moves the chain to the next threshold of interest.
//
// A one-shot front rule is removed. Otherwise the front start moves by its step
// and is dropped when this passes the next rule. Leading rules with equal starts
// are collapsed. Advancing past the terminal rule exhausts the chain.
func (ch *Chain) Advance() {
	if len(ch.rules) == 0 {
		return
	}

	front := &ch.rules[0]
	if front.Step == 0 {
		ch.rules = ch.rules[1:]
	} else {
		if front.Start == coverage.ZeroCoverage {
			front.Start = 0
		}

		front.Start += coverage.Coverage(front.Step)

		if len(ch.rules) > 1 && ch.rules[0].Start > ch.rules[1].Start {
			ch.rules = ch.rules[1:]
		}
	}

	for len(ch.rules) > 1 && ch.rules[0].Start == ch.rules[1].Start {
		ch.rules = ch.rules[1:]
	}
}

// Done reports whether the chain has been exhausted.
func (ch *Chain) Done() bool {
	return len(ch.rules) == 0
}

// Rules returns a copy of the remaining rules.
func (ch *Chain) Rules() []Rule {
	return slices.Clone(ch.rules)
}

// Clone returns an independent copy of the chain.
func (ch *Chain) Clone() *Chain {
	return &Chain{rules: slices.Clone(ch.rules)}
}

func (ch *Chain) String() string {
	items := make([]string, len(ch.rules))
	for i, r := range ch.rules {
		items[i] = r.String()
	}

	return strings.Join(items, ",")
}
