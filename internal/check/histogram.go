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

package check

import (
	"fmt"
	"io"

	"fillmore-labs.com/dwarfcheck/internal/coverage"
	"fillmore-labs.com/dwarfcheck/internal/tabrule"
)

// Histogram counts variables per coverage value, including [coverage.ZeroCoverage].
type Histogram struct {
	counts [int(coverage.Full) + 2]int
	total  int
}

// Add records one variable.
func (h *Histogram) Add(c coverage.Coverage) {
	h.counts[c-coverage.ZeroCoverage]++
	h.total++
}

// Count returns the number of variables with coverage c.
func (h *Histogram) Count(c coverage.Coverage) int {
	return h.counts[c-coverage.ZeroCoverage]
}

// Total returns the number of recorded variables.
func (h *Histogram) Total() int {
	return h.total
}

// Tabulate writes one row for each threshold of the chain, with the samples
// since the previous row and the cumulative count. The chain is advanced.
func (h *Histogram) Tabulate(w io.Writer, chain *tabrule.Chain) {
	_, _ = io.WriteString(w, "cov%\tsamples\tcumul\n")

	var cumulative, last int

	lastPct := coverage.ZeroCoverage

	for c := coverage.ZeroCoverage; c <= coverage.Full; c++ {
		cumulative += h.Count(c)

		if !chain.Match(c) {
			continue
		}

		if lastPct == coverage.ZeroCoverage && c > coverage.ZeroCoverage {
			lastPct = 0
		}

		label := lastPct.String()
		if lastPct != c {
			label += ".." + c.String()
		}

		samples := cumulative - last

		_, _ = fmt.Fprintf(w, "%s\t%d/%d%%\t%d/%d%%\n",
			label, samples, h.percent(samples), cumulative, h.percent(cumulative))

		last, lastPct = cumulative, c+1

		chain.Advance()
	}
}

func (h *Histogram) percent(n int) int {
	if h.total == 0 {
		return 0
	}

	return 100 * n / h.total
}
