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

package check_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "fillmore-labs.com/dwarfcheck/internal/check"
	"fillmore-labs.com/dwarfcheck/internal/coverage"
	"fillmore-labs.com/dwarfcheck/internal/tabrule"
)

func TestTabulate(t *testing.T) {
	t.Parallel()

	var h Histogram
	for _, c := range []coverage.Coverage{coverage.ZeroCoverage, 0, 5, 10, 10, 99, 100, 100} {
		h.Add(c)
	}

	if h.Total() != 8 || h.Count(10) != 2 || h.Count(coverage.ZeroCoverage) != 1 {
		t.Fatalf("Unexpected histogram: total %d, count(10) %d", h.Total(), h.Count(10))
	}

	chain, _ := tabrule.Parse("0.0,0,1:9,99")

	var out strings.Builder
	h.Tabulate(&out, chain)

	want := "cov%\tsamples\tcumul\n" +
		"0.0\t1/12%\t1/12%\n" +
		"0\t1/12%\t2/25%\n" +
		"1\t0/0%\t2/25%\n" +
		"2..10\t3/37%\t5/62%\n" +
		"11..19\t0/0%\t5/62%\n" +
		"20..28\t0/0%\t5/62%\n" +
		"29..37\t0/0%\t5/62%\n" +
		"38..46\t0/0%\t5/62%\n" +
		"47..55\t0/0%\t5/62%\n" +
		"56..64\t0/0%\t5/62%\n" +
		"65..73\t0/0%\t5/62%\n" +
		"74..82\t0/0%\t5/62%\n" +
		"83..91\t0/0%\t5/62%\n" +
		"92..99\t1/12%\t6/75%\n" +
		"100\t2/25%\t8/100%\n"

	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("Tabulate mismatch (-want +got):\n%s", diff)
	}

	if !chain.Done() {
		t.Errorf("Chain %v not exhausted", chain)
	}
}

func TestTabulateEmpty(t *testing.T) {
	t.Parallel()

	var h Histogram

	chain, _ := tabrule.Parse("")

	var out strings.Builder
	h.Tabulate(&out, chain)

	if got, want := out.String(), "cov%\tsamples\tcumul\n0..100\t0/0%\t0/0%\n"; got != want {
		t.Errorf("Got %q, want %q", got, want)
	}
}
