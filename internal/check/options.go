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

package check

import (
	"fillmore-labs.com/dwarfcheck/internal/config"
	"fillmore-labs.com/dwarfcheck/internal/tabrule"
)

// Options represent the configuration of a check over one file.
type Options struct {
	// Mode selects the check to run.
	Mode config.Mode

	// Tabulate is the threshold chain of the coverage table, nil for no table.
	// Run works on a copy.
	Tabulate *tabrule.Chain

	// Ignore lists the categories of variables excluded from the check.
	Ignore config.CategoryMask

	// Dump lists the categories of variables whose coverage is printed.
	// An empty mask prints all variables.
	Dump config.CategoryMask
}

// DefaultOptions initializes and returns a new Options instance with default values.
func DefaultOptions() *Options {
	return &Options{
		Mode: config.Selected(config.DefaultModes()),
	}
}
