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

package checker

import (
	"flag"

	"fillmore-labs.com/dwarfcheck/internal/config"
)

// RegisterFlags binds the [Checker] configuration to command line flag values.
// A nil flag set value defaults to the program's command line.
func (c *Checker) RegisterFlags(flags *flag.FlagSet) {
	if flags == nil {
		flags = flag.CommandLine
	}

	flags.Var(newModeValue(&c.modes, config.CheckLines), "check-debug-lines", "check for missing declaration lines and files")
	flags.Var(newModeValue(&c.modes, config.CheckVariables), "check-debug-vars", "check the location coverage of variables")
	flags.StringVar(&c.tabulate, "tabulate", c.tabulate, "print a coverage table with the given `rules` (START[:STEP],...)")
	flags.StringVar(&c.ignore, "ignore", c.ignore, "skip variables of the given comma separated `categories`")
	flags.StringVar(&c.dump, "dump", c.dump, "print only variables of the given comma separated `categories`")
	flags.IntVar(&c.jobs, "jobs", c.jobs, "number of files checked in parallel")
}
