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

// Mode selects which check is run over the debug information.
type Mode uint8

//go:generate go tool stringer -type Mode -linecomment
const (
	// CheckVariables reports the location coverage of variables and parameters.
	CheckVariables Mode = iota // vars

	// CheckLines reports entries without declaration line or file.
	CheckLines // lines
)

// Modes is the set of modes requested on the command line.
type Modes = BitMask[Mode]

// DefaultModes returns the modes enabled when nothing is configured.
func DefaultModes() Modes {
	return NewBitMask(CheckVariables)
}

// Selected returns the mode to run. Line checks take precedence.
func Selected(m Modes) Mode {
	if m.Enabled(CheckLines) {
		return CheckLines
	}

	return CheckVariables
}

// MarshalText implements [encoding.TextMarshaler].
func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case CheckVariables, CheckLines:
		return []byte(m.String()), nil

	default:
		return nil, fmt.Errorf("unknown mode %d", m)
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "vars", "variables", "check-debug-vars":
		*m = CheckVariables

	case "lines", "check-debug-lines":
		*m = CheckLines

	default:
		return fmt.Errorf("unknown mode %q", string(text))
	}

	return nil
}
