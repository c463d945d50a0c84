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

package checker

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"

	"fillmore-labs.com/dwarfcheck/internal/config"
	"fillmore-labs.com/dwarfcheck/internal/die"
	"fillmore-labs.com/dwarfcheck/internal/testdie"
)

func NewModeValue(modes *config.Modes, m config.Mode) flag.Getter {
	return newModeValue(modes, m)
}

// WithUnits replaces the file reader with synthetic units.
func WithUnits(files map[string][]*die.Entry) Option { return unitsOption{files: files} }

type unitsOption struct{ files map[string][]*die.Entry }

func (o unitsOption) apply(c *Checker) {
	c.open = func(name string, _ *slog.Logger) (iter.Seq2[*die.Entry, error], io.Closer, error) {
		roots, ok := o.files[name]
		if !ok {
			return nil, nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
		}

		return testdie.Units(roots), nopCloser{}, nil
	}
}

func (o unitsOption) LogAttr() slog.Attr {
	return slog.Int("units", len(o.files))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
