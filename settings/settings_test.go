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

package settings_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"fillmore-labs.com/dwarfcheck/checker"
	"fillmore-labs.com/dwarfcheck/internal/config"
	. "fillmore-labs.com/dwarfcheck/settings"
)

const allSettings = `---
mode: lines
tabulate: "0.0,0:10"
ignore: artificial,inlined
dump: no_coverage
jobs: 4
`

func TestSettings(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name     string
		settings string
		want     int
	}{
		{"all", allSettings, reflect.TypeFor[Settings]().NumField()},
		{"some", "tabulate: \"0.0\"\n", 1},
		{"none", `{}`, 0},
		{"empty", "", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, err := Decode(strings.NewReader(tc.settings))
			if err != nil {
				t.Fatalf("Can't decode settings: %v", err)
			}

			if got := s.Options(); len(got) != tc.want {
				t.Errorf("Got %d options: %s, want %d", len(got), checker.Options(got).LogValue(), tc.want)
			}
		})
	}
}

func TestDecodeValues(t *testing.T) {
	t.Parallel()

	s, err := Decode(strings.NewReader(allSettings))
	if err != nil {
		t.Fatalf("Can't decode settings: %v", err)
	}

	if s.Mode == nil || *s.Mode != config.CheckLines {
		t.Errorf("Got mode %v, want %v", s.Mode, config.CheckLines)
	}

	if s.Tabulate == nil || *s.Tabulate != "0.0,0:10" {
		t.Errorf("Got tabulate %v, want %q", s.Tabulate, "0.0,0:10")
	}

	if s.Jobs == nil || *s.Jobs != 4 {
		t.Errorf("Got jobs %v, want 4", s.Jobs)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name     string
		settings string
	}{
		{"unknown key", "verbose: true\n"},
		{"unknown mode", "mode: fast\n"},
		{"invalid jobs", "jobs: many\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Decode(strings.NewReader(tc.settings)); err == nil {
				t.Error("Expected decode error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dwarfcheck.yaml")
	if err := os.WriteFile(path, []byte(allSettings), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got, want := len(s.Options()), reflect.TypeFor[Settings]().NumField(); got != want {
		t.Errorf("Got %d options, want %d", got, want)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !os.IsNotExist(err) {
		t.Errorf("Got error %v, want not exist", err)
	}
}
