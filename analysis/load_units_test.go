// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package analysis_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/awslabs/argot-svd/analysis"
	"github.com/awslabs/argot-svd/analysis/config"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
}

func quietLogger() *config.LogGroup {
	logger := config.NewLogGroup(config.NewDefault())
	logger.SetAllOutput(io.Discard)
	return logger
}

const smallUnit = `
functions:
  - name: f
    body:
      - {id: 1, op: return, expr: "0"}
`

func TestLoadUnits(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.yaml":         "file: a.c\n" + smallUnit,
		"noname.yaml":    smallUnit,
		"notes.txt":      "not a unit",
		"sub/b.yml":      "file: b.c\n" + smallUnit,
		"vendor/c.yaml":  "file: c.c\n" + smallUnit,
		"single/d.yaml":  "file: d.c\n" + smallUnit,
		"single/e.other": smallUnit,
	})

	units, err := analysis.LoadUnits([]string{dir}, []string{"**/vendor/**", "**/single/**"}, quietLogger())
	if err != nil {
		t.Fatalf("failed to load units: %v", err)
	}
	var names []string
	for _, u := range units {
		names = append(names, u.Filename)
	}
	expected := []string{"a.c", filepath.Join(dir, "noname.yaml"), "b.c"}
	if strings.Join(names, ",") != strings.Join(expected, ",") {
		t.Errorf("expected units %v, got %v", expected, names)
	}

	// a file path is loaded whatever its extension
	units, err = analysis.LoadUnits([]string{filepath.Join(dir, "single", "e.other")}, nil, quietLogger())
	if err != nil {
		t.Fatalf("failed to load unit: %v", err)
	}
	if len(units) != 1 || len(units[0].Functions) != 1 {
		t.Errorf("expected one unit with one function, got %v", units)
	}
}

func TestLoadUnitsErrors(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"bad.yaml": "functions:\n  - name: f\n    body:\n      - {id: 2, op: return}\n      - {id: 1, op: return}\n",
	})
	if _, err := analysis.LoadUnits([]string{dir}, nil, quietLogger()); err == nil ||
		!strings.Contains(err.Error(), "bad.yaml") {
		t.Errorf("expected an error naming bad.yaml, got %v", err)
	}
	if _, err := analysis.LoadUnits([]string{filepath.Join(dir, "missing")}, nil, quietLogger()); err == nil {
		t.Errorf("expected an error on a missing path")
	}
	if _, err := analysis.LoadUnits([]string{dir}, []string{"["}, quietLogger()); err == nil ||
		!strings.Contains(err.Error(), "malformed exclude pattern") {
		t.Errorf("expected a malformed pattern error, got %v", err)
	}
}

func TestIsExcluded(t *testing.T) {
	for _, test := range []struct {
		path     string
		patterns []string
		excluded bool
	}{
		{"units/vendor/x.yaml", []string{"**/vendor/**"}, true},
		{"vendor/x.yaml", []string{"**/vendor/**"}, true},
		{"units/x.yaml", []string{"**/vendor/**"}, false},
		{"generated/x.yaml", []string{"generated/*.yaml"}, true},
		{"generated/deep/x.yaml", []string{"generated/*.yaml"}, false},
		{"x.yaml", nil, false},
	} {
		excluded, err := analysis.IsExcluded(test.path, test.patterns)
		if err != nil {
			t.Errorf("unexpected error on %s: %v", test.path, err)
		}
		if excluded != test.excluded {
			t.Errorf("IsExcluded(%q, %v) = %v, expected %v", test.path, test.patterns, excluded, test.excluded)
		}
	}
}
