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

// Package analysistest loads test units and the findings they expect.
//
// A test directory contains a unit.yaml file with the lowered unit and an optional config.yaml file. The findings
// expected on a statement are annotated with a comment on the line of the statement:
//
//	functions:
//	  - name: main
//	    body:
//	      - {id: 1, op: call, func: gets, args: [buf]}   # @Expect(unsafe-call)
//
// The function of a statement is the closest "- name:" line above it.
package analysistest

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/awslabs/argot-svd/analysis/config"
	"github.com/awslabs/argot-svd/analysis/findings"
	"github.com/awslabs/argot-svd/analysis/ir"
)

// LoadTest loads the unit in the directory dir of fsys, looking for a unit.yaml and a config.yaml. If there is no
// config.yaml, the default config is returned. The raw content of the unit file is returned for
// GetExpectedFindings.
func LoadTest(t *testing.T, fsys fs.FS, dir string) (*ir.Unit, *config.Config, []byte) {
	unitFile := path.Join(dir, "unit.yaml")
	b, err := fs.ReadFile(fsys, unitFile)
	if err != nil {
		t.Fatalf("error reading %s: %v", unitFile, err)
	}
	unit, err := ir.ParseUnit(b)
	if err != nil {
		t.Fatalf("error loading unit %s: %v", unitFile, err)
	}
	if unit.Filename == "" {
		unit.Filename = unitFile
	}

	cfg := config.NewDefault()
	configFile := path.Join(dir, "config.yaml")
	if cb, err := fs.ReadFile(fsys, configFile); err == nil {
		cfg, err = config.LoadFromBytes(configFile, cb)
		if err != nil {
			t.Fatalf("error loading config %s: %v", configFile, err)
		}
	}
	return unit, cfg, b
}

// Match annotations of the form "# @Expect(kind1, kind2)"
var ExpectRegex = regexp.MustCompile(`#.*@Expect\(((?:\s*[\w-]+\s*,?)+)\)`)

var functionRegex = regexp.MustCompile(`^\s*-\s*name:\s*["']?([\w.$]+)`)

var stmtIDRegex = regexp.MustCompile(`\bid:\s*(\d+)`)

// Expectation is a finding of some kind expected on a statement
type Expectation struct {
	Function string
	Stmt     ir.StmtID
	Kind     findings.Kind
}

func (e Expectation) String() string {
	return fmt.Sprintf("%s:%d:%s", e.Function, e.Stmt, e.Kind)
}

// GetExpectedFindings scans the unit file content b for @Expect annotations and returns the set of expected
// findings.
func GetExpectedFindings(t *testing.T, b []byte) map[Expectation]bool {
	expected := map[Expectation]bool{}
	function := ""
	for i, line := range strings.Split(string(b), "\n") {
		if m := functionRegex.FindStringSubmatch(line); len(m) > 1 {
			function = m[1]
		}
		a := ExpectRegex.FindStringSubmatch(line)
		if len(a) <= 1 {
			continue
		}
		idMatch := stmtIDRegex.FindStringSubmatch(line)
		if len(idMatch) <= 1 {
			t.Fatalf("line %d: @Expect annotation on a line without statement id", i+1)
		}
		id, _ := strconv.Atoi(idMatch[1])
		for _, name := range strings.Split(a[1], ",") {
			kind, err := findings.ParseKind(name)
			if err != nil {
				t.Fatalf("line %d: %v", i+1, err)
			}
			expected[Expectation{Function: function, Stmt: ir.StmtID(id), Kind: kind}] = true
		}
	}
	return expected
}

// CheckFindings checks that the findings are exactly the expected ones. Several findings of the same kind on the
// same statement match a single expectation.
func CheckFindings(t *testing.T, expected map[Expectation]bool, got []findings.Finding) {
	t.Helper()
	seen := map[Expectation]bool{}
	for _, f := range got {
		e := Expectation{Function: f.Function, Stmt: f.Stmt(), Kind: f.Kind}
		seen[e] = true
		if !expected[e] {
			t.Errorf("unexpected finding %s: %s", e, f.Message)
		}
	}
	var missing []string
	for e := range expected {
		if !seen[e] {
			missing = append(missing, e.String())
		}
	}
	sort.Strings(missing)
	for _, e := range missing {
		t.Errorf("missing finding %s", e)
	}
}
