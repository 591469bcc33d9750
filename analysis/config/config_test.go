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

package config

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

//go:embed testdata
var testfsys embed.FS

func loadFromTestDir(filename string) (string, *Config, error) {
	filename = filepath.Join("testdata", filename)
	b, err := testfsys.ReadFile(filename)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file %v: %v", filename, err)
	}
	config, err := LoadFromBytes(filename, b)
	if err != nil {
		return filename, nil, fmt.Errorf("failed to load file %v: %v", filename, err)
	}
	return filename, config, err
}

func testLoadOneFile(t *testing.T, filename string, expected Config) {
	configFileName, config, err := loadFromTestDir(filename)
	if err != nil {
		t.Fatalf("Error loading %q: %v", configFileName, err)
	}
	c1, err1 := yaml.Marshal(config)
	c2, err2 := yaml.Marshal(expected)
	if err1 != nil {
		t.Errorf("Error marshalling %v", config)
	}
	if err2 != nil {
		t.Errorf("Error marshalling %v", expected)
	}
	if !bytes.Equal(c1, c2) {
		t.Errorf("Error in %q:\n%q is not\n%q\n", filename, c1, c2)
	}
}

func TestLoadFull(t *testing.T) {
	expected := NewDefault()
	expected.LogLevel = int(DebugLevel)
	expected.Workers = 8
	expected.MaxAlarms = 10
	expected.FunctionFilter = "^(main|handle_.*)$"
	expected.SeedParameters = true
	expected.SeedArrays = true
	expected.FilteredReads = true
	expected.TaintSources = []string{"recv"}
	expected.PointerNames = []string{"node"}
	expected.DisabledDetectors = []string{"division-by-zero"}
	expected.Sinks = []SinkSpec{
		{
			Callee:   "sprintf",
			Role:     RoleUnsafe,
			Severity: "High",
			CWE:      "CWE-120",
			Risk:     "a buffer overflow",
			Fix:      "snprintf(buf, sizeof(buf), fmt, ...);",
		},
		{
			Callee:    "syslog",
			Role:      RoleFormat,
			FormatArg: 1,
			Severity:  "Medium",
			CWE:       "CWE-134",
		},
	}
	expected.ExcludePaths = []string{"**/vendor/**", "generated/*.yaml"}
	testLoadOneFile(t, "config.yaml", *expected)
}

func TestLoadEmpty(t *testing.T) {
	testLoadOneFile(t, "empty.yaml", *NewDefault())
}

func TestLoadErrors(t *testing.T) {
	_, _, err := loadFromTestDir("bad-role.yaml")
	if err == nil || !strings.Contains(err.Error(), "unknown role") {
		t.Errorf("expected an unknown role error, got %v", err)
	}
	_, err = LoadFromBytes("inline.yaml", []byte("options: [1, 2"))
	if err == nil {
		t.Errorf("expected a yaml error")
	}
	_, err = Load(filepath.Join("testdata", "does-not-exist.yaml"))
	if err == nil {
		t.Errorf("expected an error on missing file")
	}
}

func TestFunctionFilter(t *testing.T) {
	_, c, err := loadFromTestDir("config.yaml")
	if err != nil {
		t.Fatal(err)
	}
	for name, expected := range map[string]bool{"main": true, "handle_input": true, "mainly": false, "other": false} {
		if c.MatchFunctionFilter(name) != expected {
			t.Errorf("filter on %q should be %v", name, expected)
		}
	}
	// a filter that is not a regex is a prefix
	_, c, err = loadFromTestDir("bad-filter.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !c.MatchFunctionFilter("handle_(x)") || c.MatchFunctionFilter("handle_x") {
		t.Errorf("invalid regex filters should be used as prefixes")
	}
	if !NewDefault().MatchFunctionFilter("anything") {
		t.Errorf("empty filter should match everything")
	}
}

func TestDisabledDetectors(t *testing.T) {
	c := NewDefault()
	c.DisabledDetectors = []string{" Division-By-Zero "}
	if !c.IsDetectorDisabled("division-by-zero") || c.IsDetectorDisabled("unsafe-call") {
		t.Errorf("unexpected disabled detectors")
	}
}

func TestLogGroup(t *testing.T) {
	c := NewDefault()
	c.LogLevel = int(WarnLevel)
	l := NewLogGroup(c)
	var buf bytes.Buffer
	l.SetAllOutput(&buf)
	l.SetAllFlags(0)
	l.Infof("hidden")
	l.Warnf("shown %d", 1)
	l.Errorf("error")
	if out := buf.String(); out != "[WARN] shown 1\n[ERROR] error\n" {
		t.Errorf("unexpected log output %q", out)
	}
	c.SilenceWarn = true
	if NewLogGroup(c).LogsLevel(WarnLevel) {
		t.Errorf("warnings should be silenced")
	}
	if !reflect.DeepEqual(l.GetError(), l.err) {
		t.Errorf("GetError should return the error logger")
	}
}
