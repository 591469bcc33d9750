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

package registry

import (
	"reflect"
	"testing"

	"github.com/awslabs/argot-svd/analysis/config"
	"github.com/awslabs/argot-svd/analysis/findings"
	"github.com/awslabs/argot-svd/analysis/ir"
)

func callStmt(callee string, args ...string) ir.Statement {
	return ir.Statement{ID: 1, Op: ir.OpCall, Operands: ir.Operands{Callee: callee, Args: args}}
}

func TestDefaultTables(t *testing.T) {
	r := Default()
	if !reflect.DeepEqual(r.TaintSources(), map[string]bool{"gets": true, "fgets": true, "scanf": true}) {
		t.Errorf("unexpected taint sources %v", r.TaintSources())
	}
	var sinks []string
	for _, e := range r.WithRole(UnsafeSink) {
		sinks = append(sinks, e.Callee)
	}
	if expected := []string{"gets", "memcpy", "scanf", "strcat", "strcpy", "system"}; !reflect.DeepEqual(sinks, expected) {
		t.Errorf("expected sinks %v, got %v", expected, sinks)
	}
	for callee, sev := range map[string]findings.Severity{
		"strcpy": findings.High, "gets": findings.High, "system": findings.High,
		"strcat": findings.Medium, "scanf": findings.Medium, "memcpy": findings.Medium,
	} {
		e, _ := r.Lookup(callee)
		if e.Severity != sev {
			t.Errorf("%s should have severity %s, has %s", callee, sev, e.Severity)
		}
		expectedCWE := findings.CWE(120)
		if callee == "system" {
			expectedCWE = 78
		}
		if e.CWE != expectedCWE {
			t.Errorf("%s should have %s, has %s", callee, expectedCWE, e.CWE)
		}
	}
}

func TestTriggers(t *testing.T) {
	r := Default()
	printf, _ := r.Lookup("printf")
	system, _ := r.Lookup("system")
	tests := []struct {
		entry    *Entry
		role     Role
		stmt     ir.Statement
		expected bool
	}{
		{printf, FormatFunction, callStmt("printf", "msg"), true},
		{printf, FormatFunction, callStmt("printf", `"%s"`, "msg"), false},
		{printf, FormatFunction, callStmt("printf", `"a" "b"`), false},
		{printf, FormatFunction, callStmt("printf"), false},
		{printf, FormatFunction, callStmt("puts", "msg"), false},
		{printf, CommandSink, callStmt("printf", "msg"), false},
		{system, CommandSink, callStmt("system", `"ls"`), true},
		{system, CommandSink, callStmt("system"), false},
	}
	for _, test := range tests {
		if got := test.entry.Triggers(test.role, test.stmt); got != test.expected {
			t.Errorf("%s triggers on %s: expected %v, got %v", test.entry.Callee, ir.CallText(test.stmt),
				test.expected, got)
		}
	}
}

func TestFixes(t *testing.T) {
	r := Default()
	for _, test := range []struct {
		call     findings.CallEvidence
		expected bool
	}{
		{findings.CallEvidence{Callee: "strcpy", Call: "strcpy(d, s)"}, true},
		{findings.CallEvidence{Callee: "scanf", Call: `scanf("%s", buf)`}, true},
		{findings.CallEvidence{Callee: "scanf", Call: `scanf("%d", &n)`}, false},
		{findings.CallEvidence{Callee: "system", Call: "system(cmd)"}, false},
		{findings.CallEvidence{Callee: "fgets", Call: "fgets(b, 8, stdin)"}, false},
		{findings.CallEvidence{Callee: "unknown", Call: "unknown(b, 8, in)"}, false},
	} {
		if _, ok := r.FixFor(test.call); ok != test.expected {
			t.Errorf("fix for %s: expected %v", test.call.Call, test.expected)
		}
	}
}

func TestFromConfig(t *testing.T) {
	c := config.NewDefault()
	c.TaintSources = []string{"recv", "strcpy"}
	c.Sinks = []config.SinkSpec{
		{Callee: "sprintf", Role: config.RoleUnsafe, Severity: "High", CWE: "CWE-120", Fix: "snprintf"},
		{Callee: "syslog", Role: config.RoleFormat, FormatArg: 1, CWE: "134"},
		{Callee: "memcpy", Role: config.RoleUnsafe, Severity: "Low"},
	}
	r, err := FromConfig(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Is("recv", TaintSource) || !r.Is("strcpy", TaintSource|UnsafeSink) {
		t.Errorf("config taint sources should be added to the registry")
	}
	if e, _ := r.Lookup("sprintf"); e.Severity != findings.High || e.CWE != 120 || e.Risk == "" {
		t.Errorf("unexpected sprintf entry %+v", e)
	}
	syslog, _ := r.Lookup("syslog")
	if !syslog.Triggers(FormatFunction, callStmt("syslog", "LOG_ERR", "msg")) ||
		syslog.Triggers(FormatFunction, callStmt("syslog", "msg", `"x"`)) {
		t.Errorf("syslog should check its second argument")
	}
	if e, _ := r.Lookup("memcpy"); e.Severity != findings.Low || e.CWE != findings.NoCWE {
		t.Errorf("config sinks should override default entries, got %+v", e)
	}
	if Default().Is("recv", TaintSource) {
		t.Errorf("FromConfig should not modify the default registry")
	}

	c.Sinks = []config.SinkSpec{{Callee: "x", Severity: "Critical"}}
	if _, err := FromConfig(c); err == nil {
		t.Errorf("expected an error on an invalid severity")
	}
}

func TestRoleString(t *testing.T) {
	if s := (TaintSource | UnsafeSink).String(); s != "source|unsafe" {
		t.Errorf("unexpected role string %q", s)
	}
}
