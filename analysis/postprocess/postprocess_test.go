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

package postprocess_test

import (
	"testing"

	"github.com/awslabs/argot-svd/analysis/cfg"
	"github.com/awslabs/argot-svd/analysis/dataflow"
	"github.com/awslabs/argot-svd/analysis/detect"
	"github.com/awslabs/argot-svd/analysis/findings"
	"github.com/awslabs/argot-svd/analysis/ir"
	"github.com/awslabs/argot-svd/analysis/postprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unit = `
functions:
  - name: main
    params: [argc, argv, msg, cmd]
    body:
      - {id: 1, op: call, func: gets, args: ["buf"]}
      - {id: 2, op: if, cond: "argc > 1"}
      - {id: 3, op: call, func: strcpy, args: ["buf", "argv[1]"]}
      - {id: 4, op: call, func: scanf, args: ['"%d"', "&n"]}
      - {id: 5, op: call, func: scanf, args: ['"%s"', "buf"]}
      - {id: 6, op: endif}
      - {id: 7, op: call, func: printf, args: ["msg"]}
      - {id: 8, op: call, func: printf, args: ['"%s\n"', "msg"]}
      - {id: 9, op: call, func: system, args: ["cmd"]}
`

func analyze(t *testing.T) (*ir.Function, *cfg.CFG, *findings.FindingSet) {
	u, err := ir.ParseUnit([]byte(unit))
	require.NoError(t, err)
	f, ok := u.Function("main")
	require.True(t, ok)
	g, err := cfg.Build(f, cfg.Options{})
	require.NoError(t, err)
	facts := dataflow.Analyze(g, dataflow.Options{SeedParameters: true})
	return f, g, detect.Detect(g, facts, detect.Options{Disabled: map[findings.Kind]bool{
		findings.UninitializedRead: true,
	}})
}

func TestInjectionFindings(t *testing.T) {
	f, g, fs := analyze(t)
	res := postprocess.Run(f, fs, postprocess.Options{CFG: g})

	format := res.OfKind(findings.FormatString)
	require.Len(t, format, 1)
	assert.Equal(t, ir.StmtID(7), format[0].Stmt())
	assert.Equal(t, findings.Medium, format[0].Severity)
	assert.Equal(t, "CWE-134", format[0].CWE.String())
	assert.NotEmpty(t, format[0].Fix)
	assert.Equal(t, "B2", format[0].BlockString())

	injection := res.OfKind(findings.CommandInjection)
	require.Len(t, injection, 1)
	assert.Equal(t, ir.StmtID(9), injection[0].Stmt())
	assert.Equal(t, findings.High, injection[0].Severity)
	assert.Equal(t, findings.CWE(78), injection[0].CWE)

	// the unsafe call finding on system is kept, with the same classification
	unsafe := res.OfKind(findings.UnsafeCall)
	require.NotEmpty(t, unsafe)
	last := unsafe[len(unsafe)-1]
	assert.Equal(t, ir.StmtID(9), last.Stmt())
	assert.Equal(t, injection[0].CWE, last.CWE)
	assert.Equal(t, injection[0].Severity, last.Severity)

	// the input set is not modified
	assert.Equal(t, fs.Len()+2, res.Len())
	assert.Empty(t, fs.OfKind(findings.FormatString))
}

func TestQuickFixes(t *testing.T) {
	f, g, fs := analyze(t)
	res := postprocess.Run(f, fs, postprocess.Options{CFG: g})

	fixes := map[ir.StmtID]string{}
	for _, finding := range res.OfKind(findings.UnsafeCall) {
		fixes[finding.Stmt()] = finding.Fix
	}
	assert.Contains(t, fixes[1], "fgets")
	assert.Contains(t, fixes[3], "strncpy")
	assert.Empty(t, fixes[4], "scanf without %s needs no fix")
	assert.Contains(t, fixes[5], "%15s")
	assert.Empty(t, fixes[9])

	tainted := res.OfKind(findings.TaintedSink)
	require.Len(t, tainted, 2)
	assert.Contains(t, tainted[0].Fix, "strncpy")
	assert.Contains(t, tainted[1].Fix, "%15s")

	for _, finding := range fs.All() {
		assert.Empty(t, finding.Fix, "fixes must not be attached to the input findings")
	}
}

func TestIdempotent(t *testing.T) {
	f, g, fs := analyze(t)
	once := postprocess.Run(f, fs, postprocess.Options{CFG: g})
	twice := postprocess.Run(f, once, postprocess.Options{CFG: g})
	assert.Equal(t, once.All(), twice.All())
}

func TestExistingFixIsKept(t *testing.T) {
	stmt := ir.Statement{ID: 1, Op: ir.OpCall, Operands: ir.Operands{Callee: "strcpy", Args: []string{"a", "b"}}}
	fs := findings.NewFindingSet(findings.NewUnsafeCall("f", 0, stmt, findings.High, 120, "a buffer overflow").
		WithFix("custom fix"))
	res := postprocess.Run(&ir.Function{Name: "f", Body: []ir.Statement{stmt}}, fs, postprocess.Options{})
	require.Equal(t, 1, res.Len())
	assert.Equal(t, "custom fix", res.All()[0].Fix)
}

func TestDisabledInjectionDetectors(t *testing.T) {
	f, _, fs := analyze(t)
	res := postprocess.Run(f, fs, postprocess.Options{Disabled: map[findings.Kind]bool{
		findings.FormatString:     true,
		findings.CommandInjection: true,
	}})
	assert.Equal(t, fs.Len(), res.Len())
	// without a cfg, injection findings have no block
	res = postprocess.Run(f, fs, postprocess.Options{})
	assert.Equal(t, "-", res.OfKind(findings.CommandInjection)[0].BlockString())
}
