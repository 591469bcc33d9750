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

package dataflow

import (
	"reflect"
	"testing"

	"github.com/awslabs/argot-svd/analysis/cfg"
	"github.com/awslabs/argot-svd/analysis/ir"
	"github.com/awslabs/argot-svd/internal/funcutil"
)

func assign(id int, lhs, rhs string) ir.Statement {
	return ir.Statement{ID: ir.StmtID(id), Op: ir.OpAssign, Operands: ir.Operands{LHS: lhs, RHS: rhs}}
}

func call(id int, callee string, args ...string) ir.Statement {
	return ir.Statement{ID: ir.StmtID(id), Op: ir.OpCall, Operands: ir.Operands{Callee: callee, Args: args}}
}

func marker(id int, op ir.Op, cond string) ir.Statement {
	return ir.Statement{ID: ir.StmtID(id), Op: op, Operands: ir.Operands{Cond: cond}}
}

func ret(id int, expr string) ir.Statement {
	return ir.Statement{ID: ir.StmtID(id), Op: ir.OpReturn, Operands: ir.Operands{Expr: expr}}
}

func analyze(t *testing.T, f *ir.Function, cfgOpts cfg.Options, opts Options) (*cfg.CFG, *Facts) {
	t.Helper()
	g, err := cfg.Build(f, cfgOpts)
	if err != nil {
		t.Fatalf("failed to build cfg: %v", err)
	}
	return g, Analyze(g, opts)
}

func TestJoinUnionsBranches(t *testing.T) {
	f := &ir.Function{Name: "f", Body: []ir.Statement{
		marker(1, ir.OpIf, "c"),
		assign(2, "x", "1"),
		marker(3, ir.OpElse, ""),
		assign(4, "x", "2"),
		marker(5, ir.OpEndIf, ""),
		assign(6, "y", "x"),
	}}
	g, facts := analyze(t, f, cfg.Options{}, Options{})
	join, _ := g.BlockOf(6)
	if !facts.DefinedIn[join].Has("x") {
		t.Errorf("x should be defined on entry to the join block, got %v", facts.DefinedIn[join])
	}
	if facts.DefinedIn[g.Entry].Has("x") {
		t.Errorf("x should not be defined on entry")
	}
	if facts.Passes != 1 {
		t.Errorf("an acyclic cfg should converge in one pass, took %d", facts.Passes)
	}
}

func TestSeededEntry(t *testing.T) {
	f := &ir.Function{
		Name:   "copy",
		Params: []string{"argc", "argv"},
		Arrays: map[string]int{"d": 8},
		Body:   []ir.Statement{call(1, "strcpy", "d", "argv[1]")},
	}
	g, facts := analyze(t, f, cfg.Options{}, Options{SeedParameters: true})
	if got := facts.DefinedIn[g.Entry].Sorted(); !reflect.DeepEqual(got, []string{"argc", "argv"}) {
		t.Errorf("expected parameters to be defined on entry, got %v", got)
	}
	g, facts = analyze(t, f, cfg.Options{}, Options{SeedParameters: true, SeedArrays: true})
	if got := facts.DefinedIn[g.Entry].Sorted(); !reflect.DeepEqual(got, []string{"argc", "argv", "d"}) {
		t.Errorf("expected parameters and arrays to be defined on entry, got %v", got)
	}
	g, facts = analyze(t, f, cfg.Options{}, Options{SeedArrays: true})
	if got := facts.DefinedIn[g.Entry].Sorted(); !reflect.DeepEqual(got, []string{"d"}) {
		t.Errorf("expected only d to be defined on entry, got %v", got)
	}
}

func TestUninitializedReturn(t *testing.T) {
	f := &ir.Function{Name: "f", Body: []ir.Statement{ret(1, "x")}}
	g, facts := analyze(t, f, cfg.Options{}, Options{})
	if len(facts.DefinedIn[g.Entry]) != 0 || len(facts.TaintIn[g.Entry]) != 0 {
		t.Errorf("entry sets should be empty, got %v and %v", facts.DefinedIn[g.Entry], facts.TaintIn[g.Entry])
	}
}

func TestTaintPropagation(t *testing.T) {
	f := &ir.Function{Name: "f", Params: []string{"n"}, Body: []ir.Statement{
		call(1, "gets", "buf"),
		assign(2, "s", "buf + 1"),
		assign(3, "k", "n * 2"),
		marker(4, ir.OpIf, "k"),
		call(5, "strcpy", "d", "s"),
		marker(6, ir.OpEndIf, ""),
	}}
	g, facts := analyze(t, f, cfg.Options{}, Options{SeedParameters: true})
	then, _ := g.BlockOf(5)
	if got := facts.TaintIn[then].Sorted(); !reflect.DeepEqual(got, []string{"buf", "s"}) {
		t.Errorf("expected buf and s to be tainted in the branch, got %v", got)
	}
	if got := facts.DefinedIn[then].Sorted(); !reflect.DeepEqual(got, []string{"k", "n", "s"}) {
		t.Errorf("unexpected defined set %v", got)
	}
	// statement-level facts
	defined, tainted := facts.Before(g, g.Entry, 1)
	if defined.Has("s") || !tainted.Has("buf") || tainted.Has("s") {
		t.Errorf("unexpected facts after the first statement: %v %v", defined, tainted)
	}
	definedExit, taintExit := facts.Exit(g.Entry)
	all, allTainted := facts.Before(g, g.Entry, len(g.Block(g.Entry).Stmts))
	if !funcutil.SetEqual(definedExit, all) || !funcutil.SetEqual(taintExit, allTainted) {
		t.Errorf("replaying a whole block should give its exit sets")
	}
}

func TestCustomTaintSources(t *testing.T) {
	f := &ir.Function{Name: "f", Body: []ir.Statement{
		call(1, "gets", "a"),
		call(2, "recv", "b"),
	}}
	g, facts := analyze(t, f, cfg.Options{}, Options{TaintSources: map[string]bool{"recv": true}})
	_, tainted := facts.Exit(g.Entry)
	if tainted.Has("a") || !tainted.Has("b") {
		t.Errorf("only recv should be a taint source, got %v", tainted)
	}
}

func loopFunction() *ir.Function {
	return &ir.Function{Name: "loop", Body: []ir.Statement{
		assign(1, "i", "0"),
		marker(2, ir.OpLoop, "i < n"),
		assign(3, "y", "x"),
		marker(4, ir.OpIf, "i"),
		call(5, "fgets", "x", "10", "stdin"),
		marker(6, ir.OpEndIf, ""),
		assign(7, "i", "i + 1"),
		marker(8, ir.OpEndLoop, ""),
		ret(9, "y"),
	}}
}

func TestLoopBackEdge(t *testing.T) {
	g, facts := analyze(t, loopFunction(), cfg.Options{}, Options{})
	header, _ := g.BlockOf(2)
	body, _ := g.BlockOf(3)
	exit, _ := g.BlockOf(9)
	// x is tainted in the body on the second iteration, so y is tainted when the loop exits
	if !facts.TaintIn[body].Has("x") {
		t.Errorf("x should be tainted on entry to the body through the back-edge, got %v", facts.TaintIn[body])
	}
	if !facts.TaintIn[exit].Has("y") {
		t.Errorf("y should be tainted after the loop, got %v", facts.TaintIn[exit])
	}
	if !facts.DefinedIn[header].Has("y") {
		t.Errorf("y should be defined on the back-edge, got %v", facts.DefinedIn[header])
	}
	if facts.Passes < 2 || facts.Passes > g.NumBlocks() {
		t.Errorf("expected between 2 and %d passes, got %d", g.NumBlocks(), facts.Passes)
	}
}

func TestLoopForward(t *testing.T) {
	g, facts := analyze(t, loopFunction(), cfg.Options{ForwardLoops: true}, Options{})
	exit, _ := g.BlockOf(9)
	if facts.TaintIn[exit].Has("y") {
		t.Errorf("without back-edges, y is only assigned before x is tainted")
	}
	if facts.Passes != 1 {
		t.Errorf("forward cfg should converge in one pass, took %d", facts.Passes)
	}
}

func TestMonotoneConvergence(t *testing.T) {
	var history []*Facts
	g, facts := analyze(t, loopFunction(), cfg.Options{}, Options{
		PostPassCallback: func(_ int, f *Facts) { history = append(history, f) },
	})
	if len(history) != facts.Passes {
		t.Fatalf("expected %d snapshots, got %d", facts.Passes, len(history))
	}
	for i := 1; i < len(history); i++ {
		for _, b := range g.Blocks() {
			if !funcutil.IsSubset(history[i-1].DefinedIn[b.ID], history[i].DefinedIn[b.ID]) ||
				!funcutil.IsSubset(history[i-1].TaintIn[b.ID], history[i].TaintIn[b.ID]) {
				t.Errorf("facts of %s decreased at pass %d", b.ID, i+1)
			}
		}
	}
	// running the analysis again gives the same facts
	again := Analyze(g, Options{})
	for _, b := range g.Blocks() {
		if !funcutil.SetEqual(again.DefinedIn[b.ID], facts.DefinedIn[b.ID]) ||
			!funcutil.SetEqual(again.TaintIn[b.ID], facts.TaintIn[b.ID]) {
			t.Errorf("analysis is not deterministic on %s", b.ID)
		}
	}
}
