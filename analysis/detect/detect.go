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

// Package detect runs the detectors over the statements of a function, using its CFG and dataflow facts.
//
// Detectors run on each statement in a fixed order: uninitialized read, division by zero, null dereference, unsafe
// library call and tainted data to sink. All the findings are collected; for identical inputs the sequence of
// findings is identical.
package detect

import (
	"strings"

	"github.com/awslabs/argot-svd/analysis/cfg"
	"github.com/awslabs/argot-svd/analysis/dataflow"
	"github.com/awslabs/argot-svd/analysis/findings"
	"github.com/awslabs/argot-svd/analysis/ir"
	"github.com/awslabs/argot-svd/analysis/registry"
	"github.com/awslabs/argot-svd/internal/funcutil"
)

// DefaultPointerNames are the variable names the null dereference detector treats as possibly-null pointers
var DefaultPointerNames = map[string]bool{"p": true, "ptr": true, "ptr1": true, "ptr2": true}

// Options parameterizes the detectors
type Options struct {
	// Registry is the table of library functions. When nil, registry.Default() is used.
	Registry *registry.Registry

	// PointerNames are the names of the possibly-null pointers. When nil, DefaultPointerNames is used.
	PointerNames map[string]bool

	// Disabled is the set of kinds whose detector does not run
	Disabled map[findings.Kind]bool

	// IntraBlockFacts makes the detectors use the facts holding just before each statement. When false, detectors
	// use the facts on entry to the statement's block.
	IntraBlockFacts bool

	// Extractor computes the variables read by statements. When nil, ir.DefaultExtractor is used.
	Extractor ir.Extractor
}

// site is a statement being checked, with the facts holding at the statement
type site struct {
	function string
	block    cfg.BlockID
	stmt     ir.Statement
	reads    []string
	defined  dataflow.Set
	tainted  dataflow.Set
}

type detector struct {
	kind findings.Kind
	run  func(d *detection, s *site)
}

// detectors in the order they run on each statement
var detectors = []detector{
	{findings.UninitializedRead, uninitializedRead},
	{findings.DivisionByZero, divisionByZero},
	{findings.NullDereference, nullDereference},
	{findings.UnsafeCall, unsafeCall},
	{findings.TaintedSink, taintedSink},
}

type detection struct {
	opts    Options
	results *findings.FindingSet
}

// Detect runs the detectors on every statement of g, in block creation order, and returns the findings.
func Detect(g *cfg.CFG, facts *dataflow.Facts, opts Options) *findings.FindingSet {
	if opts.Registry == nil {
		opts.Registry = registry.Default()
	}
	if opts.PointerNames == nil {
		opts.PointerNames = DefaultPointerNames
	}
	if opts.Extractor == nil {
		opts.Extractor = ir.DefaultExtractor
	}
	d := &detection{opts: opts, results: findings.NewFindingSet()}
	name := ""
	if g.Function != nil {
		name = g.Function.Name
	}

	for _, b := range g.Blocks() {
		for i, stmt := range b.Stmts {
			s := &site{
				function: name,
				block:    b.ID,
				stmt:     stmt,
				reads:    opts.Extractor.Reads(stmt),
			}
			if opts.IntraBlockFacts {
				s.defined, s.tainted = facts.Before(g, b.ID, i)
			} else {
				s.defined, s.tainted = facts.DefinedIn[b.ID], facts.TaintIn[b.ID]
			}
			for _, det := range detectors {
				if !opts.Disabled[det.kind] {
					det.run(d, s)
				}
			}
		}
	}
	return d.results
}

func uninitializedRead(d *detection, s *site) {
	undefined := funcutil.Filter(s.reads, func(v string) bool { return !ir.IsNumeric(v) && !s.defined.Has(v) })
	if len(undefined) > 0 {
		d.results.Add(findings.NewUninitializedRead(s.function, s.block, s.stmt.ID, s.reads, undefined))
	}
}

// divisionByZero flags assignments "x = a / b" where b is the literal 0 or a variable. The check is syntactic: the
// rhs must contain exactly one "/".
func divisionByZero(d *detection, s *site) {
	if s.stmt.Op != ir.OpAssign {
		return
	}
	parts := strings.Split(s.stmt.RHS, "/")
	if len(parts) != 2 {
		return
	}
	denominator := strings.TrimSpace(parts[1])
	if denominator == "0" || funcutil.Contains(s.reads, denominator) {
		d.results.Add(findings.NewDivisionByZero(s.function, s.block, s.stmt.ID, s.stmt.RHS, denominator))
	}
}

func nullDereference(d *detection, s *site) {
	if !strings.Contains(s.stmt.RHS, "*") && !strings.Contains(s.stmt.RHS, "->") {
		return
	}
	pointers := funcutil.Filter(s.reads, func(v string) bool { return d.opts.PointerNames[v] })
	if len(pointers) > 0 {
		d.results.Add(findings.NewNullDereference(s.function, s.block, s.stmt.ID, s.reads, pointers))
	}
}

func unsafeSink(d *detection, s *site) (*registry.Entry, bool) {
	if s.stmt.Op != ir.OpCall || !d.opts.Registry.Is(s.stmt.Callee, registry.UnsafeSink) {
		return nil, false
	}
	return d.opts.Registry.Lookup(s.stmt.Callee)
}

func unsafeCall(d *detection, s *site) {
	if e, ok := unsafeSink(d, s); ok {
		d.results.Add(findings.NewUnsafeCall(s.function, s.block, s.stmt, e.Severity, e.CWE, e.Risk))
	}
}

func taintedSink(d *detection, s *site) {
	if _, ok := unsafeSink(d, s); !ok {
		return
	}
	tainted := funcutil.Filter(s.reads, s.tainted.Has)
	if len(tainted) > 0 {
		d.results.Add(findings.NewTaintedSink(s.function, s.block, s.stmt, tainted))
	}
}
