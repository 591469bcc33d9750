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
	"github.com/awslabs/argot-svd/analysis/cfg"
	"github.com/awslabs/argot-svd/analysis/ir"
	"github.com/awslabs/argot-svd/internal/funcutil"
	"golang.org/x/tools/container/intsets"
)

// DefaultTaintSources are the functions whose arguments become tainted when no taint source is specified
var DefaultTaintSources = map[string]bool{"gets": true, "fgets": true, "scanf": true}

// Options parameterizes the dataflow analysis.
type Options struct {
	// TaintSources is the set of callee names whose arguments become tainted. When nil, DefaultTaintSources is used.
	TaintSources map[string]bool

	// SeedParameters makes the function's parameters defined on entry to the entry block
	SeedParameters bool

	// SeedArrays makes the arrays declared by the function defined on entry to the entry block
	SeedArrays bool

	// Extractor computes the variables read and written by statements. When nil, ir.DefaultExtractor is used.
	Extractor ir.Extractor

	// PostPassCallback is called after each pass if it is non-nil, with a copy of the facts at the end of the pass.
	// Useful for debugging purposes.
	PostPassCallback func(pass int, facts *Facts)
}

// Analyze computes the dataflow facts of the CFG g. It always terminates: the sets only ever grow and are bounded by
// the variables of the function.
//
// Blocks are visited round-robin in creation order. Only blocks whose predecessors' exit sets changed since they
// were last visited are recomputed, and the analysis stops after the first pass that visits no block.
func Analyze(g *cfg.CFG, opts Options) *Facts {
	facts := &Facts{
		DefinedIn:  make(map[cfg.BlockID]Set, g.NumBlocks()),
		TaintIn:    make(map[cfg.BlockID]Set, g.NumBlocks()),
		definedOut: make(map[cfg.BlockID]Set, g.NumBlocks()),
		taintOut:   make(map[cfg.BlockID]Set, g.NumBlocks()),
		extractor:  opts.Extractor,
		sources:    opts.TaintSources,
	}
	if facts.extractor == nil {
		facts.extractor = ir.DefaultExtractor
	}
	if facts.sources == nil {
		facts.sources = DefaultTaintSources
	}

	var dirty intsets.Sparse
	for _, b := range g.Blocks() {
		facts.DefinedIn[b.ID] = Set{}
		facts.TaintIn[b.ID] = Set{}
		dirty.Insert(int(b.ID))
	}
	if opts.SeedParameters && g.Function != nil {
		funcutil.AddAll(facts.DefinedIn[g.Entry], g.Function.Params...)
	}
	if opts.SeedArrays && g.Function != nil {
		for name := range g.Function.Arrays {
			facts.DefinedIn[g.Entry][name] = true
		}
	}

	for !dirty.IsEmpty() {
		facts.Passes++
		for _, b := range g.Blocks() {
			if !dirty.Remove(int(b.ID)) {
				continue
			}
			if facts.visit(b) {
				for _, s := range b.Succs {
					dirty.Insert(int(s))
				}
			}
		}
		if opts.PostPassCallback != nil {
			opts.PostPassCallback(facts.Passes, facts.clone())
		}
	}
	return facts
}

// visit recomputes the entry and exit sets of block b from the exit sets of its predecessors. It returns true when
// the exit sets of b changed, or were computed for the first time.
func (f *Facts) visit(b *cfg.BasicBlock) bool {
	definedIn, taintIn := f.DefinedIn[b.ID], f.TaintIn[b.ID]
	for _, p := range b.Preds {
		funcutil.Union(definedIn, f.definedOut[p])
		funcutil.Union(taintIn, f.taintOut[p])
	}

	t := f.newTransfer(definedIn, taintIn)
	for _, stmt := range b.Stmts {
		ir.StmtSwitch(t, stmt)
	}

	prevDefined, seen := f.definedOut[b.ID]
	prevTainted := f.taintOut[b.ID]
	f.definedOut[b.ID] = t.defined
	f.taintOut[b.ID] = t.tainted
	return !seen || !funcutil.SetEqual(prevDefined, t.defined) || !funcutil.SetEqual(prevTainted, t.tainted)
}
