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
	"strings"

	"github.com/awslabs/argot-svd/analysis/cfg"
	"github.com/awslabs/argot-svd/analysis/ir"
	"github.com/awslabs/argot-svd/internal/funcutil"
)

// Set is a set of variable names
type Set map[string]bool

// Has returns true when x is in the set
func (s Set) Has(x string) bool {
	return s[x]
}

// Sorted returns the members of the set in increasing order
func (s Set) Sorted() []string {
	return funcutil.SetToOrderedSlice(s)
}

func (s Set) String() string {
	return "{" + strings.Join(s.Sorted(), ", ") + "}"
}

// Facts are the dataflow facts of one function.
// The maps DefinedIn and TaintIn have an entry for every block of the CFG the facts have been computed on.
type Facts struct {
	// DefinedIn maps each block to the set of variables that may be defined on entry to the block
	DefinedIn map[cfg.BlockID]Set

	// TaintIn maps each block to the set of variables that may be tainted on entry to the block
	TaintIn map[cfg.BlockID]Set

	// Passes is the number of passes over the blocks the analysis took to reach the fixed point
	Passes int

	definedOut map[cfg.BlockID]Set
	taintOut   map[cfg.BlockID]Set

	extractor ir.Extractor
	sources   map[string]bool
}

// Exit returns the sets of defined and tainted variables at the exit of block
func (f *Facts) Exit(block cfg.BlockID) (defined Set, tainted Set) {
	return f.definedOut[block], f.taintOut[block]
}

// Before returns the sets of defined and tainted variables just before the statement at index in the block. An index
// of zero gives the entry sets, and an index equal to the number of statements gives the exit sets.
// The sets returned are fresh copies.
func (f *Facts) Before(g *cfg.CFG, block cfg.BlockID, index int) (defined Set, tainted Set) {
	t := f.newTransfer(f.DefinedIn[block], f.TaintIn[block])
	b := g.Block(block)
	if b == nil {
		return t.defined, t.tainted
	}
	for i, stmt := range b.Stmts {
		if i >= index {
			break
		}
		ir.StmtSwitch(t, stmt)
	}
	return t.defined, t.tainted
}

func (f *Facts) newTransfer(defined Set, tainted Set) *transfer {
	return &transfer{
		extractor: f.extractor,
		sources:   f.sources,
		defined:   funcutil.Clone(defined),
		tainted:   funcutil.Clone(tainted),
	}
}

// clone returns a deep copy of the block-entry facts
func (f *Facts) clone() *Facts {
	c := &Facts{
		DefinedIn: make(map[cfg.BlockID]Set, len(f.DefinedIn)),
		TaintIn:   make(map[cfg.BlockID]Set, len(f.TaintIn)),
		Passes:    f.Passes,
		extractor: f.extractor,
		sources:   f.sources,
	}
	for b, s := range f.DefinedIn {
		c.DefinedIn[b] = funcutil.Clone(s)
	}
	for b, s := range f.TaintIn {
		c.TaintIn[b] = funcutil.Clone(s)
	}
	return c
}
