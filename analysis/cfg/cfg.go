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

// Package cfg builds the control-flow graph of a lowered function.
//
// The builder walks the flat statement sequence of a function and splits it into basic blocks at the structured
// control markers (if/else/endif, loop/endloop). Every statement belongs to exactly one block; blocks are numbered
// in creation order and the first block created is the entry.
package cfg

import (
	"errors"
	"fmt"

	"github.com/awslabs/argot-svd/analysis/ir"
)

// BlockID identifies a block of a CFG. Ids are assigned in creation order starting from 0.
type BlockID int

func (id BlockID) String() string {
	return fmt.Sprintf("B%d", int(id))
}

// BasicBlock is a straight-line sequence of statements with explicit successors and predecessors.
type BasicBlock struct {
	ID    BlockID
	Stmts []ir.Statement
	Succs []BlockID
	Preds []BlockID
}

// CFG is the control-flow graph of one function. It is read-only once built.
type CFG struct {
	// Function is the function the graph has been built from
	Function *ir.Function

	// Entry is the id of the entry block. It is always the first block created.
	Entry BlockID

	// blocks indexed by their id
	blocks []*BasicBlock
}

// Blocks returns the blocks of the graph in creation order
func (c *CFG) Blocks() []*BasicBlock {
	return c.blocks
}

// Block returns the block with id, or nil if there is none
func (c *CFG) Block(id BlockID) *BasicBlock {
	if id < 0 || int(id) >= len(c.blocks) {
		return nil
	}
	return c.blocks[id]
}

// NumBlocks returns the number of blocks in the graph
func (c *CFG) NumBlocks() int {
	return len(c.blocks)
}

// NumEdges returns the number of edges in the graph
func (c *CFG) NumEdges() int {
	n := 0
	for _, b := range c.blocks {
		n += len(b.Succs)
	}
	return n
}

// BlockOf returns the block containing the statement with id sid
func (c *CFG) BlockOf(sid ir.StmtID) (BlockID, bool) {
	for _, b := range c.blocks {
		for _, s := range b.Stmts {
			if s.ID == sid {
				return b.ID, true
			}
		}
	}
	return 0, false
}

// ErrMalformed is the error matched by all the errors returned when the control structure of a function body is
// malformed.
var ErrMalformed = errors.New("malformed control structure")

// MalformedError is returned by Build when a closing or else marker has no matching opener.
type MalformedError struct {
	Function string
	Stmt     ir.StmtID
	Op       ir.Op
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("function %s: unmatched %s at statement %d", e.Function, e.Op, e.Stmt)
}

// Unwrap returns ErrMalformed
func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

// Options changes the shape of the graph built.
type Options struct {
	// ForwardLoops closes loops exactly like conditionals: the loop test block and the end of the body both flow
	// forward into a join block, and there is no back-edge. When false, the loop test gets its own header block,
	// the end of the body flows back to the header and the header flows to the join block.
	ForwardLoops bool
}

// scope is an open if or loop
type scope struct {
	op ir.Op

	// start is the block ending with the test
	start *BasicBlock

	// thenEnd is the last block of the first branch, set when an else marker is seen
	thenEnd *BasicBlock

	// elseBlock is the first block of the else branch, if there is one
	elseBlock *BasicBlock
}

type builder struct {
	opts    Options
	g       *CFG
	current *BasicBlock
	stack   []*scope
}

// Build returns the control-flow graph of function. It returns a *MalformedError if some else, endif or endloop
// marker does not match an open scope. Scopes left open at the end of the body are closed implicitly: their
// blocks are kept without a join.
func Build(function *ir.Function, opts Options) (*CFG, error) {
	b := &builder{
		opts: opts,
		g:    &CFG{Function: function},
	}
	b.current = b.newBlock()
	b.g.Entry = b.current.ID

	for _, stmt := range function.Body {
		var err error
		switch stmt.Op {
		case ir.OpIf:
			b.openIf(stmt)
		case ir.OpLoop:
			b.openLoop(stmt)
		case ir.OpElse:
			err = b.openElse(stmt)
		case ir.OpEndIf, ir.OpEndLoop:
			err = b.close(stmt)
		default:
			b.current.Stmts = append(b.current.Stmts, stmt)
		}
		if err != nil {
			return nil, err
		}
	}
	return b.g, nil
}

func (b *builder) newBlock() *BasicBlock {
	block := &BasicBlock{ID: BlockID(len(b.g.blocks))}
	b.g.blocks = append(b.g.blocks, block)
	return block
}

func (b *builder) addEdge(from, to *BasicBlock) {
	for _, s := range from.Succs {
		if s == to.ID {
			return
		}
	}
	from.Succs = append(from.Succs, to.ID)
	to.Preds = append(to.Preds, from.ID)
}

func (b *builder) pop(stmt ir.Statement) (*scope, error) {
	if len(b.stack) == 0 {
		return nil, &MalformedError{Function: b.g.Function.Name, Stmt: stmt.ID, Op: stmt.Op}
	}
	s := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return s, nil
}

// openBranch appends the test statement to start and opens the first branch.
func (b *builder) openBranch(stmt ir.Statement, start *BasicBlock) {
	start.Stmts = append(start.Stmts, stmt)
	b.stack = append(b.stack, &scope{op: stmt.Op, start: start})
	body := b.newBlock()
	b.addEdge(start, body)
	b.current = body
}

func (b *builder) openIf(stmt ir.Statement) {
	b.openBranch(stmt, b.current)
}

func (b *builder) openLoop(stmt ir.Statement) {
	header := b.current
	// The back-edge must only reach the loop test: statements before the loop get their own block, and the entry
	// block keeps no predecessor.
	if !b.opts.ForwardLoops && (len(header.Stmts) > 0 || header.ID == b.g.Entry) {
		header = b.newBlock()
		b.addEdge(b.current, header)
	}
	b.openBranch(stmt, header)
}

func (b *builder) openElse(stmt ir.Statement) error {
	s, err := b.pop(stmt)
	if err != nil {
		return err
	}
	s.thenEnd = b.current
	s.elseBlock = b.newBlock()
	b.addEdge(s.start, s.elseBlock)
	b.stack = append(b.stack, s)
	b.current = s.elseBlock
	return nil
}

func (b *builder) close(stmt ir.Statement) error {
	s, err := b.pop(stmt)
	if err != nil {
		return err
	}
	join := b.newBlock()
	if s.op == ir.OpLoop && !b.opts.ForwardLoops {
		b.addEdge(b.current, s.start)
		if s.thenEnd != nil {
			b.addEdge(s.thenEnd, s.start)
		}
		b.addEdge(s.start, join)
	} else if s.thenEnd != nil {
		b.addEdge(s.thenEnd, join)
		b.addEdge(b.current, join)
	} else {
		b.addEdge(b.current, join)
		b.addEdge(s.start, join)
	}
	b.current = join
	return nil
}
