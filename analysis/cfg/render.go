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

package cfg

import (
	"fmt"
	"strings"

	"github.com/awslabs/argot-svd/analysis/ir"
	"github.com/awslabs/argot-svd/internal/funcutil"
	"github.com/awslabs/argot-svd/internal/graphutil"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/traverse"
)

// Graph returns a graph view of the CFG whose node ids are the block ids. Nodes are named after the blocks and
// labelled with their statements.
func (c *CFG) Graph() *graphutil.Graph {
	g := graphutil.NewGraph(len(c.blocks))
	for _, b := range c.blocks {
		id := int64(b.ID)
		g.Names[id] = b.ID.String()
		g.Labels[id] = strings.Join(append([]string{b.ID.String()}, funcutil.Map(b.Stmts, ir.Line)...), "\n")
		for _, s := range b.Succs {
			g.AddEdge(id, int64(s))
		}
	}
	return g
}

// Reachable returns the set of blocks reachable from the entry block
func (c *CFG) Reachable() map[BlockID]bool {
	reached := map[BlockID]bool{}
	g := c.Graph()
	start := g.Node(int64(c.Entry))
	if start == nil {
		return reached
	}
	bf := traverse.BreadthFirst{
		Visit: func(n graph.Node) { reached[BlockID(n.ID())] = true },
	}
	bf.Walk(g, start, nil)
	return reached
}

// Loops returns the elementary cycles of the CFG. Each cycle starts and ends with the same block. A CFG built with
// ForwardLoops has no cycle.
func (c *CFG) Loops() [][]BlockID {
	var loops [][]BlockID
	for _, cycle := range graphutil.FindAllElementaryCycles(c.Graph()) {
		loops = append(loops, funcutil.Map(cycle, func(x int64) BlockID { return BlockID(x) }))
	}
	return loops
}

// LoopHeaders returns the set of blocks that are the target of a back-edge, i.e. the entry of each strongly
// connected component of the CFG.
func (c *CFG) LoopHeaders() map[BlockID]bool {
	headers := map[BlockID]bool{}
	for _, scc := range graphutil.StronglyConnectedComponents(c.Graph()) {
		in := funcutil.SetOf(scc...)
		for _, id := range scc {
			for _, p := range c.blocks[id].Preds {
				if !in[int64(p)] {
					headers[BlockID(id)] = true
				}
			}
		}
	}
	return headers
}

// Dot returns the CFG in GraphViz DOT format
func (c *CFG) Dot() (string, error) {
	b, err := dot.Marshal(c.Graph(), c.Function.Name, "", "  ")
	if err != nil {
		return "", fmt.Errorf("could not render cfg of %s: %w", c.Function.Name, err)
	}
	return string(b), nil
}

// Mermaid returns the CFG as a Mermaid flowchart. Nodes only show the block id.
func (c *CFG) Mermaid() string {
	lines := []string{"flowchart TD"}
	for _, b := range c.blocks {
		lines = append(lines, fmt.Sprintf("%s[\"%s\"]", b.ID, b.ID))
	}
	for _, b := range c.blocks {
		for _, s := range b.Succs {
			lines = append(lines, fmt.Sprintf("%s --> %s", b.ID, s))
		}
	}
	return strings.Join(lines, "\n")
}

// BlockDetail is the human-readable content of a block
type BlockDetail struct {
	ID    BlockID
	Lines []string
}

// Details returns the statements of every block, rendered as lines, in block creation order
func (c *CFG) Details() []BlockDetail {
	details := make([]BlockDetail, 0, len(c.blocks))
	for _, b := range c.blocks {
		details = append(details, BlockDetail{ID: b.ID, Lines: funcutil.Map(b.Stmts, ir.Line)})
	}
	return details
}
