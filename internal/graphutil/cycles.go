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

package graphutil

import (
	"sort"

	"github.com/yourbasic/graph"
)

// FindAllElementaryCycles finds all elementary cycles in the graph g. Each cycle starts and ends with the same
// node, which is the smallest node id of the cycle.
// This uses Donald B. Johnson's algorithm presented in
// "Finding All The Elementary Circuits of a Directed Graph", 1975
func FindAllElementaryCycles(g *Graph) [][]int64 {
	s := &state{
		blocked: map[int64]bool{},
		blist:   map[int64]map[int64]bool{},
		stack:   []int64{},
		cycles:  [][]int64{},
	}
	for i := 0; i < len(g.Keys); i++ {
		start := g.Keys[i]
		fg := Subgraph(g, g.Keys[i:])
		// self-loops are components of size one
		if fg.Edges[start][start] {
			s.cycles = append(s.cycles, []int64{start, start})
		}
		for _, component := range graph.StrongComponents(fg) {
			if len(component) < 2 || !containsInt(component, int(start)) {
				continue
			}
			s.stack = []int64{}
			s.blocked = map[int64]bool{}
			s.blist = map[int64]map[int64]bool{}
			s.circuit(start, start, Subgraph(fg, toIDs(component)))
		}
	}
	return s.cycles
}

// StronglyConnectedComponents returns the non-trivial strongly connected components of g: the components with
// at least two nodes, or with a single node that has a self-loop. Node ids in each component are sorted.
func StronglyConnectedComponents(g *Graph) [][]int64 {
	var sccs [][]int64
	for _, component := range graph.StrongComponents(g) {
		ids := toIDs(component)
		if len(ids) == 1 && !g.Edges[ids[0]][ids[0]] {
			continue
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		sccs = append(sccs, ids)
	}
	sort.Slice(sccs, func(i, j int) bool { return sccs[i][0] < sccs[j][0] })
	return sccs
}

type state struct {
	blocked map[int64]bool
	blist   map[int64]map[int64]bool
	stack   []int64
	cycles  [][]int64
}

func (s *state) unblock(u int64) {
	s.blocked[u] = false
	for w := range s.blist[u] {
		delete(s.blist[u], w)
		if s.blocked[w] {
			s.unblock(w)
		}
	}
}

func (s *state) circuit(v int64, start int64, g *Graph) bool {
	found := false
	s.stack = append(s.stack, v)
	s.blocked[v] = true
	for _, w := range sortedKeys(g.Edges[v]) {
		if w == start {
			if v == start {
				continue // self-loops are reported separately
			}
			cycle := make([]int64, len(s.stack), len(s.stack)+1)
			copy(cycle, s.stack)
			s.cycles = append(s.cycles, append(cycle, w))
			found = true
		} else if !s.blocked[w] {
			if s.circuit(w, start, g) {
				found = true
			}
		}
	}

	if found {
		s.unblock(v)
	} else {
		for w := range g.Edges[v] {
			if s.blist[w] == nil {
				s.blist[w] = map[int64]bool{}
			}
			s.blist[w][v] = true
		}
	}
	s.stack = s.stack[:len(s.stack)-1]
	return found
}

func toIDs(component []int) []int64 {
	ids := make([]int64, len(component))
	for i, x := range component {
		ids[i] = int64(x)
	}
	return ids
}

func containsInt(a []int, x int) bool {
	for _, y := range a {
		if x == y {
			return true
		}
	}
	return false
}
