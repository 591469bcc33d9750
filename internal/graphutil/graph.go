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

// Package graphutil provides a small directed graph over integer node ids that can be handed both to gonum's
// graph algorithms and encoders and to yourbasic's graph algorithms.
package graphutil

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
)

// Graph is a directed graph whose nodes are the integers 0..Order()-1.
// Graph implements gonum's graph.Directed and yourbasic's graph.Iterator.
type Graph struct {
	// The order of the graph
	order int

	// Names maps node ids to the names used when the graph is rendered (e.g. in DOT format)
	Names map[int64]string

	// Labels maps node ids to the labels used when the graph is rendered
	Labels map[int64]string

	// Keys are all the node IDs, in increasing order
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed edge between x and y
	Edges map[int64]map[int64]bool
}

// NewGraph returns a graph of order nodes and no edges.
func NewGraph(order int) *Graph {
	g := &Graph{
		order:  order,
		Names:  make(map[int64]string, order),
		Labels: make(map[int64]string, order),
		Keys:   make([]int64, order),
		Edges:  make(map[int64]map[int64]bool, order),
	}
	for i := 0; i < order; i++ {
		g.Keys[i] = int64(i)
		g.Edges[int64(i)] = map[int64]bool{}
	}
	return g
}

// AddEdge adds a directed edge from x to y. Edges to or from nodes outside the graph are ignored.
func (g *Graph) AddEdge(x, y int64) {
	if !g.has(x) || !g.has(y) {
		return
	}
	g.Edges[x][y] = true
}

func (g *Graph) has(id int64) bool {
	return id >= 0 && id < int64(g.order)
}

// Subgraph returns the graph induced by the nodes in include. Node ids are preserved.
func Subgraph(original *Graph, include []int64) *Graph {
	keep := make(map[int64]bool, len(include))
	for _, i := range include {
		keep[i] = true
	}
	edges := make(map[int64]map[int64]bool, len(include))
	for _, i := range include {
		edges[i] = map[int64]bool{}
		for e := range original.Edges[i] {
			if keep[e] {
				edges[i][e] = true
			}
		}
	}
	keys := append([]int64{}, include...)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return &Graph{
		order:  original.order,
		Names:  original.Names,
		Labels: original.Labels,
		Keys:   keys,
		Edges:  edges,
	}
}

// Order returns the number of nodes. It implements the yourbasic graph.Iterator interface.
func (g *Graph) Order() int {
	return g.order
}

// Visit calls do on every successor of v. It implements the yourbasic graph.Iterator interface.
func (g *Graph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	for _, w := range sortedKeys(g.Edges[int64(v)]) {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// Node implements graph.Graph
func (g *Graph) Node(id int64) graph.Node {
	if _, ok := g.Edges[id]; !ok {
		return nil
	}
	return g.node(id)
}

func (g *Graph) node(id int64) Node {
	return Node{id: id, name: g.Names[id], label: g.Labels[id]}
}

// Nodes implements graph.Graph
func (g *Graph) Nodes() graph.Nodes {
	return g.nodeSet(g.Keys)
}

// From implements graph.Graph
func (g *Graph) From(id int64) graph.Nodes {
	return g.nodeSet(sortedKeys(g.Edges[id]))
}

// To implements graph.Directed
func (g *Graph) To(id int64) graph.Nodes {
	var ids []int64
	for _, x := range g.Keys {
		if g.Edges[x][id] {
			ids = append(ids, x)
		}
	}
	return g.nodeSet(ids)
}

// HasEdgeBetween implements graph.Graph
func (g *Graph) HasEdgeBetween(xid, yid int64) bool {
	return g.Edges[xid][yid] || g.Edges[yid][xid]
}

// HasEdgeFromTo implements graph.Directed
func (g *Graph) HasEdgeFromTo(uid, vid int64) bool {
	return g.Edges[uid][vid]
}

// Edge implements graph.Graph
func (g *Graph) Edge(uid, vid int64) graph.Edge {
	if g.Edges[uid][vid] {
		return Edge{from: g.node(uid), to: g.node(vid)}
	}
	return nil
}

func (g *Graph) nodeSet(ids []int64) *NodeSet {
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i] = g.node(id)
	}
	return &NodeSet{nodes: nodes, cur: -1}
}

func sortedKeys(m map[int64]bool) []int64 {
	keys := make([]int64, 0, len(m))
	for k, ok := range m {
		if ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Node is a node of a Graph.
type Node struct {
	id    int64
	name  string
	label string
}

// ID implements graph.Node
func (n Node) ID() int64 {
	return n.id
}

// DOTID returns the name of the node used in DOT output
func (n Node) DOTID() string {
	return n.name
}

// Attributes returns the DOT attributes of the node
func (n Node) Attributes() []encoding.Attribute {
	if n.label == "" {
		return nil
	}
	return []encoding.Attribute{{Key: "shape", Value: "box"}, {Key: "label", Value: n.label}}
}

func (n Node) String() string {
	return n.name
}

// NodeSet is an iterator over nodes that implements graph.Nodes
type NodeSet struct {
	nodes []Node

	// cur is the current index of the iterator, -1 before the first call to Next.
	cur int
}

// Next implements graph.Iterator
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.nodes)-1 {
		ns.cur++
		return true
	}
	ns.cur = len(ns.nodes)
	return false
}

// Len implements graph.Iterator and returns the number of remaining nodes
func (ns *NodeSet) Len() int {
	if ns.cur >= len(ns.nodes) {
		return 0
	}
	return len(ns.nodes) - ns.cur - 1
}

// Reset implements graph.Iterator
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node implements graph.Nodes
func (ns *NodeSet) Node() graph.Node {
	if ns.cur < 0 || ns.cur >= len(ns.nodes) {
		return nil
	}
	return ns.nodes[ns.cur]
}

// Edge is a directed edge of a Graph
type Edge struct {
	from Node
	to   Node
}

// From implements graph.Edge
func (e Edge) From() graph.Node {
	return e.from
}

// To implements graph.Edge
func (e Edge) To() graph.Node {
	return e.to
}

// ReversedEdge implements graph.Edge
func (e Edge) ReversedEdge() graph.Edge {
	return Edge{from: e.to, to: e.from}
}
