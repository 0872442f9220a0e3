package graph

import (
	"fmt"
	"strings"
)

// Identifies a node in a Graph. Ids are assigned sequentially starting at 0.
type NodeID int

// A directed edge labelled with E
type Edge[E any] struct {
	From  NodeID
	To    NodeID
	Label E
}

// Graph is a directed multigraph with node payloads of type N and edge labels of type E.
//
// Nodes and edges are stored in arenas and are never removed.
// A Graph is not safe for concurrent use.
type Graph[N any, E any] struct {
	nodes    []N
	edges    []Edge[E]
	outgoing [][]int
}

func New[N any, E any]() *Graph[N, E] {
	return &Graph[N, E]{
		nodes:    []N{},
		edges:    []Edge[E]{},
		outgoing: [][]int{},
	}
}

// Adds a node with the provided payload and returns its id
func (g *Graph[N, E]) AddNode(payload N) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, payload)
	g.outgoing = append(g.outgoing, []int{})
	return id
}

// Adds an edge from one node to another.
// Panics if either of the nodes does not exist.
func (g *Graph[N, E]) AddEdge(from, to NodeID, label E) {
	if !g.contains(from) || !g.contains(to) {
		panic(fmt.Sprintf("graph: edge %v -> %v references a node that does not exist", from, to))
	}
	g.outgoing[from] = append(g.outgoing[from], len(g.edges))
	g.edges = append(g.edges, Edge[E]{From: from, To: to, Label: label})
}

func (g *Graph[N, E]) contains(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// Returns the payload of the node
func (g *Graph[N, E]) Node(id NodeID) N {
	return g.nodes[id]
}

// Returns the payloads of all nodes ordered by id
func (g *Graph[N, E]) Nodes() []N {
	out := make([]N, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Returns all edges in the order they were added
func (g *Graph[N, E]) Edges() []Edge[E] {
	out := make([]Edge[E], len(g.edges))
	copy(out, g.edges)
	return out
}

// Returns the edges leaving the node
func (g *Graph[N, E]) Outgoing(id NodeID) []Edge[E] {
	out := make([]Edge[E], 0, len(g.outgoing[id]))
	for _, index := range g.outgoing[id] {
		out = append(out, g.edges[index])
	}
	return out
}

// Returns true if some edge from one node to the other satisfies the match function.
// A nil match function matches any edge.
func (g *Graph[N, E]) HasEdge(from, to NodeID, match func(E) bool) bool {
	if !g.contains(from) {
		return false
	}
	for _, index := range g.outgoing[from] {
		edge := g.edges[index]
		if edge.To == to && (match == nil || match(edge.Label)) {
			return true
		}
	}
	return false
}

func (g *Graph[N, E]) NodeCount() int {
	return len(g.nodes)
}

func (g *Graph[N, E]) EdgeCount() int {
	return len(g.edges)
}

// String representation of the graph. One line for each node followed by its outgoing edges
func (g *Graph[N, E]) String() string {
	out := strings.Builder{}
	for id, payload := range g.nodes {
		out.WriteString(fmt.Sprintf("%v: %v\n", id, payload))
		for _, edge := range g.Outgoing(NodeID(id)) {
			out.WriteString(fmt.Sprintf("-[%v]-> %v\n", edge.Label, edge.To))
		}
	}
	return out.String()
}
