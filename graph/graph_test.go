package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphAddNodesAndEdges(t *testing.T) {
	g := New[string, string]()
	a := g.AddNode("a")
	b := g.AddNode("b")
	c := g.AddNode("c")
	g.AddEdge(a, b, "ab")
	g.AddEdge(b, c, "bc")
	g.AddEdge(b, c, "bc2")

	if g.NodeCount() != 3 {
		t.Fatalf("Added three nodes to the graph. Got: %v", g.NodeCount())
	}
	if g.EdgeCount() != 3 {
		t.Fatalf("Added three edges to the graph. Got: %v", g.EdgeCount())
	}
	if a != 0 || b != 1 || c != 2 {
		t.Errorf("Expected node ids to be assigned sequentially. Got: %v %v %v", a, b, c)
	}
	if g.Node(b) != "b" {
		t.Errorf("Expected payload \"b\". Got: %v", g.Node(b))
	}
	if len(g.Outgoing(b)) != 2 {
		t.Errorf("Expected parallel edges to be kept. Got: %v", g.Outgoing(b))
	}
	if len(g.Outgoing(c)) != 0 {
		t.Errorf("Expected no outgoing edges from a sink. Got: %v", g.Outgoing(c))
	}
	if !g.HasEdge(a, b, nil) {
		t.Errorf("Expected an edge from a to b")
	}
	if g.HasEdge(b, a, nil) {
		t.Errorf("Edges should be directed")
	}
	if !g.HasEdge(b, c, func(l string) bool { return l == "bc2" }) {
		t.Errorf("Expected to find the edge labelled bc2")
	}
	if g.HasEdge(b, c, func(l string) bool { return l == "cb" }) {
		t.Errorf("Did not expect to find an edge labelled cb")
	}
}

func TestGraphAddEdgeUnknownNode(t *testing.T) {
	g := New[int, int]()
	g.AddNode(0)
	assert.Panics(t, func() { g.AddEdge(0, 1, 0) })
}

func TestCondense(t *testing.T) {
	// 0 -> 1 -> 2 -> 1, 2 -> 3, 3 -> 3, 4 isolated
	g := New[int, string]()
	for i := 0; i < 5; i++ {
		g.AddNode(i)
	}
	g.AddEdge(0, 1, "")
	g.AddEdge(1, 2, "")
	g.AddEdge(2, 1, "")
	g.AddEdge(2, 3, "")
	g.AddEdge(3, 3, "")

	c := Condense(g)
	expected := [][]NodeID{{0}, {1, 2}, {3}, {4}}
	if len(c.Components) != len(expected) {
		t.Fatalf("Expected %v components. Got: %v", len(expected), c.Components)
	}
	for i := range expected {
		assert.Equal(t, expected[i], c.Components[i])
	}
	if c.ComponentOf(2) != 1 {
		t.Errorf("Expected node 2 to belong to component 1. Got: %v", c.ComponentOf(2))
	}
	assert.Equal(t, []int{1}, c.Successors(0))
	assert.Equal(t, []int{2}, c.Successors(1))
	assert.Empty(t, c.Successors(2), "self loops should not produce successors")
	assert.Equal(t, []int{2, 3}, c.Sinks())
}

func TestCondenseEmpty(t *testing.T) {
	c := Condense(New[int, int]())
	assert.Empty(t, c.Components)
	assert.Empty(t, c.Sinks())
}

func TestWriteDOT(t *testing.T) {
	g := New[string, int]()
	a := g.AddNode("start")
	b := g.AddNode("end")
	g.AddEdge(a, b, 1)
	g.AddEdge(a, b, 2)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteDOT(buf, g, "G", nil, nil))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "digraph G {"), out)
	assert.Contains(t, out, "start")
	assert.Contains(t, out, "end")
	assert.Equal(t, 2, strings.Count(out, "->"), "both parallel edges should be written")
}

func TestWriteCondensedDOT(t *testing.T) {
	g := New[string, int]()
	a := g.AddNode("a")
	b := g.AddNode("b")
	g.AddEdge(a, b, 0)
	g.AddEdge(b, a, 0)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteCondensedDOT(buf, g, Condense(g), "C", nil))
	assert.Equal(t, 0, strings.Count(buf.String(), "->"))
}
