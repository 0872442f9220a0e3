package graph

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"
)

type dotNode struct {
	id    int64
	label string
}

func (n dotNode) ID() int64 { return n.id }

func (n dotNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: n.label}}
}

type dotLine struct {
	from, to dotNode
	uid      int64
	label    string
}

func (l dotLine) From() graph.Node         { return l.from }
func (l dotLine) To() graph.Node           { return l.to }
func (l dotLine) ReversedLine() graph.Line { return dotLine{from: l.to, to: l.from, uid: l.uid, label: l.label} }
func (l dotLine) ID() int64                { return l.uid }

func (l dotLine) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: l.label}}
}

// Write the graph in the graphviz dot format.
//
// nodeLabel and edgeLabel are used to create the labels of nodes and edges. If nil, the default formatting of the value is used.
func WriteDOT[N any, E any](w io.Writer, g *Graph[N, E], name string, nodeLabel func(N) string, edgeLabel func(E) string) error {
	if nodeLabel == nil {
		nodeLabel = func(n N) string { return fmt.Sprint(n) }
	}
	if edgeLabel == nil {
		edgeLabel = func(e E) string { return fmt.Sprint(e) }
	}

	mg := multi.NewDirectedGraph()
	nodes := make([]dotNode, len(g.nodes))
	for id, payload := range g.nodes {
		nodes[id] = dotNode{id: int64(id), label: nodeLabel(payload)}
		mg.AddNode(nodes[id])
	}
	for uid, edge := range g.edges {
		mg.SetLine(dotLine{
			from:  nodes[edge.From],
			to:    nodes[edge.To],
			uid:   int64(uid),
			label: edgeLabel(edge.Label),
		})
	}

	b, err := dot.MarshalMulti(mg, name, "", "  ")
	if err != nil {
		return errors.Wrap(err, "graph: unable to encode graph as dot")
	}
	if _, err := w.Write(b); err != nil {
		return errors.Wrap(err, "graph: unable to write dot output")
	}
	return nil
}

// Write the condensation of the graph in the graphviz dot format. Each node is labelled with the labels of the members of the component.
func WriteCondensedDOT[N any, E any](w io.Writer, g *Graph[N, E], c *Condensation, name string, nodeLabel func(N) string) error {
	if nodeLabel == nil {
		nodeLabel = func(n N) string { return fmt.Sprint(n) }
	}
	cg := New[string, string]()
	for _, members := range c.Components {
		label := ""
		for i, id := range members {
			if i > 0 {
				label += "\n"
			}
			label += nodeLabel(g.Node(id))
		}
		cg.AddNode(label)
	}
	for index := range c.Components {
		for _, next := range c.Successors(index) {
			cg.AddEdge(NodeID(index), NodeID(next), "")
		}
	}
	return WriteDOT(w, cg, name, nil, nil)
}
