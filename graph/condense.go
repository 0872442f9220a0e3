package graph

import (
	"cmp"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Condensation collapses every strongly connected component of a Graph into a single node.
//
// The result is a directed acyclic graph over the components.
type Condensation struct {
	// The members of each component, sorted by id.
	// Components are ordered by their smallest member.
	Components [][]NodeID

	component  []int
	successors [][]int
}

// Compute the strongly connected components of the graph.
func Condense[N any, E any](g *Graph[N, E]) *Condensation {
	dg := simple.NewDirectedGraph()
	for id := range g.nodes {
		dg.AddNode(simple.Node(id))
	}
	for _, edge := range g.edges {
		// Self loops never join components and simple graphs do not accept them
		if edge.From == edge.To {
			continue
		}
		dg.SetEdge(simple.Edge{F: simple.Node(edge.From), T: simple.Node(edge.To)})
	}

	components := [][]NodeID{}
	for _, scc := range topo.TarjanSCC(dg) {
		members := make([]NodeID, 0, len(scc))
		for _, n := range scc {
			members = append(members, NodeID(n.ID()))
		}
		slices.Sort(members)
		components = append(components, members)
	}
	slices.SortFunc(components, func(a, b []NodeID) int {
		return cmp.Compare(a[0], b[0])
	})

	c := &Condensation{
		Components: components,
		component:  make([]int, len(g.nodes)),
		successors: make([][]int, len(components)),
	}
	for index, members := range components {
		for _, id := range members {
			c.component[id] = index
		}
	}
	for index := range components {
		next := map[int]struct{}{}
		for _, id := range components[index] {
			for _, edge := range g.Outgoing(id) {
				if target := c.component[edge.To]; target != index {
					next[target] = struct{}{}
				}
			}
		}
		successors := maps.Keys(next)
		slices.Sort(successors)
		c.successors[index] = successors
	}
	return c
}

// Returns the index of the component containing the node
func (c *Condensation) ComponentOf(id NodeID) int {
	return c.component[id]
}

// Returns the indices of the components reachable by a single edge from the component
func (c *Condensation) Successors(index int) []int {
	return slices.Clone(c.successors[index])
}

// Returns the indices of all components without edges to other components.
//
// In a finite graph every infinite path eventually stays inside one of these.
func (c *Condensation) Sinks() []int {
	sinks := []int{}
	for index, successors := range c.successors {
		if len(successors) == 0 {
			sinks = append(sinks, index)
		}
	}
	return sinks
}
