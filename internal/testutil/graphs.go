package testutil

import "github.com/vk/satcolor/internal/graph"

// Edgeless returns a graph of n isolated nodes.
func Edgeless(n int) *graph.Graph {
	g := graph.New()
	for range n {
		g.AddNode()
	}
	return g
}

// Path returns the path 1 - 2 - ... - n.
func Path(n int) *graph.Graph {
	g := Edgeless(n)
	for i := 1; i < n; i++ {
		g.AddEdge(graph.NodeID(i), graph.NodeID(i+1))
	}
	return g
}

// Clique returns the complete graph on n nodes.
func Clique(n int) *graph.Graph {
	g := Edgeless(n)
	for i := 1; i <= n; i++ {
		for j := i + 1; j <= n; j++ {
			g.AddEdge(graph.NodeID(i), graph.NodeID(j))
		}
	}
	return g
}
