package cnf

import (
	"fmt"
	"slices"

	"github.com/vk/satcolor/internal/graph"
	"github.com/vk/satcolor/internal/varscheme"
)

// Source is the part of the graph model the encoder reads.
type Source interface {
	NodeIDs() []graph.NodeID
	Edges() []graph.Edge
	HasNode(id graph.NodeID) bool
	MaxID() graph.NodeID
}

// Encode builds the K-coloring formula for src. preassigned maps node
// identities to 1-based color indices that must be kept; it may be nil.
// Any error leaves no partial formula behind.
func Encode(src Source, k int, preassigned map[graph.NodeID]int) (*Formula, error) {
	scheme, err := varscheme.New(k)
	if err != nil {
		return nil, err
	}

	nodes := src.NodeIDs()
	if len(nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	edges := src.Edges()

	fixed, err := sortedPreassignments(src, k, preassigned)
	if err != nil {
		return nil, err
	}

	stats := Stats{
		EdgeExclusion: len(edges) * k,
		AtLeastOne:    len(nodes),
		AtMostOne:     len(nodes) * k * (k - 1) / 2,
		Preassigned:   len(fixed),
	}
	clauses := make([]Clause, 0, stats.Total())

	for _, e := range edges {
		for c := 1; c <= k; c++ {
			clauses = append(clauses, Clause{-scheme.Var(int(e.U), c), -scheme.Var(int(e.V), c)})
		}
	}

	for _, n := range nodes {
		cl := make(Clause, k)
		for c := 1; c <= k; c++ {
			cl[c-1] = scheme.Var(int(n), c)
		}
		clauses = append(clauses, cl)
	}

	for _, n := range nodes {
		for c1 := 1; c1 < k; c1++ {
			for c2 := c1 + 1; c2 <= k; c2++ {
				clauses = append(clauses, Clause{-scheme.Var(int(n), c1), -scheme.Var(int(n), c2)})
			}
		}
	}

	for _, p := range fixed {
		clauses = append(clauses, Clause{scheme.Var(int(p.node), p.color)})
	}

	f := &Formula{
		Budget:       k,
		NumVariables: scheme.NumVariables(int(src.MaxID())),
		NumClauses:   stats.Total(),
		Clauses:      clauses,
		Stats:        stats,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

type preassignment struct {
	node  graph.NodeID
	color int
}

func sortedPreassignments(src Source, k int, preassigned map[graph.NodeID]int) ([]preassignment, error) {
	out := make([]preassignment, 0, len(preassigned))
	for id, c := range preassigned {
		if !src.HasNode(id) {
			return nil, fmt.Errorf("%w: node %d is not in the graph", ErrInvalidPreassignment, id)
		}
		if c < 1 || c > k {
			return nil, fmt.Errorf("%w: node %d has color %d outside 1..%d", ErrInvalidPreassignment, id, c, k)
		}
		out = append(out, preassignment{node: id, color: c})
	}
	slices.SortFunc(out, func(a, b preassignment) int { return int(a.node - b.node) })
	return out, nil
}
