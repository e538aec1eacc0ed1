package graph

import "math/rand/v2"

// Random adds n fresh nodes to g and connects them with between 1 and
// n(n-1)/2 distinct random edges. Edges only join the new nodes. It returns
// the identities it created.
func Random(rng *rand.Rand, g *Graph, n int) []NodeID {
	ids := make([]NodeID, n)
	for i := range ids {
		ids[i] = g.AddNode()
	}
	if n < 2 {
		return ids
	}

	maxEdges := n * (n - 1) / 2
	want := rng.IntN(maxEdges) + 1
	for added := 0; added < want; {
		u := ids[rng.IntN(n)]
		v := ids[rng.IntN(n)]
		if g.AddEdge(u, v) {
			added++
		}
	}
	return ids
}
