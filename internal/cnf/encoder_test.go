package cnf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/satcolor/internal/graph"
)

// path builds 1 - 2 - ... - n.
func path(n int) *graph.Graph {
	g := graph.New()
	prev := g.AddNode()
	for i := 1; i < n; i++ {
		next := g.AddNode()
		g.AddEdge(prev, next)
		prev = next
	}
	return g
}

func TestEncode_SingleEdgeTwoColors(t *testing.T) {
	g := path(2)

	f, err := Encode(g, 2, nil)
	require.NoError(t, err)

	want := []Clause{
		{-1, -3}, {-2, -4}, // edge exclusion
		{1, 2}, {3, 4}, // at least one
		{-1, -2}, {-3, -4}, // at most one
	}
	assert.Equal(t, want, f.Clauses)
	assert.Equal(t, 4, f.NumVariables)
	assert.Equal(t, 6, f.NumClauses)
	assert.Equal(t, Stats{EdgeExclusion: 2, AtLeastOne: 2, AtMostOne: 2}, f.Stats)
}

func TestEncode_DIMACS(t *testing.T) {
	f, err := Encode(path(2), 2, map[graph.NodeID]int{1: 1})
	require.NoError(t, err)

	want := strings.Join([]string{
		"p cnf 4 7",
		"-1 -3 0",
		"-2 -4 0",
		"1 2 0",
		"3 4 0",
		"-1 -2 0",
		"-3 -4 0",
		"1 0",
		"",
	}, "\n")

	var b strings.Builder
	n, err := f.WriteTo(&b)
	require.NoError(t, err)
	assert.Equal(t, want, b.String())
	assert.Equal(t, int64(len(want)), n)
	assert.Equal(t, want, f.String())
}

func TestEncode_ClauseCountMatchesFamilies(t *testing.T) {
	for k := 1; k <= 6; k++ {
		g := graph.New()
		ids := make([]graph.NodeID, 7)
		for i := range ids {
			ids[i] = g.AddNode()
		}
		for i := range ids {
			for j := i + 1; j < len(ids); j += 2 {
				g.AddEdge(ids[i], ids[j])
			}
		}
		pre := map[graph.NodeID]int{ids[0]: 1, ids[3]: k}

		f, err := Encode(g, k, pre)
		require.NoError(t, err)

		wantClauses := g.EdgeCount()*k + g.NodeCount() + g.NodeCount()*k*(k-1)/2 + len(pre)
		assert.Equal(t, wantClauses, f.NumClauses, "k=%d", k)
		assert.Len(t, f.Clauses, f.NumClauses, "k=%d", k)
		assert.NoError(t, f.Validate())
	}
}

func TestEncode_IdentityGapsConsumeVariablesNotClauses(t *testing.T) {
	g := graph.New()
	a := g.AddNode()
	gap := g.AddNode()
	c := g.AddNode()
	g.AddEdge(a, c)
	require.True(t, g.RemoveNode(gap))

	f, err := Encode(g, 3, nil)
	require.NoError(t, err)

	assert.Equal(t, 9, f.NumVariables, "maxID*K, not nodeCount*K")
	assert.Equal(t, 3+2+2*3, f.NumClauses)
	for _, cl := range f.Clauses {
		for _, lit := range cl {
			v := lit
			if v < 0 {
				v = -v
			}
			assert.False(t, v >= 4 && v <= 6, "literal %d belongs to the removed node", lit)
		}
	}
}

func TestEncode_SingleColorHasNoAtMostOneClauses(t *testing.T) {
	f, err := Encode(path(3), 1, nil)
	require.NoError(t, err)

	assert.Zero(t, f.Stats.AtMostOne)
	assert.Equal(t, []Clause{{-1, -2}, {-2, -3}, {1}, {2}, {3}}, f.Clauses)
}

func TestEncode_IsDeterministic(t *testing.T) {
	build := func() *graph.Graph {
		g := graph.New()
		ids := []graph.NodeID{g.AddNode(), g.AddNode(), g.AddNode(), g.AddNode()}
		g.AddEdge(ids[3], ids[0])
		g.AddEdge(ids[2], ids[1])
		g.AddEdge(ids[1], ids[3])
		return g
	}
	pre := map[graph.NodeID]int{4: 2, 1: 1, 3: 3}

	first, err := Encode(build(), 3, pre)
	require.NoError(t, err)
	for range 5 {
		again, err := Encode(build().Snapshot(), 3, pre)
		require.NoError(t, err)
		assert.Equal(t, first.String(), again.String())
	}
}

func TestEncode_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		graph   *graph.Graph
		k       int
		pre     map[graph.NodeID]int
		wantErr error
	}{
		{name: "zero budget", graph: path(2), k: 0, wantErr: ErrInvalidBudget},
		{name: "negative budget", graph: path(2), k: -3, wantErr: ErrInvalidBudget},
		{name: "budget checked before emptiness", graph: graph.New(), k: 0, wantErr: ErrInvalidBudget},
		{name: "empty graph", graph: graph.New(), k: 3, wantErr: ErrEmptyGraph},
		{name: "color above budget", graph: path(2), k: 2, pre: map[graph.NodeID]int{1: 3}, wantErr: ErrInvalidPreassignment},
		{name: "color zero", graph: path(2), k: 2, pre: map[graph.NodeID]int{1: 0}, wantErr: ErrInvalidPreassignment},
		{name: "absent node", graph: path(2), k: 2, pre: map[graph.NodeID]int{9: 1}, wantErr: ErrInvalidPreassignment},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Encode(tc.graph, tc.k, tc.pre)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, f)
		})
	}
}

func TestFormula_ValidateCatchesMismatch(t *testing.T) {
	f, err := Encode(path(2), 2, nil)
	require.NoError(t, err)

	f.NumClauses++
	_, err = f.WriteTo(&strings.Builder{})
	assert.ErrorIs(t, err, ErrCountMismatch)

	f.NumClauses--
	f.Clauses[0] = Clause{-1, 5}
	assert.ErrorIs(t, f.Validate(), ErrCountMismatch)

	f.Clauses[0] = Clause{}
	assert.ErrorIs(t, f.Validate(), ErrCountMismatch)
}
