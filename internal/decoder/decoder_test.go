package decoder

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/satcolor/internal/graph"
)

// twoNodes returns a graph holding nodes 1 and 2 joined by an edge.
func twoNodes() *graph.Graph {
	g := graph.New()
	a, b := g.AddNode(), g.AddNode()
	g.AddEdge(a, b)
	return g
}

func TestDecode_Satisfiable(t *testing.T) {
	testCases := []struct {
		name   string
		output string
	}{
		{name: "minisat result file", output: "SAT\n1 -2 -3 4 0\n"},
		{name: "lowercase marker", output: "sat\n1 -2 -3 4 0\n"},
		{name: "long marker", output: "SATISFIABLE\n1 -2 -3 4 0\n"},
		{name: "no terminator", output: "SAT\n1 -2 -3 4\n"},
		{name: "no trailing newline", output: "SAT\n1 -2 -3 4 0"},
		{name: "bare literal line", output: "1 -2 -3 4 0\n"},
		{name: "literals split across lines", output: "SAT\n1 -2\n-3 4\n0\n"},
		{name: "competition format", output: "c solved by x\ns SATISFIABLE\nv 1 -2\nv -3 4\nv 0\n"},
		{name: "comments and blanks", output: "c hello\n\n   \nSAT\nc mid\n1 -2 -3 4 0\n"},
		{name: "literals on marker line", output: "SAT 1 -2 -3 4 0\n"},
		{name: "ignores text after terminator", output: "SAT\n1 -2 -3 4 0\ngarbage here\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Decode(twoNodes(), 2, 4, strings.NewReader(tc.output))
			require.NoError(t, err)
			assert.True(t, res.Satisfiable())
			assert.Equal(t, Assignment{1: 1, 2: 2}, res.Assignment)
		})
	}
}

func TestDecode_Unsatisfiable(t *testing.T) {
	for _, out := range []string{"UNSAT\n", "unsat", "Unsatisfiable\n", "s UNSATISFIABLE\n", "c x\n\nUNSAT\n"} {
		res, err := Decode(twoNodes(), 2, 4, strings.NewReader(out))
		require.NoError(t, err, "output %q", out)
		assert.Equal(t, Unsatisfiable, res.Status)
		assert.False(t, res.Satisfiable())
		assert.Nil(t, res.Assignment)
	}
}

func TestDecode_Indeterminate(t *testing.T) {
	for _, out := range []string{"INDETERMINATE\n", "s UNKNOWN\n"} {
		_, err := Decode(twoNodes(), 2, 4, strings.NewReader(out))
		assert.ErrorIs(t, err, ErrIndeterminate)
		assert.NotErrorIs(t, err, ErrMalformedAssignment)
	}
}

func TestDecode_Malformed(t *testing.T) {
	testCases := []struct {
		name   string
		output string
	}{
		{name: "empty output", output: ""},
		{name: "only comments", output: "c nothing\n\n"},
		{name: "sat without literals", output: "SAT\n"},
		{name: "sat then terminator only", output: "SAT\n0\n"},
		{name: "non integer token", output: "SAT\n1 x -3 4 0\n"},
		{name: "literal above range", output: "SAT\n1 -2 -3 5 0\n"},
		{name: "literal below range", output: "SAT\n1 -2 -3 -5 0\n"},
		{name: "node without color", output: "SAT\n1 -2 -3 -4 0\n"},
		{name: "node with two colors", output: "SAT\n1 2 -3 4 0\n"},
		{name: "unknown marker", output: "MAYBE\n1 -2 -3 4 0\n"},
		{name: "unsat after literals", output: "1 -2\nUNSAT\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Decode(twoNodes(), 2, 4, strings.NewReader(tc.output))
			assert.ErrorIs(t, err, ErrMalformedAssignment)
			assert.Nil(t, res, "a fault must never look like a verdict")
		})
	}
}

func TestDecode_IgnoresAbsentNodes(t *testing.T) {
	// Node 2 is a gap; its variables 3 and 4 may be set either way.
	g := graph.New()
	a := g.AddNode()
	gap := g.AddNode()
	c := g.AddNode()
	require.True(t, g.RemoveNode(gap))
	g.AddEdge(a, c)

	res, err := Decode(g, 2, 6, strings.NewReader("SAT\n1 -2 3 4 -5 6 0\n"))
	require.NoError(t, err)
	assert.Equal(t, Assignment{a: 1, c: 2}, res.Assignment)
}

func TestDecode_NodeRemovedAfterEncoding(t *testing.T) {
	g := twoNodes()
	require.True(t, g.RemoveNode(2))

	res, err := Decode(g, 2, 4, strings.NewReader("SAT\n-1 2 3 -4 0\n"))
	require.NoError(t, err)
	assert.Equal(t, Assignment{1: 2}, res.Assignment)
}

func TestDecode_InvalidBudget(t *testing.T) {
	_, err := Decode(twoNodes(), 0, 4, strings.NewReader("SAT\n1 0\n"))
	assert.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestDecode_ReadError(t *testing.T) {
	_, err := Decode(twoNodes(), 2, 4, failingReader{})
	assert.ErrorIs(t, err, ErrMalformedAssignment)
	assert.ErrorContains(t, err, "pipe closed")
}

func TestAssignment_Colors(t *testing.T) {
	colors, err := Assignment{1: 1, 2: 3}.Colors()
	require.NoError(t, err)
	assert.Equal(t, map[graph.NodeID]graph.Color{1: graph.Red, 2: graph.Blue}, colors)

	_, err = Assignment{1: graph.PaletteSize + 1}.Colors()
	assert.Error(t, err)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "satisfiable", Satisfiable.String())
	assert.Equal(t, "unsatisfiable", Unsatisfiable.String())
	assert.Equal(t, "unknown", Status(0).String())
}
