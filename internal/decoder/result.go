// Package decoder turns the text a SAT solver printed back into a color
// assignment for the nodes that were encoded.
package decoder

import (
	"errors"

	"github.com/vk/satcolor/internal/graph"
)

var (
	// ErrMalformedAssignment means the solver claimed satisfiability but the
	// assignment it printed is unusable. It is never reported as
	// unsatisfiable.
	ErrMalformedAssignment = errors.New("malformed solver assignment")

	// ErrIndeterminate means the solver stopped without a verdict.
	ErrIndeterminate = errors.New("solver returned no verdict")
)

// Status is the verdict of one solve.
type Status int

const (
	Satisfiable Status = iota + 1
	Unsatisfiable
)

func (s Status) String() string {
	switch s {
	case Satisfiable:
		return "satisfiable"
	case Unsatisfiable:
		return "unsatisfiable"
	default:
		return "unknown"
	}
}

// Assignment maps every present node to a 1-based color index.
type Assignment map[graph.NodeID]int

// Colors converts the indices to palette colors. Indices beyond the palette
// are reported as an error.
func (a Assignment) Colors() (map[graph.NodeID]graph.Color, error) {
	out := make(map[graph.NodeID]graph.Color, len(a))
	for id, idx := range a {
		c, err := graph.FromIndex(idx)
		if err != nil {
			return nil, err
		}
		out[id] = c
	}
	return out, nil
}

// Result is a decoded verdict. Assignment is nil when Status is
// Unsatisfiable.
type Result struct {
	Status     Status
	Assignment Assignment
}

// Satisfiable reports whether a coloring was found.
func (r *Result) Satisfiable() bool {
	return r != nil && r.Status == Satisfiable
}
