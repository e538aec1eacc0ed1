package config

import (
	"errors"
	"time"
)

// ErrInvalidDocument wraps every structural problem found in a document.
var ErrInvalidDocument = errors.New("invalid graph document")

// Document is a graph as written by a user.
type Document struct {
	// Budget is the number of colors to try; 0 means "not set".
	Budget int           `validate:"omitempty,min=1,max=8"`
	Solver *SolverConfig `validate:"omitempty"`
	Nodes  []*Node       `validate:"dive,required"`
	Edges  []*Edge       `validate:"dive,required"`

	// Source is the path the document was loaded from, if any.
	Source string `validate:"-"`
}

// SolverConfig selects and configures the decision procedure.
type SolverConfig struct {
	Kind    string        `validate:"omitempty,oneof=external gophersat gini"`
	Path    string        `validate:"omitempty"`
	Args    []string      `validate:"omitempty"`
	Output  string        `validate:"omitempty,oneof=file stdout"`
	Timeout time.Duration `validate:"gte=0"`
}

// Node is one named vertex. Color is a palette name, empty when uncolored.
type Node struct {
	Name     string            `validate:"required"`
	Label    string            `validate:"omitempty"`
	Color    string            `validate:"omitempty"`
	Position []float64         `validate:"omitempty,len=2"`
	Meta     map[string]string `validate:"omitempty"`
}

// Edge joins two nodes by name.
type Edge struct {
	From string `validate:"required"`
	To   string `validate:"required"`
}

// NodeByName returns the node called name.
func (d *Document) NodeByName(name string) (*Node, bool) {
	for _, n := range d.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}
