package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is the top-level shape of a graph document.
type fileRoot struct {
	Budget *int         `hcl:"budget,optional"`
	Solver *solverBlock `hcl:"solver,block"`
	Nodes  []*nodeBlock `hcl:"node,block"`
	Edges  []*edgeBlock `hcl:"edge,block"`
}

type solverBlock struct {
	Kind    string   `hcl:"kind,label"`
	Path    *string  `hcl:"path,optional"`
	Args    []string `hcl:"args,optional"`
	Output  *string  `hcl:"output,optional"`
	Timeout *string  `hcl:"timeout,optional"`
}

// nodeBlock keeps its body raw; attributes go through the Converter so that
// position and meta accept any convertible value.
type nodeBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

type edgeBlock struct {
	From string `hcl:"from,label"`
	To   string `hcl:"to,label"`
}

// nodeAttributes are the attributes a node block may carry.
type nodeAttributes struct {
	Label    string            `cty:"label"`
	Color    string            `cty:"color"`
	Position []float64         `cty:"position"`
	Meta     map[string]string `cty:"meta"`
}
