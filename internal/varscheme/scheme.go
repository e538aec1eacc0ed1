// Package varscheme maps (node identity, color index) pairs onto the positive
// integer variables of a CNF formula and back.
//
// With K colors, node i owns the contiguous block of variables
// (i-1)*K+1 .. i*K. Identities are 1-based and may have gaps; a gap still
// owns its block, it simply never appears in a clause.
package varscheme

import (
	"errors"
	"fmt"
)

// ErrInvalidBudget is returned for a color budget below 1.
var ErrInvalidBudget = errors.New("color budget must be at least 1")

// Scheme is the variable mapping for one color budget K.
type Scheme struct {
	k int
}

// New returns the scheme for budget k.
func New(k int) (Scheme, error) {
	if k < 1 {
		return Scheme{}, fmt.Errorf("%w: got %d", ErrInvalidBudget, k)
	}
	return Scheme{k: k}, nil
}

// K returns the color budget.
func (s Scheme) K() int { return s.k }

// Var returns the variable meaning "node has color c". Both node and c are
// 1-based.
func (s Scheme) Var(node, c int) int {
	return (node-1)*s.k + c
}

// NodeOf returns the node identity owning variable v.
func (s Scheme) NodeOf(v int) int {
	return (v-1)/s.k + 1
}

// ColorOf returns the color index encoded by variable v.
func (s Scheme) ColorOf(v int) int {
	return (v-1)%s.k + 1
}

// Split is NodeOf and ColorOf in one call.
func (s Scheme) Split(v int) (node, c int) {
	return s.NodeOf(v), s.ColorOf(v)
}

// NumVariables returns the declared variable count for a graph whose
// greatest present identity is maxID.
func (s Scheme) NumVariables(maxID int) int {
	return maxID * s.k
}

// Valid reports whether the literal lit names one of the numVars declared
// variables, in either polarity.
func Valid(lit, numVars int) bool {
	return lit != 0 && lit <= numVars && -lit <= numVars
}
