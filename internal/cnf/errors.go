package cnf

import (
	"errors"

	"github.com/vk/satcolor/internal/varscheme"
)

var (
	// ErrInvalidBudget is returned when K < 1.
	ErrInvalidBudget = varscheme.ErrInvalidBudget

	// ErrEmptyGraph is returned when there is no node to color.
	ErrEmptyGraph = errors.New("graph has no nodes")

	// ErrInvalidPreassignment is returned when a fixed color references an
	// absent node or a color outside 1..K.
	ErrInvalidPreassignment = errors.New("invalid pre-assignment")

	// ErrCountMismatch reports a formula whose declared counts disagree with
	// its clauses. It indicates a bug and is never tolerated.
	ErrCountMismatch = errors.New("formula header does not match its clauses")
)
