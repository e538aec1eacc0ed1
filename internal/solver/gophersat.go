package solver

import (
	"bytes"
	"context"
	"fmt"
	"time"

	gsolver "github.com/crillab/gophersat/solver"

	"github.com/vk/satcolor/internal/cnf"
	"github.com/vk/satcolor/internal/ctxlog"
)

// Gophersat solves in process with github.com/crillab/gophersat.
type Gophersat struct {
	timeout time.Duration
}

func NewGophersat(timeout time.Duration) *Gophersat {
	return &Gophersat{timeout: timeout}
}

func (g *Gophersat) Name() string { return "gophersat" }

// Probe always succeeds; the engine is linked in.
func (g *Gophersat) Probe(context.Context) error { return nil }

// Solve parses the DIMACS rendering of f, so the engine sees exactly what an
// external solver would. gophersat cannot be interrupted: on timeout the
// search is abandoned and finishes in the background.
func (g *Gophersat) Solve(ctx context.Context, f *cnf.Formula) (*Verdict, error) {
	start := time.Now()
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	text, err := f.DIMACS()
	if err != nil {
		return nil, err
	}
	pb, err := gsolver.ParseCNF(bytes.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: gophersat rejected formula: %v", ErrIOFault, err)
	}

	done := make(chan []byte, 1)
	go func() {
		s := gsolver.New(pb)
		switch s.Solve() {
		case gsolver.Sat:
			model := s.Model()
			done <- render(true, f.NumVariables, func(v int) bool {
				return v <= len(model) && model[v-1]
			})
		case gsolver.Unsat:
			done <- render(false, f.NumVariables, nil)
		default:
			done <- []byte("INDETERMINATE\n")
		}
	}()

	select {
	case out := <-done:
		elapsed := time.Since(start)
		ctxlog.FromContext(ctx).Debug("Solver finished.", "engine", g.Name(), "elapsed", elapsed)
		return &Verdict{Output: out, Engine: g.Name(), Elapsed: elapsed}, nil
	case <-ctx.Done():
		return nil, contextError(ctx, g.Name())
	}
}
