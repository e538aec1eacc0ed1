package solver

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/vk/satcolor/internal/cnf"
	"github.com/vk/satcolor/internal/ctxlog"
)

const giniPollInterval = 5 * time.Millisecond

// Gini solves in process with github.com/go-air/gini. Unlike gophersat the
// search runs under a handle that can be stopped, so a timeout really ends
// the work.
type Gini struct {
	timeout time.Duration
}

func NewGini(timeout time.Duration) *Gini {
	return &Gini{timeout: timeout}
}

func (g *Gini) Name() string { return "gini" }

func (g *Gini) Probe(context.Context) error { return nil }

func (g *Gini) Solve(ctx context.Context, f *cnf.Formula) (*Verdict, error) {
	start := time.Now()
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	text, err := f.DIMACS()
	if err != nil {
		return nil, err
	}
	s, err := gini.NewDimacs(bytes.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: gini rejected formula: %v", ErrIOFault, err)
	}

	handle := s.GoSolve()
	ticker := time.NewTicker(giniPollInterval)
	defer ticker.Stop()

	for {
		if res, finished := handle.Test(); finished {
			out := g.render(s, res, f.NumVariables)
			elapsed := time.Since(start)
			ctxlog.FromContext(ctx).Debug("Solver finished.", "engine", g.Name(), "result", res, "elapsed", elapsed)
			return &Verdict{Output: out, Engine: g.Name(), Elapsed: elapsed}, nil
		}
		select {
		case <-ctx.Done():
			handle.Stop()
			return nil, contextError(ctx, g.Name())
		case <-ticker.C:
		}
	}
}

func (g *Gini) render(s *gini.Gini, res, numVars int) []byte {
	switch res {
	case 1:
		maxVar := int(s.MaxVar())
		return render(true, numVars, func(v int) bool {
			return v <= maxVar && s.Value(z.Var(v).Pos())
		})
	case -1:
		return render(false, numVars, nil)
	default:
		return []byte("INDETERMINATE\n")
	}
}
