package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vk/satcolor/internal/cnf"
	"github.com/vk/satcolor/internal/solver"
)

// FakeGateway is a solver.Gateway returning canned answers. It records every
// formula it was asked to solve.
type FakeGateway struct {
	ProbeErr error
	Output   string
	SolveErr error
	// Delay holds Solve back until it elapses or the context ends.
	Delay time.Duration

	mu       sync.Mutex
	probes   int
	formulas []*cnf.Formula
}

var _ solver.Gateway = (*FakeGateway)(nil)

func (f *FakeGateway) Name() string { return "fake" }

func (f *FakeGateway) Probe(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	return f.ProbeErr
}

func (f *FakeGateway) Solve(ctx context.Context, formula *cnf.Formula) (*solver.Verdict, error) {
	f.mu.Lock()
	f.formulas = append(f.formulas, formula)
	f.mu.Unlock()

	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return nil, solver.ErrTimeout
		}
	}
	if f.SolveErr != nil {
		return nil, f.SolveErr
	}
	return &solver.Verdict{Output: []byte(f.Output), Engine: f.Name()}, nil
}

// Probes returns how many times Probe was called.
func (f *FakeGateway) Probes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probes
}

// Formulas returns the formulas passed to Solve, oldest first.
func (f *FakeGateway) Formulas() []*cnf.Formula {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*cnf.Formula(nil), f.formulas...)
}
