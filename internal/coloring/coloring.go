package coloring

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vk/satcolor/internal/cnf"
	"github.com/vk/satcolor/internal/ctxlog"
	"github.com/vk/satcolor/internal/decoder"
	"github.com/vk/satcolor/internal/graph"
	"github.com/vk/satcolor/internal/solver"
)

// DefaultBudget is the number of colors used when none is requested.
const DefaultBudget = 3

// Request describes one attempt.
type Request struct {
	// Budget is the number of palette colors allowed, 1..graph.PaletteSize.
	Budget int
	// KeepColors pins every node that is already colored to its color.
	KeepColors bool
	// Preassigned pins individual nodes. It wins over KeepColors.
	Preassigned map[graph.NodeID]graph.Color
}

// Outcome reports a finished attempt.
type Outcome struct {
	AttemptID uuid.UUID
	Engine    string
	Budget    int
	Status    decoder.Status
	// Colors holds the applied coloring; nil when unsatisfiable.
	Colors    map[graph.NodeID]graph.Color
	Applied   int
	Variables int
	Clauses   int
	Stats     cnf.Stats
	SolveTime time.Duration
	Elapsed   time.Duration
}

// Satisfiable reports whether the graph was colored.
func (o *Outcome) Satisfiable() bool {
	return o != nil && o.Status == decoder.Satisfiable
}

// Observer is told about every attempt, successful or not. err is nil
// exactly when the attempt produced a verdict.
type Observer interface {
	Observe(o *Outcome, err error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(o *Outcome, err error)

func (f ObserverFunc) Observe(o *Outcome, err error) { f(o, err) }

// Option configures a Colorer.
type Option func(*Colorer)

// WithObserver registers obs. Observers run synchronously, in registration
// order, before Color returns.
func WithObserver(obs Observer) Option {
	return func(c *Colorer) { c.observers = append(c.observers, obs) }
}

// Colorer runs attempts against one gateway. Attempts are serialized; a
// second call blocks until the first returns.
type Colorer struct {
	mu        sync.Mutex
	gw        solver.Gateway
	observers []Observer
}

func New(gw solver.Gateway, opts ...Option) *Colorer {
	c := &Colorer{gw: gw}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Gateway returns the gateway attempts are solved with.
func (c *Colorer) Gateway() solver.Gateway { return c.gw }

// Color tries to color g with at most req.Budget colors. An unsatisfiable
// budget is a normal outcome, not an error. On any error g is left exactly as
// it was.
func (c *Colorer) Color(ctx context.Context, g *graph.Graph, req Request) (*Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	out := &Outcome{AttemptID: uuid.New(), Engine: c.gw.Name(), Budget: req.Budget}
	ctx, logger := ctxlog.With(ctx, "attempt", out.AttemptID.String(), "engine", out.Engine, "budget", req.Budget)

	err := c.run(ctx, g, req, out)
	out.Elapsed = time.Since(start)

	for _, obs := range c.observers {
		obs.Observe(out, err)
	}

	switch {
	case err == nil && out.Satisfiable():
		logger.Info("Graph colored.", "nodes", out.Applied, "elapsed", out.Elapsed)
	case err == nil:
		logger.Info("Graph is not colorable within budget.", "elapsed", out.Elapsed)
	case errors.Is(err, decoder.ErrMalformedAssignment), errors.Is(err, cnf.ErrCountMismatch):
		logger.Error("Solver answer could not be used.", "error", err)
	default:
		logger.Warn("Coloring attempt failed.", "error", err)
	}

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Colorer) run(ctx context.Context, g *graph.Graph, req Request, out *Outcome) error {
	logger := ctxlog.FromContext(ctx)

	if req.Budget < 1 || req.Budget > graph.PaletteSize {
		return fmt.Errorf("%w: %d is outside 1..%d", cnf.ErrInvalidBudget, req.Budget, graph.PaletteSize)
	}

	snap := g.Snapshot()
	f, err := cnf.Encode(snap, req.Budget, preassignments(snap, req))
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}
	out.Variables = f.NumVariables
	out.Clauses = f.NumClauses
	out.Stats = f.Stats
	logger.Debug("Formula encoded.",
		"nodes", snap.NodeCount(),
		"variables", f.NumVariables,
		"clauses", f.NumClauses,
		"edge_exclusion", f.Stats.EdgeExclusion,
		"at_least_one", f.Stats.AtLeastOne,
		"at_most_one", f.Stats.AtMostOne,
		"preassigned", f.Stats.Preassigned,
	)

	if err := c.gw.Probe(ctx); err != nil {
		return err
	}

	v, err := c.gw.Solve(ctx, f)
	if err != nil {
		return err
	}
	out.SolveTime = v.Elapsed

	res, err := decoder.Decode(g, req.Budget, f.NumVariables, bytes.NewReader(v.Output))
	if err != nil {
		return err
	}
	out.Status = res.Status
	if !res.Satisfiable() {
		return nil
	}

	colors, err := res.Assignment.Colors()
	if err != nil {
		return fmt.Errorf("%w: %v", decoder.ErrMalformedAssignment, err)
	}
	out.Colors = colors
	out.Applied = g.ApplyColors(colors)
	return nil
}

func preassignments(snap *graph.Snapshot, req Request) map[graph.NodeID]int {
	pre := make(map[graph.NodeID]int, len(req.Preassigned))
	if req.KeepColors {
		for _, n := range snap.Nodes() {
			if n.Color.Valid() {
				pre[n.ID] = n.Color.Index()
			}
		}
	}
	for id, color := range req.Preassigned {
		pre[id] = color.Index()
	}
	return pre
}
