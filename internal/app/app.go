package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/vk/satcolor/internal/coloring"
	"github.com/vk/satcolor/internal/config"
	"github.com/vk/satcolor/internal/ctxlog"
	"github.com/vk/satcolor/internal/fsutil"
	"github.com/vk/satcolor/internal/graph"
	"github.com/vk/satcolor/internal/hcl"
	"github.com/vk/satcolor/internal/notify"
	"github.com/vk/satcolor/internal/solver"
	"github.com/vk/satcolor/internal/yamldoc"
)

// GatewayFactory builds the gateway for one set of solver settings.
type GatewayFactory func(solver.Settings) (solver.Gateway, error)

// Option configures an App.
type Option func(*App)

// WithGatewayFactory replaces solver.New.
func WithGatewayFactory(f GatewayFactory) Option {
	return func(a *App) { a.newGateway = f }
}

// WithPublisher replaces the publisher derived from the notify settings.
func WithPublisher(p notify.Publisher) Option {
	return func(a *App) { a.publisher = p }
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	outMu  sync.Mutex
	logger *slog.Logger
	config *Config

	formats    []config.Format
	metrics    *Metrics
	publisher  notify.Publisher
	newGateway GatewayFactory
	// apiGateway serves every HTTP request, behind a circuit breaker.
	apiGateway solver.Gateway

	httpServer *http.Server
}

// NewApp is the constructor for the main application. Results are written
// to outW, logs to logW. The app gets its own isolated logger and metrics
// registry.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		formats:    []config.Format{hcl.New(), yamldoc.New()},
		metrics:    NewMetrics(),
		newGateway: solver.New,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.publisher == nil {
		a.publisher = notify.Nop{}
		if cfg.NotifyURL != "" {
			p, err := notify.NewSocketIO(notify.Settings{URL: cfg.NotifyURL, Event: cfg.NotifyEvent})
			if err != nil {
				return nil, fmt.Errorf("configuring notifications: %w", err)
			}
			a.publisher = p
			logger.Debug("Notifications enabled.", "url", cfg.NotifyURL)
		}
	}

	if cfg.HealthcheckPort > 0 {
		gw, err := a.newGateway(a.solverSettings(nil))
		if err != nil {
			return nil, fmt.Errorf("configuring solver: %w", err)
		}
		a.apiGateway = solver.NewBreaker(gw, solver.BreakerSettings{Logger: logger})
	}
	return a, nil
}

// Metrics returns the app's collector. This is primarily for testing.
func (a *App) Metrics() *Metrics {
	return a.metrics
}

func (a *App) extensions() []string {
	var exts []string
	for _, f := range a.formats {
		exts = append(exts, f.Extensions()...)
	}
	return exts
}

func (a *App) formatFor(path string) (config.Format, error) {
	for _, f := range a.formats {
		if fsutil.HasExtension(path, f.Extensions()...) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("no document format handles %q (known: %s)", filepath.Base(path), strings.Join(a.extensions(), ", "))
}

// budget resolves the color budget for doc: the command line wins, then the
// document, then the default.
func (a *App) budget(doc *config.Document) int {
	switch {
	case a.config.Budget > 0:
		return a.config.Budget
	case doc != nil && doc.Budget > 0:
		return doc.Budget
	default:
		return coloring.DefaultBudget
	}
}

// solverSettings merges the document solver block with the command line.
// Passing nil yields the command line settings alone.
func (a *App) solverSettings(doc *config.SolverConfig) solver.Settings {
	s := solver.Settings{Kind: solver.KindExternal, Timeout: DefaultSolverTimeout}
	if doc != nil {
		if doc.Kind != "" {
			s.Kind = solver.Kind(doc.Kind)
		}
		s.Path = doc.Path
		s.Args = slices.Clone(doc.Args)
		s.OutputMode = solver.OutputMode(doc.Output)
		if doc.Timeout > 0 {
			s.Timeout = doc.Timeout
		}
	}

	cli := a.config.Solver
	if cli.Kind != "" {
		s.Kind = solver.Kind(cli.Kind)
	}
	if cli.Path != "" {
		s.Path = cli.Path
	}
	if cli.Output != "" {
		s.OutputMode = solver.OutputMode(cli.Output)
	}
	if cli.Timeout > 0 {
		s.Timeout = cli.Timeout
	}
	return s
}

func (a *App) colorer(doc *config.SolverConfig) (*coloring.Colorer, error) {
	gw, err := a.newGateway(a.solverSettings(doc))
	if err != nil {
		return nil, err
	}
	return coloring.New(gw, coloring.WithObserver(a.metrics)), nil
}

// colorDocument binds doc, colors it and writes the new colors back into
// doc. A nil error with an unsatisfiable outcome means the budget was too
// small.
func (a *App) colorDocument(ctx context.Context, doc *config.Document) (*coloring.Outcome, *config.Binding, error) {
	ctx, logger := ctxlog.With(ctx, "source", doc.Source)

	b, err := config.Bind(ctx, doc)
	if err != nil {
		return nil, nil, err
	}

	budget := a.budget(doc)
	if cleared := b.Graph.ReconcilePalette(budget); len(cleared) > 0 {
		logger.Warn("Cleared colors outside the budget.", "budget", budget, "nodes", lo.Map(cleared, func(id graph.NodeID, _ int) string { return b.Name(id) }))
	}

	colorer, err := a.colorer(doc.Solver)
	if err != nil {
		return nil, nil, err
	}
	out, err := colorer.Color(ctx, b.Graph, coloring.Request{Budget: budget, KeepColors: a.config.KeepColors})
	a.publish(ctx, doc.Source, out, err, b.Name)
	if err != nil {
		return nil, nil, err
	}

	b.Refresh(doc)
	return out, b, nil
}

func (a *App) publish(ctx context.Context, source string, out *coloring.Outcome, err error, name func(graph.NodeID) string) {
	ev := notify.NewEvent(source, out, err, name)
	if perr := a.publisher.Publish(ctx, ev); perr != nil {
		ctxlog.FromContext(ctx).Warn("Failed to publish coloring event.", "error", perr)
	}
}

// report writes a one-line summary of an attempt to the result writer.
func (a *App) report(source string, out *coloring.Outcome, b *config.Binding) {
	a.outMu.Lock()
	defer a.outMu.Unlock()

	if !out.Satisfiable() {
		fmt.Fprintf(a.outW, "%s: not colorable with %d colors (%s)\n", source, out.Budget, out.Engine)
		return
	}

	pairs := make([]string, 0, len(out.Colors))
	for id, c := range out.Colors {
		pairs = append(pairs, b.Name(id)+"="+c.String())
	}
	sort.Strings(pairs)
	used := len(lo.Uniq(lo.Values(out.Colors)))
	fmt.Fprintf(a.outW, "%s: colored %d nodes with %d of %d colors (%s): %s\n",
		source, len(out.Colors), used, out.Budget, out.Engine, strings.Join(pairs, " "))
}
