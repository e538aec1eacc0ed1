package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/vk/satcolor/internal/config"
	"github.com/vk/satcolor/internal/ctxlog"
	"github.com/vk/satcolor/internal/fsutil"
	"github.com/vk/satcolor/internal/graph"
)

// Run executes the main application logic based on the app configuration.
// It returns ErrUncolorable when every attempt finished but some graph did
// not fit its budget. In watch or serve mode it blocks until ctx ends.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		if err := a.startServer(ctx); err != nil {
			return err
		}
		defer a.stopServer(ctx)
	}

	var err error
	switch {
	case a.config.RandomNodes > 0:
		err = a.colorRandom(ctx)
	case a.config.GraphPath != "":
		err = a.colorPath(ctx, a.config.GraphPath)
	}

	if !a.config.Watch && !a.config.Serve {
		a.logger.Debug("App.Run method finished.")
		return err
	}
	if err != nil {
		a.logger.Warn("Initial coloring pass failed.", "error", err)
	}

	if a.config.Watch {
		return a.watch(ctx, a.config.GraphPath)
	}
	a.logger.Info("🎨 Serving coloring requests until interrupted.")
	<-ctx.Done()
	return nil
}

// colorPath colors the document at root, or every document below it.
func (a *App) colorPath(ctx context.Context, root string) error {
	files, err := fsutil.FindFilesByExtension(root, a.extensions()...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no graph documents found in %s", root)
	}
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	a.logger.Debug("Found graph documents.", "root", root, "count", len(files))

	var failed []error
	uncolorable := 0
	for _, path := range files {
		colored, err := a.colorFile(ctx, path, a.outputFor(root, path, info.IsDir()))
		if err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if !colored {
			uncolorable++
		}
	}

	if len(failed) > 0 {
		return errors.Join(failed...)
	}
	if uncolorable > 0 {
		return fmt.Errorf("%w: %d of %d documents", ErrUncolorable, uncolorable, len(files))
	}
	return nil
}

// outputFor returns where the solved copy of path goes, or "" for nowhere.
func (a *App) outputFor(root, path string, rootIsDir bool) string {
	if a.config.OutPath == "" {
		return ""
	}
	if !rootIsDir {
		return a.config.OutPath
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.Join(a.config.OutPath, rel)
}

func (a *App) colorFile(ctx context.Context, path, outPath string) (bool, error) {
	format, err := a.formatFor(path)
	if err != nil {
		return false, err
	}
	doc, err := format.Load(ctx, path)
	if err != nil {
		return false, err
	}

	out, b, err := a.colorDocument(ctx, doc)
	if err != nil {
		return false, err
	}
	a.report(doc.Source, out, b)

	if outPath != "" {
		if err := a.writeDocument(ctx, outPath, doc); err != nil {
			return false, err
		}
	}
	return out.Satisfiable(), nil
}

// colorRandom colors a random graph built from the configured seed.
func (a *App) colorRandom(ctx context.Context) error {
	seed := a.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	g := graph.New()
	graph.Random(rng, g, a.config.RandomNodes)
	doc := config.FromGraph(g, a.config.Budget)
	doc.Source = fmt.Sprintf("random(n=%d, seed=%d)", a.config.RandomNodes, seed)
	a.logger.Info("Generated random graph.", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "seed", seed)

	out, b, err := a.colorDocument(ctx, doc)
	if err != nil {
		return err
	}
	a.report(doc.Source, out, b)

	if a.config.OutPath != "" {
		if err := a.writeDocument(ctx, a.config.OutPath, doc); err != nil {
			return err
		}
	}
	if !out.Satisfiable() {
		return ErrUncolorable
	}
	return nil
}

// writeDocument replaces path atomically with doc, in the format its
// extension names.
func (a *App) writeDocument(ctx context.Context, path string, doc *config.Document) error {
	format, err := a.formatFor(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".satcolor-*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := format.Write(ctx, tmp, doc); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	a.logger.Debug("Solved document written.", "path", path)
	return nil
}
