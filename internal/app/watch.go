package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"

	"github.com/vk/satcolor/internal/ctxlog"
	"github.com/vk/satcolor/internal/fsutil"
)

// watchDebounce collapses the burst of events an editor produces on save.
const watchDebounce = 100 * time.Millisecond

// watch recolors documents under root whenever they change, until ctx ends.
// Solved copies written to the output path are ignored.
func (a *App) watch(ctx context.Context, root string) error {
	logger := ctxlog.FromContext(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer w.Close()

	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	match := a.watchFilter(root, info.IsDir())
	dirs := []string{filepath.Dir(root)}
	if info.IsDir() {
		if dirs, err = watchDirs(root); err != nil {
			return err
		}
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	logger.Info("👀 Watching for changes.", "root", root, "dirs", len(dirs))

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Watcher stopped.")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && info.IsDir() {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() && !strings.HasPrefix(st.Name(), ".") {
					if err := w.Add(ev.Name); err != nil {
						logger.Warn("Failed to watch new directory.", "dir", ev.Name, "error", err)
					} else {
						logger.Debug("Watching new directory.", "dir", ev.Name)
					}
					continue
				}
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !match(ev.Name) {
				continue
			}
			logger.Debug("Document changed.", "path", ev.Name, "op", ev.Op.String())
			pending[ev.Name] = struct{}{}
			timer.Reset(watchDebounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)

		case <-timer.C:
			paths := lo.Keys(pending)
			slices.Sort(paths)
			clear(pending)
			for _, path := range paths {
				if _, err := os.Stat(path); err != nil {
					// Renamed away or deleted.
					continue
				}
				colored, err := a.colorFile(ctx, path, a.outputFor(root, path, info.IsDir()))
				switch {
				case err != nil:
					logger.Warn("Recoloring failed.", "path", path, "error", err)
				case !colored:
					logger.Info("Document is not colorable within budget.", "path", path)
				}
			}
		}
	}
}

// watchFilter accepts documents this app can read that live under root and
// outside the output path.
func (a *App) watchFilter(root string, rootIsDir bool) func(string) bool {
	absRoot, _ := filepath.Abs(root)
	var absOut string
	if a.config.OutPath != "" {
		absOut, _ = filepath.Abs(a.config.OutPath)
	}
	exts := a.extensions()

	return func(path string) bool {
		abs, err := filepath.Abs(path)
		if err != nil {
			return false
		}
		if absOut != "" && (abs == absOut || strings.HasPrefix(abs, absOut+string(filepath.Separator))) {
			return false
		}
		if !rootIsDir {
			return abs == absRoot
		}
		return strings.HasPrefix(abs, absRoot+string(filepath.Separator)) && fsutil.HasExtension(abs, exts...)
	}
}

// watchDirs lists root and its non-hidden subdirectories.
func watchDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}
