// # internal/core/app/watch.go
package app

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"a11ylint/internal/core/watcher"
)

// StartWatcher begins continuous analysis: every debounced batch of
// file changes updates the model set and triggers a full rebuild.
func (a *App) StartWatcher() error {
	a.mu.Lock()
	if a.watcher != nil {
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()

	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	w.SetExtensions(a.codeParser.SupportedExtensions())

	if err := w.Watch(a.Config.WatchPaths); err != nil {
		_ = w.Close()
		return err
	}

	a.mu.Lock()
	a.watcher = w
	a.mu.Unlock()
	return nil
}

// HandleChanges reparses the changed files and rebuilds the whole
// document. Fragments reference each other across files, so a partial
// rebuild could leave stale attachments behind.
func (a *App) HandleChanges(paths []string) {
	if !a.limiter.Allow(1) {
		if err := a.limiter.Wait(context.Background(), 1); err != nil {
			return
		}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			a.RemoveFile(path)
			continue
		}
		if err := a.ProcessFile(path); err != nil {
			slog.Warn("failed to reprocess changed file", "path", path, "error", err)
		}
	}

	result, err := a.Rebuild(context.Background())
	if err != nil {
		if !errors.Is(err, ErrSuperseded) {
			slog.Error("rebuild after change failed", "error", err)
		}
		return
	}
	a.notify(result)
}
