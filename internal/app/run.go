package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/cookery/internal/companion"
	"github.com/vk/cookery/internal/ctxlog"
	"github.com/vk/cookery/internal/resolver"
	"github.com/vk/cookery/modules/core"
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 100 * time.Millisecond

// Run executes the module at path.
func (a *App) Run(ctx context.Context, path string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "path", path)

	if _, err := a.engine.ExecuteFile(ctx, path); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// Eval executes expr as an inline module and prints its result.
func (a *App) Eval(ctx context.Context, expr string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	result, err := a.engine.ExecuteExpression(ctx, expr)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	_, err = fmt.Fprintln(a.outW, core.Format(result))
	return err
}

// Watch runs the module at path, then runs it again whenever a module or
// companion file in its directory changes, until ctx is done. Failed runs
// are logged and do not stop watching.
func (a *App) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	a.logger.Info("Watching for changes.", "dir", dir)

	a.runLogged(ctx, path)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("Watcher stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			a.logger.Debug("Change detected.", "file", event.Name, "op", event.Op.String())
			debounce = time.After(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("Watcher error.", "error", err)

		case <-debounce:
			debounce = nil
			a.runLogged(ctx, path)
		}
	}
}

func (a *App) runLogged(ctx context.Context, path string) {
	if err := a.Run(ctx, path); err != nil {
		a.logger.Error("Run failed.", "path", path, "error", err)
		return
	}
	a.logger.Info("Run finished.", "path", path)
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	switch filepath.Ext(event.Name) {
	case resolver.Ext, companion.Ext:
		return true
	}
	return false
}
