package questionnaire

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDelay coalesces the burst of events an editor save produces
const reloadDelay = 250 * time.Millisecond

// Watch reloads r from the built-in catalogs and dir whenever a catalog file in
// dir changes, until ctx is done. A catalog that fails to load is logged and
// the previous questionnaires stay in service. The returned channel is closed
// once the watcher has stopped.
func Watch(ctx context.Context, dir string, r *Registry, logger *zap.Logger) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		defer w.Close()

		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Ext(ev.Name) != ".yaml" {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
					pending = time.After(reloadDelay)
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("catalog watcher error", zap.Error(err))

			case <-pending:
				pending = nil
				qs, err := LoadWithDir(dir)
				if err == nil {
					err = r.Replace(qs...)
				}
				if err != nil {
					logger.Error("catalog reload failed, keeping previous questionnaires", zap.String("dir", dir), zap.Error(err))
					continue
				}
				logger.Info("questionnaires reloaded", zap.String("dir", dir), zap.Int("count", len(qs)))
			}
		}
	}()
	return stopped, nil
}
