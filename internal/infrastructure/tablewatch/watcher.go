// Package tablewatch reloads custom table files when they change on disk.
package tablewatch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ersonp/campaign-forge/internal/infrastructure/parsers"
)

// DefaultDebounce is how long a file must stay quiet before it is reloaded.
// Editors often write a file several times per save.
const DefaultDebounce = 300 * time.Millisecond

// ReloadFunc is called with the path of a changed table file.
type ReloadFunc func(ctx context.Context, path string) error

// Watcher watches one directory for created or modified table files.
type Watcher struct {
	dir      string
	reload   ReloadFunc
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a Watcher for dir. logger may be nil.
func New(dir string, reload ReloadFunc, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		dir:      dir,
		reload:   reload,
		debounce: DefaultDebounce,
		logger:   logger,
	}
}

// SetDebounce changes the quiet period. Values below 1ms are ignored.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d >= time.Millisecond {
		w.debounce = d
	}
}

// Run watches until ctx is done. Reload failures are logged and do not stop
// the watcher. Removed files are ignored: their tables stay registered.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.logger.Debug("watching tables directory", zap.String("dir", w.dir))

	tick := max(w.debounce/3, time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))

		case now := <-ticker.C:
			for path, changed := range pending {
				if now.Sub(changed) < w.debounce {
					continue
				}
				delete(pending, path)
				if err := w.reload(ctx, path); err != nil {
					w.logger.Warn("reloading table file failed", zap.String("path", path), zap.Error(err))
					continue
				}
				w.logger.Info("table file reloaded", zap.String("path", path))
			}
		}
	}
}

// relevant reports whether event is a write to a supported table file.
func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	return parsers.ForFile(event.Name) != nil
}
