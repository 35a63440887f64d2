// Package watch regenerates Dockerfiles whenever the configuration document
// changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the document and triggers regeneration with debouncing.
type Watcher struct {
	configPath   string
	regenerate   func() error
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
}

// New creates a watcher for configPath. regenerate is invoked after each
// debounced change; its error is logged, not fatal, so a broken intermediate
// save does not stop the watch.
func New(configPath string, regenerate func() error) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	return &Watcher{
		configPath:   absPath,
		regenerate:   regenerate,
		watcher:      fsw,
		debounceTime: 500 * time.Millisecond,
	}, nil
}

// Run watches until ctx is canceled. The directory is watched rather than
// the file itself so editors that replace the file atomically keep working.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}
	slog.Info("watching configuration", "config_path", w.configPath)

	var debounce *time.Timer
	trigger := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(w.configPath) {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("configuration change detected", "op", event.Op.String())
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.debounceTime, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("file watcher error", "error", err)
		case <-trigger:
			slog.Info("configuration changed, regenerating")
			if err := w.regenerate(); err != nil {
				slog.Error("regeneration failed", "error", err)
			}
		}
	}
}
