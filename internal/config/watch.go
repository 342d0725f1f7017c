package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/monet/internal/logger"
)

// settle is how long the watcher waits after the last event before reloading,
// so editors that write in several steps trigger one reload.
const settle = 100 * time.Millisecond

// Watch reloads path whenever it changes and passes each valid config to fn.
// Invalid files are logged and skipped. Watch blocks until ctx is done.
//
// The parent directory is watched rather than the file, since many editors
// replace the file on save.
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	log := logger.Named("config")
	log.Info("watching config", zap.String("path", path))

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(settle)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			cfg, err := LoadFile(path)
			if err != nil {
				log.Warn("config reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			log.Info("config reloaded", zap.String("path", path))
			fn(cfg)
		}
	}
}
