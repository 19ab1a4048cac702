package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchProfiles reloads the overrides file into the resolver whenever it is
// written, created or renamed into place. A file that fails to parse leaves the
// previous mapping active. The watch stops when ctx is cancelled.
func WatchProfiles(ctx context.Context, path string, resolver *Resolver, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating environments watcher: %w", err)
	}
	// Editors replace files by rename, so watch the directory and filter by name.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", path, err)
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				profiles, err := LoadProfiles(path)
				if err != nil {
					logger.Error("Keeping previous API environments", "path", path, "error", err)
					continue
				}
				resolver.SetProfiles(profiles)
				logger.Info("Reloaded API environments", "path", path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Environments watcher error", "error", err)
			}
		}
	}()
	return nil
}
