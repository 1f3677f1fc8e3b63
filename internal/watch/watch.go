// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

// Package watch implements the file watching shared by the file-backed
// configuration providers.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// File watches the file at path until ctx is done, invoking onUpdate after
// the file is created or written and onRemove after it is removed.
//
//nolint:cyclop
func File(ctx context.Context, logger *slog.Logger, path string, onUpdate, onRemove func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher for %s: %w", path, err)
	}
	defer func() {
		if e := watcher.Close(); e != nil {
			logger.LogAttrs(
				ctx, slog.LevelWarn,
				"Error when closing file watcher.",
				slog.String("file", path),
				slog.Any("error", e),
			)
		}
	}()

	// Although only a single file is being watched, fsnotify has to watch
	// the whole parent directory to pick up all events such as symlink changes.
	dir, _ := filepath.Split(path)
	if e := watcher.Add(dir); e != nil {
		return fmt.Errorf("watch dir %s: %w", dir, e)
	}

	// Resolve symlinks and save the original path so that changes to symlinks
	// can be detected.
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("eval symlink: %w", err)
	}
	realPath = filepath.Clean(realPath)

	var (
		lastEvent     string
		lastEventTime time.Time
	)
	for {
		select {
		case event := <-watcher.Events:
			// Use a simple timer to buffer events as certain events fire
			// multiple times on some platforms.
			if event.String() == lastEvent && time.Since(lastEventTime) < 5*time.Millisecond {
				continue
			}
			lastEvent = event.String()
			lastEventTime = time.Now()

			// Since the event is triggered on a directory, is this
			// one on the file being watched?
			evFile := filepath.Clean(event.Name)
			if evFile != realPath && evFile != path {
				continue
			}

			switch {
			case event.Has(fsnotify.Remove):
				logger.LogAttrs(
					ctx, slog.LevelWarn,
					"Config file has been removed.",
					slog.String("file", path),
				)
				onRemove()
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
				onUpdate()
			}

		case err := <-watcher.Errors:
			logger.LogAttrs(
				ctx, slog.LevelWarn,
				"Error when watching file.",
				slog.String("file", path),
				slog.Any("error", err),
			)

		case <-ctx.Done():
			return nil
		}
	}
}
