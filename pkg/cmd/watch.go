package cmd

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// debounceDelay batches bursts of file events into a single pass.
const debounceDelay = 100 * time.Millisecond

// watch runs one generation pass, then keeps regenerating whenever the
// migrations tree or the overrides file changes, until ctx is cancelled.
func watch(ctx context.Context, w io.Writer, opts generateOpts) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer func() { _ = watcher.Close() }()

	if err := watchTree(watcher, opts.migrations); err != nil {
		return err
	}

	if opts.overrides != "" {
		if err := watcher.Add(opts.overrides); err != nil {
			return errors.Wrapf(err, "failed to watch overrides file: %s", opts.overrides)
		}
	}

	// Initial pass. Failures do not end the watch, the next change gets
	// another attempt.
	if err := runGenerate(w, opts); err != nil {
		slog.Error("generate failed", "err", err)
	}

	slog.Info("watching for changes", "dir", opts.migrations)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// New directories join the watch so migrations added in
			// nested folders keep triggering passes.
			isDir := false
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					isDir = true
					if err := watchTree(watcher, event.Name); err != nil {
						slog.Warn("failed to watch new directory", "dir", event.Name, "err", err)
					}
				}
			}

			if !isDir && !relevantEvent(event) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				slog.Info("change detected, regenerating", "file", filepath.Base(event.Name))
				if err := runGenerate(w, opts); err != nil {
					slog.Error("generate failed", "err", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "err", err)
		}
	}
}

// relevantEvent reports whether an event can affect the generated
// diagram: a content change to a migration file or an overrides file.
func relevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	switch filepath.Ext(event.Name) {
	case ".sql", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// watchTree registers root and every directory below it.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})

	return errors.Wrapf(err, "failed to watch migrations dir: %s", root)
}
