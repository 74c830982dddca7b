package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vsu-automation/pwrun/packages/output"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var watchedExtensions = map[string]bool{
	".ts":   true,
	".tsx":  true,
	".js":   true,
	".mjs":  true,
	".cjs":  true,
	".json": true,
}

// isWatchedChange reports whether event should trigger a re-run
func isWatchedChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return watchedExtensions[strings.ToLower(filepath.Ext(event.Name))]
}

// addWatchDirs watches root and every directory below it. A file root
// watches its parent directory.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

// watchAndRerun calls rerun after changes under testPath settle, until ctx
// is cancelled.
func watchAndRerun(ctx context.Context, testPath string, logger *output.Logger, rerun func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, testPath); err != nil {
		return err
	}

	logger.Infof("Watching %s for changes... (press Ctrl+C to stop)", testPath)

	var (
		timer    *time.Timer
		debounce <-chan time.Time
		changed  string
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addWatchDirs(watcher, event.Name)
				}
			}
			if !isWatchedChange(event) {
				continue
			}
			changed = event.Name
			if timer == nil {
				timer = time.NewTimer(WatchDebounceDelay)
			} else {
				timer.Reset(WatchDebounceDelay)
			}
			debounce = timer.C

		case <-debounce:
			debounce = nil
			logger.Infof("File changed: %s", changed)
			logger.Infof("Re-running tests...")
			rerun()
			logger.Infof("Watching %s for changes... (press Ctrl+C to stop)", testPath)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("watcher error: %v", err)
		}
	}
}
