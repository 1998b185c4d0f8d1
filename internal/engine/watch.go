package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for a burst of events to settle.
const DefaultDebounce = 100 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Run RunOptions
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// OnReport is called after every batch of changed files is formatted.
	OnReport func(*Report)
}

// Watch formats every .nix file that is written or created under paths
// until ctx is cancelled. Events are debounced so that an editor saving a
// file in several steps triggers a single pass. Writes made by Watch itself
// are not reformatted again.
func (e *Engine) Watch(ctx context.Context, paths []string, opts WatchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, root := range paths {
		if err := e.watchDir(watcher, root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var (
		mu      sync.Mutex
		pending = map[string]struct{}{}
		timer   *time.Timer
		wg      sync.WaitGroup
	)
	defer wg.Wait()

	flush := func() {
		defer wg.Done()
		mu.Lock()
		files := make([]string, 0, len(pending))
		for path := range pending {
			files = append(files, path)
		}
		pending = map[string]struct{}{}
		mu.Unlock()

		if len(files) == 0 || ctx.Err() != nil {
			return
		}
		slices.Sort(files)
		e.logger.Info("change detected", "files", files)

		report, err := e.FormatFiles(ctx, files, opts.Run)
		if err != nil {
			return
		}
		if opts.OnReport != nil {
			opts.OnReport(report)
		}
	}

	e.logger.Info("watching for changes", "paths", paths)
	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			if timer != nil && timer.Stop() {
				wg.Done()
			}
			mu.Unlock()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := e.watchDir(watcher, event.Name); err != nil {
						e.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			if filepath.Ext(event.Name) != Extension || e.excluded(event.Name, filepath.Base(event.Name)) {
				continue
			}
			if e.upToDate(event.Name) {
				continue
			}

			mu.Lock()
			pending[event.Name] = struct{}{}
			if timer != nil && timer.Stop() {
				wg.Done()
			}
			wg.Add(1)
			timer = time.AfterFunc(debounce, flush)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("watcher error", "error", err)
		}
	}
}

// watchDir adds root and every directory under it that Discover would
// descend into.
func (e *Engine) watchDir(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if path == root {
				return watcher.Add(path)
			}
			return nil
		}
		if path != root && (isHidden(d.Name()) || e.excluded(path, d.Name())) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// upToDate reports whether the file is already formatted, which is the case
// right after Watch rewrote it. Unreadable files are handed to the
// formatter so the failure gets reported.
func (e *Engine) upToDate(path string) bool {
	src, err := os.ReadFile(path) //nolint:gosec // path comes from the watcher
	if err != nil {
		return false
	}
	out, err := e.formatSource(string(src), false)
	return err == nil && out == string(src)
}
