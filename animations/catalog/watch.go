package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Watch reloads the catalog whenever one of its files changes, debouncing
// bursts of events from editors that save in several steps. Every reload
// attempt reports its result through onReload; pass nil to discard them.
// Watch blocks until ctx is cancelled.
func (r *Resolver) Watch(ctx context.Context, debounce time.Duration, onReload func(error)) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if onReload == nil {
		onReload = func(error) {}
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: watch: %w", err)
	}
	defer watcher.Close()

	// Watch directories, not files: editors that replace on save would drop
	// a file-level watch after the first rename.
	watched := make(map[string]struct{})
	dirs := make(map[string]struct{})
	for _, src := range r.sources {
		path := src.Path()
		if path == "" {
			continue
		}
		cleaned := filepath.Clean(path)
		watched[cleaned] = struct{}{}
		dirs[filepath.Dir(cleaned)] = struct{}{}
	}
	added := 0
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			if _, statErr := os.Stat(dir); errors.Is(statErr, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("catalog: watch %s: %w", dir, err)
		}
		added++
	}
	if added == 0 {
		return errors.New("catalog: watch: no watchable directories")
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if _, ok := watched[filepath.Clean(event.Name)]; !ok {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onReload(fmt.Errorf("catalog: watch: %w", err))
		case <-timer.C:
			onReload(r.Reload())
		}
	}
}
