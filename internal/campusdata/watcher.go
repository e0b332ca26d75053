package campusdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/uninav/campusnav/internal/graph"
)

// reloadDebounce batches editor write bursts into a single reload.
const reloadDebounce = 2 * time.Second

// WatchDocument monitors a campus document for changes and swaps the
// live graph on every successful reload. Invalid documents are reported
// and skipped, keeping the last good graph in place. Blocks until the
// context is cancelled.
func WatchDocument(ctx context.Context, path string, target *graph.CampusGraph, onReload func(*graph.CampusGraph)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directory: editors commonly replace the file by
	// rename, which drops a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("setting up watcher: %w", err)
	}

	pending := false
	debounce := time.NewTimer(reloadDebounce)
	debounce.Stop()

	fmt.Printf("Watching %s for changes (Ctrl+C to stop)\n", absPath)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !sameFile(event.Name, absPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			pending = true
			debounce.Reset(reloadDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			if err := reloadDocument(absPath, target, onReload); err != nil {
				fmt.Fprintf(os.Stderr, "Reload error: %v\n", err)
			}
		}
	}
}

// reloadDocument loads the document and swaps the live graph only when
// the whole document parses cleanly.
func reloadDocument(path string, target *graph.CampusGraph, onReload func(*graph.CampusGraph)) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("campus document %s removed, keeping previous graph", path)
	}

	g, err := graph.Load(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	target.Replace(g)
	fmt.Printf("Reloaded %s: %d nodes, %d edges\n", path, target.NodeCount(), target.DirectedEdgeCount())

	if onReload != nil {
		onReload(target)
	}
	return nil
}

func sameFile(eventPath, watched string) bool {
	abs, err := filepath.Abs(eventPath)
	if err != nil {
		return false
	}
	return abs == watched
}
