package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-pkgz/fileutils"
	"github.com/hashicorp/go-multierror"
)

// Watcher calls OnChange when documents in any of Dirs, their subdirectories, or StopWords file change.
// Changes are debounced, OnChange runs once Delay has passed after the first change.
type Watcher struct {
	Dirs      []string
	StopWords string // optional file
	Delay     time.Duration
	OnChange  func(ctx context.Context) error

	watched map[string]bool // directories added to fsnotify, only accessed by Run's goroutine
}

// Run watches until the context is canceled
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	w.watched = map[string]bool{}
	errs := new(multierror.Error)
	for _, dir := range w.Dirs {
		if err := w.addDir(watcher, dir); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if w.StopWords != "" {
		if err := watcher.Add(w.StopWords); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to watch %q: %w", w.StopWords, err))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("failed to add some paths to watcher: %w", err)
	}

	reloadTimer := time.NewTimer(w.Delay)
	defer reloadTimer.Stop()
	reloadPending := false

	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] stopping corpus watcher: %v", ctx.Err())
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			dirChanged := w.handleDirEvent(watcher, event)
			if !dirChanged && !w.relevant(event) {
				continue
			}
			log.Printf("[DEBUG] corpus file %q changed, op: %v", event.Name, event.Op)
			if !reloadPending {
				reloadPending = true
				reloadTimer.Reset(w.Delay)
			}
		case <-reloadTimer.C:
			if !reloadPending {
				continue
			}
			reloadPending = false
			if err := w.OnChange(ctx); err != nil {
				log.Printf("[WARN] failed to handle corpus change: %v", err)
			}
		case e, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] watcher error: %v", e)
		}
	}
}

// relevant reports if the event may change training documents
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if w.StopWords != "" && filepath.Clean(event.Name) == filepath.Clean(w.StopWords) {
		return true
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".txt")
}

// handleDirEvent follows directory changes: created directories are watched with all their subdirectories,
// removed or renamed watched directories are forgotten. Reports if documents may have changed.
func (w *Watcher) handleDirEvent(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	name := filepath.Clean(event.Name)
	switch {
	case event.Has(fsnotify.Create):
		if !fileutils.IsDir(name) {
			return false
		}
		if err := w.addTree(watcher, name); err != nil {
			log.Printf("[WARN] %v", err)
		}
		return true
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if !w.watched[name] {
			return false
		}
		for d := range w.watched {
			if d == name || strings.HasPrefix(d, name+string(filepath.Separator)) {
				_ = watcher.Remove(d) // already gone for removed directories
				delete(w.watched, d)
			}
		}
		return true
	}
	return false
}

func (w *Watcher) addDir(watcher *fsnotify.Watcher, dir string) error {
	if _, err := Files(dir); err != nil {
		return err
	}
	return w.addTree(watcher, dir)
}

// addTree watches the directory and all its subdirectories, fsnotify watches are not recursive
func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk %q: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		path = filepath.Clean(path)
		if w.watched[path] {
			return nil
		}
		log.Printf("[DEBUG] add directory %q to watcher", path)
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %q: %w", path, err)
		}
		w.watched[path] = true
		return nil
	})
}
