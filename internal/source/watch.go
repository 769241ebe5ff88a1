package source

import (
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/henri123lemoine/foldtree/internal/debug"
)

// ErrClosed is returned by Next once the watcher is closed.
var ErrClosed = errors.New("watcher closed")

// DefaultSettle is how long a burst of events must be quiet before Next
// returns.
const DefaultSettle = 150 * time.Millisecond

// Watcher reports changes anywhere under a root directory.
type Watcher struct {
	root   string
	opts   Options
	settle time.Duration
	w      *fsnotify.Watcher
}

// NewWatcher watches root and every directory below it that Walk would
// descend into.
func NewWatcher(root string, opts Options) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &Watcher{root: root, opts: opts, settle: DefaultSettle, w: w}
	if err := watcher.addTree(root); err != nil {
		_ = w.Close()
		return nil, err
	}
	return watcher, nil
}

// SetSettle changes the quiet period used to coalesce bursts.
func (w *Watcher) SetSettle(d time.Duration) {
	w.settle = d
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && skip(d.Name(), w.opts) {
			return filepath.SkipDir
		}
		if err := w.w.Add(p); err != nil {
			debug.Warn(err, "watch %s", p)
		}
		return nil
	})
}

// Next blocks until something changes under the root, waits for the burst
// to settle, and returns the changed paths relative to the root. New
// directories are watched as they appear. Events for skipped names and
// bare chmods are ignored.
func (w *Watcher) Next() ([]string, error) {
	var changed []string
	seen := make(map[string]bool)

	record := func(ev fsnotify.Event) {
		if ev.Op == fsnotify.Chmod || skip(filepath.Base(ev.Name), w.opts) {
			return
		}
		if ev.Has(fsnotify.Create) {
			_ = w.addTree(ev.Name)
		}
		rel, err := filepath.Rel(w.root, ev.Name)
		if err != nil {
			rel = ev.Name
		}
		rel = filepath.ToSlash(rel)
		if !seen[rel] {
			seen[rel] = true
			changed = append(changed, rel)
		}
	}

	errs := w.w.Errors
	for len(changed) == 0 {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil, ErrClosed
			}
			record(ev)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			debug.Warn(err, "watcher error")
		}
	}

	// Drain until quiet.
	timer := time.NewTimer(w.settle)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return changed, nil
			}
			record(ev)
			timer.Reset(w.settle)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			debug.Warn(err, "watcher error")
		case <-timer.C:
			return changed, nil
		}
	}
}

// Close stops the watcher. A blocked Next returns ErrClosed.
func (w *Watcher) Close() error {
	return w.w.Close()
}
