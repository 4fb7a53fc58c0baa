package workspace

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Event describes a detected filesystem change to a .claw/.volt file,
// independent of fsnotify's own event type so the server package never
// imports fsnotify directly.
type Event struct {
	Path    string
	Removed bool
}

// Watcher watches a workspace root (recursively, by adding every
// subdirectory found at construction time) and delivers Events for
// .claw/.volt files on Events(). Detection runs on its own goroutine;
// application to the document store happens on the server's single
// request-processing goroutine, which drains Events() non-blockingly
// once per Run() loop iteration.
type Watcher struct {
	fsw    *fsnotify.Watcher
	events chan Event
	done   chan struct{}
}

// NewWatcher constructs a Watcher rooted at root. If the underlying
// fsnotify watcher cannot be created (e.g. inotify instance limits), it
// returns a nil *Watcher and the error; callers treat this the same as
// any other swallowed workspace-scan failure and run without a watcher
// rather than failing initialize.
func NewWatcher(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || !info.IsDir() {
			return nil
		}
		_ = fsw.Add(path)
		return nil
	})

	w := &Watcher{
		fsw:    fsw,
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !IsSourceFile(ev.Name) {
				continue
			}
			removed := ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0
			select {
			case w.events <- Event{Path: ev.Name, Removed: removed}:
			default:
				// Drop the event rather than block detection; the next
				// didOpen/didChange will still see current content.
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Events returns the channel new filesystem events are delivered on.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops the watcher's goroutine and releases its fsnotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
