// Package fswatch is a background worker (§4.6's pattern, second
// instance) that watches a directory for script file changes and
// reports them onto the event bus as FSChange events, letting the
// scripting host's handle_fs_event operation react (e.g. reload on save).
package fswatch

import (
	"github.com/fsnotify/fsnotify"

	"github.com/GoMudEngine/blightscript/internal/events"
	"github.com/GoMudEngine/blightscript/internal/mudlog"
)

// Watcher wraps an fsnotify.Watcher, translating its events onto the bus.
type Watcher struct {
	inner *fsnotify.Watcher
	done  chan struct{}
}

// Watch starts watching dir (non-recursively, mirroring fsnotify's own
// non-recursive contract) and begins forwarding events onto bus on a new
// goroutine. All background workers communicate exclusively through the
// event bus, per §5.
func Watch(dir string, bus chan<- events.Event) (*Watcher, error) {
	inner, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := inner.Add(dir); err != nil {
		_ = inner.Close()
		return nil, err
	}

	w := &Watcher{inner: inner, done: make(chan struct{})}
	go w.run(bus)
	return w, nil
}

func (w *Watcher) run(bus chan<- events.Event) {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.inner.Events:
			if !ok {
				return
			}
			bus <- events.FSChange(ev.Name, opName(ev.Op))
		case err, ok := <-w.inner.Errors:
			if !ok {
				return
			}
			if err != nil {
				mudlog.Error("fswatch error", "err", err)
				bus <- events.Info("filesystem watch error: " + err.Error())
			}
		}
	}
}

func opName(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}

// Close stops watching and releases the underlying OS resources.
func (w *Watcher) Close() error {
	return w.inner.Close()
}
