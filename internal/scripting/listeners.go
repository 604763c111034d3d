package scripting

import "github.com/dop251/goja"

// listenerList is a core table and a user table of callables for one event
// kind. Core entries (installed while the host is bootstrapping its
// built-in script modules) always run before user entries; within each,
// insertion order is traversal order. Neither table supports removal —
// matching the donor engine, where only trigger/alias/timer registrations
// expose a remove-by-id API; plain listener tables are append-only for
// the lifetime of one interpreter instance.
type listenerList struct {
	core []goja.Callable
	user []goja.Callable
}

// Add appends fn to the core table if coreMode is true, else the user table.
func (l *listenerList) Add(coreMode bool, fn goja.Callable) {
	if coreMode {
		l.core = append(l.core, fn)
	} else {
		l.user = append(l.user, fn)
	}
}

// Each calls visit for every listener, core table first, in insertion
// order within each table. Iteration stops early if visit returns false.
func (l *listenerList) Each(visit func(goja.Callable) bool) {
	for _, fn := range l.core {
		if !visit(fn) {
			return
		}
	}
	for _, fn := range l.user {
		if !visit(fn) {
			return
		}
	}
}
