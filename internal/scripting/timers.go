package scripting

import (
	"container/heap"
	"time"

	"github.com/dop251/goja"
)

// timerEntry is one timed callback: { id, fire_at, repeat_interval?,
// remaining_count?, callback } per the data model. core marks whether it
// was registered while the host was bootstrapping built-in modules.
type timerEntry struct {
	id       uint32
	core     bool
	fn       goja.Callable
	fireAt   time.Time
	interval time.Duration
	remain   int // remaining fire count; <= 0 means "fires forever" is not
	// representable here since timer.add always takes a count; a zero or
	// negative count supplied by a script is clamped to 1 by Timer.Add.
}

// timerHeap orders pending timers by deadline, ties broken by id
// ascending, matching §5's ordering guarantee.
type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].fireAt.Equal(h[j].fireAt) {
		return h[i].id < h[j].id
	}
	return h[i].fireAt.Before(h[j].fireAt)
}
func (h timerHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)        { *h = append(*h, x.(*timerEntry)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// timerTable is the shared id-allocator plus core/user lookup tables for
// timed callbacks, and the deadline-ordered wheel the main loop drives via
// Host.DrainDueTimers. A single counter is shared between core and user
// registrations so ids stay globally unique, per §9.
type timerTable struct {
	nextID uint32 // starts at 1, mirrors the donor's TIMED_NEXT_ID
	core   map[uint32]*timerEntry
	user   map[uint32]*timerEntry
	wheel  timerHeap
	now    func() time.Time
}

func newTimerTable() *timerTable {
	return &timerTable{
		nextID: 1,
		core:   map[uint32]*timerEntry{},
		user:   map[uint32]*timerEntry{},
		now:    time.Now,
	}
}

// Add registers a new timed callback, delayMs from now, firing count times
// (clamped to at least 1) and returns its id.
func (t *timerTable) Add(coreMode bool, delayMs int64, count int, fn goja.Callable) uint32 {
	if count < 1 {
		count = 1
	}
	id := t.nextID
	t.nextID++

	delay := time.Duration(delayMs) * time.Millisecond
	e := &timerEntry{
		id:       id,
		core:     coreMode,
		fn:       fn,
		fireAt:   t.now().Add(delay),
		interval: delay,
		remain:   count,
	}
	if coreMode {
		t.core[id] = e
	} else {
		t.user[id] = e
	}
	heap.Push(&t.wheel, e)
	return id
}

// Lookup returns the callback for id, checking the core table first, then
// the user table, matching run_timed_function's lookup order. An entry
// whose fire count Due has used up is unregistered as it is handed out.
func (t *timerTable) Lookup(id uint32) (goja.Callable, bool) {
	if e, ok := t.core[id]; ok {
		if e.remain <= 0 {
			delete(t.core, id)
		}
		return e.fn, true
	}
	if e, ok := t.user[id]; ok {
		if e.remain <= 0 {
			delete(t.user, id)
		}
		return e.fn, true
	}
	return nil, false
}

// Remove clears both the core and user entry for id; cannot fail.
func (t *timerTable) Remove(id uint32) {
	delete(t.core, id)
	delete(t.user, id)
	// Entries still on the wheel are skipped by Due when it pops them and
	// finds them no longer present in core/user; we don't scan the heap here.
}

// Due pops and returns every entry whose deadline has passed as of now,
// in deadline order (ties by id), rescheduling repeats that still have
// remaining fire count and are still registered (i.e. were not removed
// in the meantime). An entry on its last firing stays registered so that
// RunTimedFunction can still find it; Lookup unregisters it then.
func (t *timerTable) Due(now time.Time) []*timerEntry {
	var due []*timerEntry
	for len(t.wheel) > 0 && !t.wheel[0].fireAt.After(now) {
		e := heap.Pop(&t.wheel).(*timerEntry)

		var table map[uint32]*timerEntry
		if e.core {
			table = t.core
		} else {
			table = t.user
		}
		if _, stillRegistered := table[e.id]; !stillRegistered {
			continue
		}

		due = append(due, e)

		e.remain--
		if e.remain > 0 {
			e.fireAt = now.Add(e.interval)
			heap.Push(&t.wheel, e)
		}
	}
	return due
}
