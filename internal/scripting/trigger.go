package scripting

import (
	"github.com/dop251/goja"

	"github.com/GoMudEngine/blightscript/internal/regexmatch"
)

// triggerOpts mirrors the trigger.add opts table: {gag?, count?, prompt?, raw?, enabled?}.
type triggerOpts struct {
	Gag     bool
	Count   int // 0 means "no count limit"
	Prompt  *bool
	Raw     bool
	Enabled bool
}

// trigger is one registered trigger entry, addressable by id.
type trigger struct {
	id      uint32
	core    bool
	pattern string
	opts    triggerOpts
	fn      goja.Callable
}

// triggerTable holds every live trigger, keyed by id, plus the shared id
// allocator. Unlike listenerList there is a single flat table (not split
// core/user) because triggers are individually removable by id regardless
// of which mode registered them, matching the donor's trigger.remove(id).
type triggerTable struct {
	nextID   uint32
	entries  map[uint32]*trigger
	order    []uint32 // insertion order, for deterministic evaluation
	patterns *regexmatch.Cache
}

func newTriggerTable(cache *regexmatch.Cache) *triggerTable {
	return &triggerTable{nextID: 1, entries: map[uint32]*trigger{}, patterns: cache}
}

func (t *triggerTable) Add(coreMode bool, pattern string, opts triggerOpts, fn goja.Callable) uint32 {
	id := t.nextID
	t.nextID++
	t.entries[id] = &trigger{id: id, core: coreMode, pattern: pattern, opts: opts, fn: fn}
	t.order = append(t.order, id)
	return id
}

func (t *triggerTable) Remove(id uint32) {
	delete(t.entries, id)
}

func (t *triggerTable) Clear() {
	t.entries = map[uint32]*trigger{}
	t.order = nil
}

// triggerMatch is the outcome of evaluating one trigger against a line.
type triggerMatch struct {
	trigger *trigger
	groups  []string
}

// Evaluate walks triggers in insertion order, matching each enabled,
// prompt-gated trigger's regex against either the raw or stripped text
// per its raw flag, decrementing count and auto-removing exhausted
// triggers. It returns every match found, in evaluation order, so the
// caller can run callbacks and apply gag/matched effects.
func (t *triggerTable) Evaluate(rawText, strippedText string, isPrompt bool) ([]triggerMatch, error) {
	var matches []triggerMatch
	for _, id := range t.order {
		tr, ok := t.entries[id]
		if !ok {
			continue
		}
		if !tr.opts.Enabled {
			continue
		}
		if tr.opts.Prompt != nil && *tr.opts.Prompt != isPrompt {
			continue
		}

		text := strippedText
		if tr.opts.Raw {
			text = rawText
		}

		matched, groups, err := t.patterns.Match(tr.pattern, text)
		if err != nil {
			return matches, err
		}
		if !matched {
			continue
		}

		matches = append(matches, triggerMatch{trigger: tr, groups: groups})

		if tr.opts.Count > 0 {
			tr.opts.Count--
			if tr.opts.Count == 0 {
				delete(t.entries, id)
			}
		}
	}
	return matches, nil
}
