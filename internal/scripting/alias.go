package scripting

import (
	"github.com/dop251/goja"

	"github.com/GoMudEngine/blightscript/internal/regexmatch"
)

// alias is one registered alias entry. Aliases behave as triggers on the
// input path but never honor prompt/raw/gag — a real match always marks
// the line matched, suppressing the original command.
type alias struct {
	id      uint32
	core    bool
	pattern string
	fn      goja.Callable
}

type aliasTable struct {
	nextID   uint32
	entries  map[uint32]*alias
	order    []uint32
	patterns *regexmatch.Cache
}

func newAliasTable(cache *regexmatch.Cache) *aliasTable {
	return &aliasTable{nextID: 1, entries: map[uint32]*alias{}, patterns: cache}
}

func (t *aliasTable) Add(coreMode bool, pattern string, fn goja.Callable) uint32 {
	id := t.nextID
	t.nextID++
	t.entries[id] = &alias{id: id, core: coreMode, pattern: pattern, fn: fn}
	t.order = append(t.order, id)
	return id
}

func (t *aliasTable) Remove(id uint32) {
	delete(t.entries, id)
}

func (t *aliasTable) Clear() {
	t.entries = map[uint32]*alias{}
	t.order = nil
}

type aliasMatch struct {
	alias  *alias
	groups []string
}

// Evaluate walks aliases in insertion order against the full input text,
// returning every match in order; unlike triggers there is no count or
// prompt gating and the regex is always matched against the raw text.
func (t *aliasTable) Evaluate(text string) ([]aliasMatch, error) {
	var matches []aliasMatch
	for _, id := range t.order {
		al, ok := t.entries[id]
		if !ok {
			continue
		}
		matched, groups, err := t.patterns.Match(al.pattern, text)
		if err != nil {
			return matches, err
		}
		if !matched {
			continue
		}
		matches = append(matches, aliasMatch{alias: al, groups: groups})
	}
	return matches, nil
}
