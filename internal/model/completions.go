package model

import "sort"

// Completions is the result of a tab_complete walk: a sorted, deduplicated
// list of candidate strings plus a lock flag. Locked suppresses the
// renderer's default filename/history completers once any user completer
// returned data.
type Completions struct {
	Entries []string
	Locked  bool
}

// CompletionsFrom builds a sorted, deduplicated Completions from a raw list.
func CompletionsFrom(entries []string) Completions {
	c := Completions{}
	c.AddAll(entries)
	return c
}

// AddAll merges more candidate strings into the result, re-sorting and
// deduplicating.
func (c *Completions) AddAll(entries []string) {
	seen := make(map[string]struct{}, len(c.Entries)+len(entries))
	merged := make([]string, 0, len(c.Entries)+len(entries))
	for _, e := range c.Entries {
		if _, ok := seen[e]; !ok {
			seen[e] = struct{}{}
			merged = append(merged, e)
		}
	}
	for _, e := range entries {
		if _, ok := seen[e]; !ok {
			seen[e] = struct{}{}
			merged = append(merged, e)
		}
	}
	sort.Strings(merged)
	c.Entries = merged
}

// Lock sets the lock flag; last write wins across a tab_complete walk.
func (c *Completions) Lock(v bool) {
	c.Locked = v
}
