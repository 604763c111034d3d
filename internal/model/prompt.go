package model

import (
	"sort"
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
)

// Prompt is the current prompt buffer and cursor position, the server-sent
// line not terminated by a newline, held live at the bottom of the view.
type Prompt struct {
	Content      string
	CursorOffset uint32
}

// PromptMask is an ordered overlay of script-provided insertions keyed by
// 1-based character offset within the *original* prompt content. It lets
// scripts annotate portions of the live prompt without modifying the
// server's text.
type PromptMask struct {
	entries map[int]string
}

// NewPromptMask returns an empty mask.
func NewPromptMask() PromptMask {
	return PromptMask{entries: map[int]string{}}
}

// PromptMaskFromMap builds a mask from a plain offset->text map, primarily
// for tests and for reconstructing a mask handed across the script bridge.
func PromptMaskFromMap(m map[int]string) PromptMask {
	cp := make(map[int]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return PromptMask{entries: cp}
}

// Clear removes every entry from the mask.
func (m *PromptMask) Clear() {
	m.entries = map[int]string{}
}

// Entries returns the mask's (offset, value) pairs in ascending offset order.
func (m PromptMask) Entries() []MaskEntry {
	keys := make([]int, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]MaskEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, MaskEntry{Offset: k, Value: m.entries[k]})
	}
	return out
}

// MaskEntry is one (offset, inserted-text) pair of a PromptMask.
type MaskEntry struct {
	Offset int
	Value  string
}

// MaskBuffer applies the mask to buf, a rune slice of the current prompt
// content, and returns the masked string.
//
// Algorithm (matches the donor's prompt_mask.rs::mask_buffer verbatim):
// iterate entries in ascending offset order, maintaining a running
// `offset` accumulator starting at 0. For each (idx, value): insert
// value's runes at position `offset + (idx - 1)` of buf, then
// `offset += len(value)`. The 1-based indexing and the use of the
// *original* prompt's offsets (not the growing masked buffer's) are part
// of the external contract and are preserved even though later entries
// therefore shift by the cumulative inserted length.
func (m PromptMask) MaskBuffer(buf []rune) string {
	masked := make([]rune, len(buf))
	copy(masked, buf)

	offset := 0
	for _, e := range m.Entries() {
		adjusted := offset + (e.Offset - 1)
		adjusted = snapToGraphemeBoundary(masked, adjusted)
		ins := []rune(e.Value)

		if adjusted < 0 {
			adjusted = 0
		}
		if adjusted > len(masked) {
			adjusted = len(masked)
		}

		next := make([]rune, 0, len(masked)+len(ins))
		next = append(next, masked[:adjusted]...)
		next = append(next, ins...)
		next = append(next, masked[adjusted:]...)
		masked = next

		offset += len(ins)
	}

	return string(masked)
}

// snapToGraphemeBoundary nudges idx forward, if necessary, so an insertion
// never splits a grapheme cluster (e.g. a base rune plus combining marks,
// or a flag/ZWJ emoji sequence) in half. It can only move idx later within
// the same rune run; it never changes which mask entries apply or their
// relative order, so the documented offset contract above is unaffected.
func snapToGraphemeBoundary(buf []rune, idx int) int {
	if idx <= 0 || idx >= len(buf) {
		return idx
	}
	s := string(buf)
	// Map the rune index back to a byte offset, then ask the grapheme
	// segmenter for the boundary at-or-after it.
	byteOffset := 0
	for i, r := range buf {
		if i == idx {
			break
		}
		byteOffset += len(string(r))
	}

	seg := graphemes.FromString(s)
	pos := 0
	for seg.Next() {
		start := pos
		end := pos + len(seg.Value())
		if byteOffset > start && byteOffset < end {
			// idx lands mid-cluster; snap to the cluster's end.
			return byteRuneIndex(s, end)
		}
		if byteOffset <= end {
			return idx
		}
		pos = end
	}
	return idx
}

func byteRuneIndex(s string, byteOffset int) int {
	count := 0
	for i := range s {
		if i >= byteOffset {
			return count
		}
		count++
	}
	return count
}

// Set validates that data matches the live prompt content before applying
// mask as the new overlay — a TOCTOU guard against a script computing a
// mask against stale prompt text while an async update raced it. Returns
// false (and applies nothing) on mismatch.
func Set(current string, data string, mask map[int]string) (PromptMask, bool) {
	if data != current {
		return PromptMask{}, false
	}
	return PromptMaskFromMap(mask), true
}

// Strip removes trailing spaces and tabs, the ordinary whitespace padding
// used by some prompt generators, without touching the mask semantics
// above.
func Strip(s string) string {
	return strings.TrimRight(s, " \t")
}
