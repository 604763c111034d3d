// Package ansiscan adapts a stream of characters through a small VT/ANSI
// state machine and yields only the characters classified as printable:
// escape sequences, CSI parameters and OSC payloads are suppressed. It is
// required by the mask algorithm (cursor-position math on unescaped text)
// and by any width-sensitive logic.
//
// This is a hand-rolled scanner rather than a wrapper around a pack
// dependency: none of the pack's terminal libraries expose an
// index-preserving "give me only Print events" primitive (they strip or
// they render, but don't hand back (byteOffset, rune) pairs against the
// original string) — see DESIGN.md. The simpler, offset-discarding case
// (producing the escape-free text that non-raw triggers match against)
// does use a pack library: Strip below is github.com/charmbracelet/x/ansi's
// own Strip.
package ansiscan

import (
	"iter"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// scanState tracks where in an escape sequence the byte-level scanner is,
// mirroring the handful of states a vte::Parser distinguishes that matter
// for classifying bytes as "Print" vs. "everything else".
type scanState int

const (
	stateGround scanState = iota
	stateEscape
	stateCSI
	stateOSC
	stateOSCEscape
)

// Strip removes ANSI/VT escape sequences from s, returning only the
// printable text. Used wherever only the final string matters, not
// per-rune offsets (e.g. non-raw trigger matching against a
// display-equivalent string).
func Strip(s string) string {
	return ansi.Strip(s)
}

// PrintableRunes returns a lazy iterator over the printable runes of s, in
// order, with every escape sequence removed.
func PrintableRunes(s string) iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for _, pc := range scan(s) {
			if !yield(pc.r) {
				return
			}
		}
	}
}

// PrintableRuneIndices returns a lazy iterator over (byteOffset, rune)
// pairs for the printable runes of s, where byteOffset is the rune's
// starting position in the *original* (unescaped-included) string s. This
// supports cursor-position math against the raw buffer, which is what the
// prompt mask algorithm needs.
func PrintableRuneIndices(s string) iter.Seq2[int, rune] {
	return func(yield func(int, rune) bool) {
		for _, pc := range scan(s) {
			if !yield(pc.offset, pc.r) {
				return
			}
		}
	}
}

// DisplayWidth returns the terminal column width of s's printable
// characters (escapes stripped, wide CJK/fullwidth runes counted as 2
// columns), for prompt/cursor math against a negotiated terminal width
// rather than a naive rune or byte count.
func DisplayWidth(s string) int {
	width := 0
	for _, pc := range scan(s) {
		width += runewidth.RuneWidth(pc.r)
	}
	return width
}

type printableChar struct {
	offset int
	r      rune
}

// scan runs the state machine once and collects every printable char. It
// is not itself lazy (unlike the two exported iterators above, which are)
// because the state machine must look ahead across the whole escape
// sequence before it can classify any one byte as printable; buffering
// the (small, already-bounded) result list is simpler than threading a
// resumable scanner through two different iterator shapes.
func scan(s string) []printableChar {
	var out []printableChar
	state := stateGround

	runes := []rune(s)
	offsets := make([]int, len(runes))
	pos := 0
	for i, r := range runes {
		offsets[i] = pos
		pos += len(string(r))
	}

	for i, r := range runes {
		switch state {
		case stateGround:
			switch {
			case r == 0x1b:
				state = stateEscape
			case r < 0x20 || r == 0x7f:
				// C0 control code: not printable, no state change.
			default:
				out = append(out, printableChar{offset: offsets[i], r: r})
			}
		case stateEscape:
			switch r {
			case '[':
				state = stateCSI
			case ']':
				state = stateOSC
			default:
				// Two-byte escape (e.g. ESC c) or unknown: return to ground.
				state = stateGround
			}
		case stateCSI:
			// CSI parameter/intermediate bytes are 0x20-0x3f; the final
			// byte of a CSI sequence is 0x40-0x7e.
			if r >= 0x40 && r <= 0x7e {
				state = stateGround
			}
		case stateOSC:
			switch r {
			case 0x07: // BEL terminates an OSC sequence.
				state = stateGround
			case 0x1b:
				state = stateOSCEscape
			}
		case stateOSCEscape:
			if r == '\\' {
				state = stateGround // ESC \ (ST) terminates an OSC sequence.
			} else {
				state = stateOSC
			}
		}
	}

	return out
}
