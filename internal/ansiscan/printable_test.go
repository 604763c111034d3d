package ansiscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collectRunes(s string) []rune {
	var out []rune
	for r := range PrintableRunes(s) {
		out = append(out, r)
	}
	return out
}

func TestPrintableRunesStripsCSI(t *testing.T) {
	in := "\x1b[31mtest\x1b[0m"
	assert.Equal(t, []rune("test"), collectRunes(in))
}

func TestPrintableRunesStripsOSC(t *testing.T) {
	in := "\x1b]0;title\x07hello"
	assert.Equal(t, []rune("hello"), collectRunes(in))
}

func TestPrintableRunesPlainText(t *testing.T) {
	assert.Equal(t, []rune("hello world"), collectRunes("hello world"))
}

func TestPrintableRuneIndicesOffsetsAreIntoOriginal(t *testing.T) {
	in := "\x1b[31mab\x1b[0mcd"
	var offsets []int
	var runes []rune
	for off, r := range PrintableRuneIndices(in) {
		offsets = append(offsets, off)
		runes = append(runes, r)
	}
	assert.Equal(t, []rune("abcd"), runes)
	// 'a' starts right after the 5-byte CSI prefix "\x1b[31m".
	assert.Equal(t, 5, offsets[0])
	assert.Equal(t, 6, offsets[1])
}

func TestStripMatchesPrintableRunes(t *testing.T) {
	in := "\x1b[31mtest\x1b[0m"
	assert.Equal(t, "test", Strip(in))
}
