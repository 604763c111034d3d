package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskBufferInsertsInAscendingOrder(t *testing.T) {
	mask := PromptMaskFromMap(map[int]string{3: "xx", 5: "yy"})
	result := mask.MaskBuffer([]rune("ABCDE"))
	assert.Equal(t, "ABxxCDyyE", result)
}

func TestMaskBufferEmptyMask(t *testing.T) {
	mask := NewPromptMask()
	assert.Equal(t, "ABCDE", mask.MaskBuffer([]rune("ABCDE")))
}

func TestSetSucceedsOnMatchingContent(t *testing.T) {
	m, ok := Set("ABCDE", "ABCDE", map[int]string{1: "hi"})
	assert.True(t, ok)
	assert.Equal(t, "hi", m.Entries()[0].Value)
}

func TestSetFailsOnStaleContent(t *testing.T) {
	_, ok := Set("ABCDE", "stale", map[int]string{1: "hi"})
	assert.False(t, ok)
}

func TestEntriesAreAscendingByOffset(t *testing.T) {
	mask := PromptMaskFromMap(map[int]string{20: "bye", 10: "hi"})
	entries := mask.Entries()
	assert.Equal(t, 10, entries[0].Offset)
	assert.Equal(t, "hi", entries[0].Value)
	assert.Equal(t, 20, entries[1].Offset)
	assert.Equal(t, "bye", entries[1].Value)
}
