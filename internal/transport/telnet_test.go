package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func feedAll(d *telnetDecoder, data []byte) []telnetEvent {
	var out []telnetEvent
	for _, b := range data {
		out = append(out, d.Feed(b)...)
	}
	return out
}

func TestDecodesPlainLine(t *testing.T) {
	d := &telnetDecoder{}
	evs := feedAll(d, []byte("hello\n"))
	if assert.Len(t, evs, 1) {
		assert.Equal(t, evLine, evs[0].kind)
		assert.Equal(t, "hello", evs[0].line)
	}
}

func TestDecodesOptionEnable(t *testing.T) {
	d := &telnetDecoder{}
	evs := feedAll(d, []byte{IAC, WILL, 31})
	if assert.Len(t, evs, 1) {
		assert.Equal(t, evOptionEnabled, evs[0].kind)
		assert.Equal(t, byte(31), evs[0].code)
	}
}

func TestDecodesSubnegotiation(t *testing.T) {
	d := &telnetDecoder{}
	evs := feedAll(d, []byte{IAC, SB, 201, 'h', 'i', IAC, SE})
	if assert.Len(t, evs, 1) {
		assert.Equal(t, evSubneg, evs[0].kind)
		assert.Equal(t, byte(201), evs[0].code)
		assert.Equal(t, []byte("hi"), evs[0].payload)
	}
}

func TestSubnegotiationEscapedIAC(t *testing.T) {
	d := &telnetDecoder{}
	evs := feedAll(d, []byte{IAC, SB, 201, 0xff, 0xff, IAC, SE})
	if assert.Len(t, evs, 1) {
		assert.Equal(t, []byte{0xff}, evs[0].payload)
	}
}

func TestGAFlushesBufferedPromptLine(t *testing.T) {
	d := &telnetDecoder{}
	evs := feedAll(d, []byte{'H', 'P', ':', ' ', '1', '0', '0', IAC, GA})
	if assert.Len(t, evs, 1) {
		assert.Equal(t, evPrompt, evs[0].kind)
		assert.Equal(t, "HP: 100", evs[0].line)
	}
}

func TestGAWithNoBufferedTextEmitsNothing(t *testing.T) {
	d := &telnetDecoder{}
	evs := feedAll(d, []byte("line one\n"))
	assert.Len(t, evs, 1)
	evs = feedAll(d, []byte{IAC, GA})
	assert.Len(t, evs, 0)
}

func TestFlushIdleDrainsBufferedPartialLine(t *testing.T) {
	d := &telnetDecoder{}
	feedAll(d, []byte("prompt> "))
	evs := d.FlushIdle()
	if assert.Len(t, evs, 1) {
		assert.Equal(t, evPrompt, evs[0].kind)
		assert.Equal(t, "prompt> ", evs[0].line)
	}
	assert.Empty(t, d.FlushIdle())
}

func TestEncodeSubnegDoublesIAC(t *testing.T) {
	out := EncodeSubneg(201, []byte{0xff})
	assert.Equal(t, []byte{IAC, SB, 201, 0xff, 0xff, IAC, SE}, out)
}
