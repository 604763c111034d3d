package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMudEngine/blightscript/internal/events"
)

func newPipeSession(t *testing.T) (*Session, net.Conn, chan events.Event) {
	t.Helper()
	local, remote := net.Pipe()
	bus := make(chan events.Event, 16)
	s := &Session{conn: local, bus: bus, outbox: make(chan []byte, 64), done: make(chan struct{})}
	return s, remote, bus
}

func TestSessionRunDecodesServerLine(t *testing.T) {
	s, remote, bus := newPipeSession(t)
	go s.Run(1)

	go func() { _, _ = remote.Write([]byte("hello world\r\n")) }()

	select {
	case ev := <-bus:
		require.Equal(t, events.KindServerInput, ev.Kind)
		assert.Equal(t, "hello world", ev.Line.Content)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for ServerInput event")
	}

	_ = s.Close()
}

func TestSessionSendAppendsLineTerminator(t *testing.T) {
	s, remote, _ := newPipeSession(t)
	go s.writeLoop()

	s.Send("look")

	buf := make([]byte, 6)
	remote.SetReadDeadline(time.Now().Add(time.Second))
	n, err := remote.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "look\r\n", string(buf[:n]))

	close(s.done)
}

func TestSessionRunFlushesPromptOnGA(t *testing.T) {
	s, remote, bus := newPipeSession(t)
	go s.Run(2)

	go func() { _, _ = remote.Write([]byte{'H', 'P', ':', ' ', '1', '0', '0', IAC, GA}) }()

	select {
	case ev := <-bus:
		require.Equal(t, events.KindServerInput, ev.Kind)
		assert.Equal(t, "HP: 100", ev.Line.Content)
		assert.True(t, ev.Line.Flags.Prompt)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for prompt ServerInput event")
	}

	_ = s.Close()
}

func TestSessionRunFlushesPromptOnIdleTimeout(t *testing.T) {
	s, remote, bus := newPipeSession(t)
	go s.Run(3)

	go func() { _, _ = remote.Write([]byte("Prompt> ")) }()

	select {
	case ev := <-bus:
		require.Equal(t, events.KindServerInput, ev.Kind)
		assert.Equal(t, "Prompt> ", ev.Line.Content)
		assert.True(t, ev.Line.Flags.Prompt)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for idle-flushed prompt event")
	}

	_ = s.Close()
}

func TestSessionRunEmitsDisconnectOnClose(t *testing.T) {
	s, remote, bus := newPipeSession(t)
	go s.Run(7)

	_ = remote.Close()

	select {
	case ev := <-bus:
		assert.Equal(t, events.KindDisconnect, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Disconnect event")
	}
}
