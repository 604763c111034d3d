package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMudEngine/blightscript/internal/config"
	"github.com/GoMudEngine/blightscript/internal/events"
	"github.com/GoMudEngine/blightscript/internal/model"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := config.Config{StorePath: filepath.Join(t.TempDir(), "store.yaml")}
	cfg.Validate()
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestDispatchServerInputRunsTriggerCallback(t *testing.T) {
	c := newTestClient(t)

	_, err := c.host.Eval(`var __fired = false; trigger.add("hello", {}, function(){ __fired = true; });`)
	require.NoError(t, err)

	c.dispatch(events.ServerInput(model.FromString("hello there")))

	v, err := c.host.Eval(`__fired`)
	require.NoError(t, err)
	assert.True(t, v.ToBoolean())
}

func TestDispatchEnableProtoRunsListener(t *testing.T) {
	c := newTestClient(t)

	_, err := c.host.Eval(`var __proto = 0; core.on_protocol_enabled(function(code){ __proto = code; });`)
	require.NoError(t, err)

	c.dispatch(events.EnableProto(201))

	v, err := c.host.Eval(`__proto`)
	require.NoError(t, err)
	assert.Equal(t, int64(201), v.ToInteger())
}

func TestOnQuitStopsRunLoop(t *testing.T) {
	c := newTestClient(t)
	c.OnQuit()
	assert.True(t, c.quit)
}
