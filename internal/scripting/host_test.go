package scripting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMudEngine/blightscript/internal/events"
	"github.com/GoMudEngine/blightscript/internal/model"
)

func newTestHost(t *testing.T) (*Host, chan events.Event) {
	t.Helper()
	bus := make(chan events.Event, 64)
	h, err := NewHostBuilder(bus).Dimensions(80, 24).Build()
	require.NoError(t, err)
	return h, bus
}

func mustEval(t *testing.T, h *Host, src string) {
	t.Helper()
	_, err := h.Eval(src)
	require.NoError(t, err)
}

func TestTriggerGagOnCondition(t *testing.T) {
	h, _ := newTestHost(t)
	mustEval(t, h, `
		trigger.add("^Health (\\d+)$", {}, function(m, line) {
			if (m[1] === "100") { line.gag(true); }
		});
	`)

	line := model.FromString("Health 100")
	h.OnMudOutput(&line)
	assert.True(t, line.Flags.Gag)
	assert.True(t, line.Flags.Matched)

	line2 := model.FromString("Health 10")
	h.OnMudOutput(&line2)
	assert.False(t, line2.Flags.Gag)
	assert.True(t, line2.Flags.Matched)
}

func TestSetDisplayOverridesRenderedContentOnly(t *testing.T) {
	h, _ := newTestHost(t)
	mustEval(t, h, `
		mud.add_output_listener(function(line) {
			if (line.content === "secret health potion recipe") {
				line.set_display("a faint shimmer in the air");
			}
		});
	`)

	line := model.FromString("secret health potion recipe")
	h.OnMudOutput(&line)

	assert.Equal(t, "secret health potion recipe", line.Content)
	require.NotNil(t, line.Replacement)
	assert.Equal(t, "a faint shimmer in the air", *line.Replacement)
	assert.Equal(t, "a faint shimmer in the air", line.DisplayContent())
}

func TestCountedTrigger(t *testing.T) {
	h, _ := newTestHost(t)
	mustEval(t, h, `trigger.add("^test$", {count: 3}, function() {});`)

	for i := 0; i < 3; i++ {
		line := model.FromString("test")
		h.OnMudOutput(&line)
		assert.True(t, line.Flags.Matched, "iteration %d", i)
	}

	line := model.FromString("test")
	h.OnMudOutput(&line)
	assert.False(t, line.Flags.Matched)
}

func TestTriggerRemoveByID(t *testing.T) {
	h, _ := newTestHost(t)
	mustEval(t, h, `
		var t = trigger.add("^test$", {}, function() {});
		var __id = t.id;
	`)
	v, err := h.Eval("__id")
	require.NoError(t, err)
	id := uint32(v.ToInteger())

	h.triggers.Remove(id)

	line := model.FromString("test")
	h.OnMudOutput(&line)
	assert.False(t, line.Flags.Matched)
}

func TestRawTriggerOnlyMatchesEscapedText(t *testing.T) {
	h, _ := newTestHost(t)
	mustEval(t, h, `trigger.add("\\x1b\\[31mtest\\x1b\\[0m", {raw: true}, function() {});`)

	raw := model.FromString("\x1b[31mtest\x1b[0m")
	h.OnMudOutput(&raw)
	assert.True(t, raw.Flags.Matched)

	plain := model.FromString("test")
	h.OnMudOutput(&plain)
	assert.False(t, plain.Flags.Matched)
}

func TestAliasAlwaysMarksMatched(t *testing.T) {
	h, _ := newTestHost(t)
	mustEval(t, h, `alias.add("^n$", function(m, line) {});`)

	line := model.FromString("n")
	h.OnMudInput(&line)
	assert.True(t, line.Flags.Matched)
}

func TestPromptMaskSetSucceedsOnMatch(t *testing.T) {
	h, _ := newTestHost(t)
	h.OnPromptUpdate("ABCDE")

	v, err := h.Eval(`prompt_mask.set("ABCDE", {3: "xx", 5: "yy"})`)
	require.NoError(t, err)
	assert.True(t, v.ToBoolean())
}

func TestPromptMaskSetFailsOnStale(t *testing.T) {
	h, _ := newTestHost(t)
	h.OnPromptUpdate("ABCDE")

	v, err := h.Eval(`prompt_mask.set("stale", {1: "x"})`)
	require.NoError(t, err)
	assert.False(t, v.ToBoolean())
}

func TestResetPreservesStoreClearsListeners(t *testing.T) {
	h, _ := newTestHost(t)
	mustEval(t, h, `store.set("k", "v"); mud.add_output_listener(function(line){ line.gag(true); return line; });`)

	require.NoError(t, h.Reset(Dimensions{Width: 80, Height: 24}))

	v, err := h.Eval(`store.get("k")`)
	require.NoError(t, err)
	assert.Equal(t, "v", v.String())

	line := model.FromString("anything")
	h.OnMudOutput(&line)
	assert.False(t, line.Flags.Gag)
}

func TestOnConnectSetsConnectionID(t *testing.T) {
	h, _ := newTestHost(t)
	h.OnConnect("example.org", 4000, 7)
	assert.True(t, h.IsConnected())
	assert.Equal(t, uint16(7), h.ConnectionID())
}

func TestTabCompleteSortsAndDedupesAndLocks(t *testing.T) {
	h, _ := newTestHost(t)
	mustEval(t, h, `
		blight.on_complete(function(input) {
			return {table: ["batmobile", "batman"], locked: true};
		});
		blight.on_complete(function(input) {
			return {table: ["batman"], locked: false};
		});
	`)
	result := h.TabComplete("bat")
	assert.Equal(t, []string{"batman", "batmobile"}, result.Entries)
	assert.False(t, result.Locked)
}
