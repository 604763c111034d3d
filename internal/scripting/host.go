// Package scripting implements the scripting host (C4): the embedded
// goja runtime, its library singletons, its listener/trigger/alias/timer
// registries, and the public operations the main loop drives it through.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/GoMudEngine/blightscript/internal/ansiscan"
	"github.com/GoMudEngine/blightscript/internal/events"
	"github.com/GoMudEngine/blightscript/internal/model"
	"github.com/GoMudEngine/blightscript/internal/regexmatch"
)

// Dimensions is the terminal's screen size as known to the host.
type Dimensions struct {
	Width  int
	Height int
}

// Host owns one goja.Runtime plus every registry spec.md §3/§4.1
// describes. It runs exclusively on the main loop's goroutine; nothing in
// this package is safe to call concurrently from more than one goroutine.
type Host struct {
	bus  chan<- events.Event
	rt   *goja.Runtime
	dims Dimensions

	readerMode bool
	ttsEnabled bool

	coreMode bool

	isConnected  bool
	connectionID uint16

	promptContent string
	promptCursor  uint32
	promptMask    model.PromptMask

	regexCache *regexmatch.Cache
	triggers   *triggerTable
	aliases    *aliasTable
	timers     *timerTable

	mudOutput     listenerList
	mudInput      listenerList
	onConnect     listenerList
	onDisconnect  listenerList
	protoEnabled  listenerList
	protoSubneg   listenerList
	tick          listenerList
	completion    listenerList
	fsListeners   listenerList
	promptInput   listenerList
	resetListeners listenerList
	onQuit        listenerList
	dimsChange    listenerList

	bindings map[string]goja.Callable

	store map[string]interface{}

	uiEvents []string

	scriptSearchDir string

	// lastLock carries the most recent tab_complete lock value across
	// calls: spec.md §8 scenario (f) requires a later call whose
	// callbacks return no lock value at all to still report the prior
	// call's lock state, not reset to unlocked.
	lastLock bool
}

// Builder constructs a Host, mirroring LuaScriptBuilder's chained-setter shape.
type Builder struct {
	bus        chan<- events.Event
	dims       Dimensions
	readerMode bool
	ttsEnabled bool
}

// NewHostBuilder starts a builder that will emit events onto bus.
func NewHostBuilder(bus chan<- events.Event) *Builder {
	return &Builder{bus: bus, dims: Dimensions{Width: 80, Height: 24}}
}

func (b *Builder) Dimensions(w, h int) *Builder {
	b.dims = Dimensions{Width: w, Height: h}
	return b
}

func (b *Builder) ReaderMode(v bool) *Builder {
	b.readerMode = v
	return b
}

func (b *Builder) TTSEnabled(v bool) *Builder {
	b.ttsEnabled = v
	return b
}

// Build constructs a fresh runtime, installs every registry and library
// singleton, then evaluates the embedded built-in script modules in core
// mode, exactly as spec.md §4.1's Lifecycle describes.
func (b *Builder) Build() (*Host, error) {
	h := &Host{
		bus:        b.bus,
		dims:       b.dims,
		readerMode: b.readerMode,
		ttsEnabled: b.ttsEnabled,
		regexCache: regexmatch.NewCache(),
		bindings:   map[string]goja.Callable{},
		store:      map[string]interface{}{},
	}
	if err := h.rebuild(); err != nil {
		return nil, err
	}
	return h, nil
}

// rebuild constructs a new goja.Runtime, (re)creates the trigger/alias/
// timer tables, installs library singletons, and evaluates the built-in
// modules under core mode. store is left untouched — callers that want a
// clean store should clear h.store themselves before calling rebuild.
func (h *Host) rebuild() error {
	h.rt = goja.New()
	h.triggers = newTriggerTable(h.regexCache)
	h.aliases = newAliasTable(h.regexCache)
	h.timers = newTimerTable()
	h.bindings = map[string]goja.Callable{}
	h.uiEvents = nil

	h.mudOutput = listenerList{}
	h.mudInput = listenerList{}
	h.onConnect = listenerList{}
	h.onDisconnect = listenerList{}
	h.protoEnabled = listenerList{}
	h.protoSubneg = listenerList{}
	h.tick = listenerList{}
	h.completion = listenerList{}
	h.fsListeners = listenerList{}
	h.promptInput = listenerList{}
	h.resetListeners = listenerList{}
	h.onQuit = listenerList{}
	h.dimsChange = listenerList{}

	h.coreMode = true
	h.installLibraries()

	for _, name := range builtinModuleOrder {
		src, ok := builtinModules[name]
		if !ok {
			continue
		}
		if _, err := h.rt.RunScript(name+".js", src); err != nil {
			h.coreMode = false
			return fmt.Errorf("evaluating built-in module %s: %w", name, err)
		}
	}
	h.coreMode = false
	return nil
}

// Reset rebuilds the interpreter per spec.md §4.1's Reset: the store
// survives, everything else (including all timers and user listeners) is
// discarded.
func (h *Host) Reset(dims Dimensions) error {
	h.OnReset()
	h.dims = dims
	return h.rebuild()
}

func (h *Host) emitInfo(op string, err error) {
	if err == nil {
		return
	}
	h.bus <- events.Info((&scriptError{Op: op, Err: err}).Error())
}

// ---- line listener chains -------------------------------------------------

func (h *Host) walkLineChain(list *listenerList, line *model.Line) error {
	current := line.Clone()
	var callErr error
	list.Each(func(fn goja.Callable) bool {
		jsLine := h.newLineObject(&current)
		_, err := callSafely(fn, goja.Undefined(), jsLine)
		if err != nil {
			callErr = err
			return false
		}
		return true
	})
	line.ReplaceWith(&current)
	return callErr
}

// OnMudOutput implements the on_mud_output(line) operation.
func (h *Host) OnMudOutput(line *model.Line) {
	if line.Flags.BypassScript {
		return
	}

	stripped := ansiscan.Strip(line.Content)
	matches, err := h.triggers.Evaluate(line.Content, stripped, line.Flags.Prompt)
	if err != nil {
		h.emitInfo("on_mud_output:trigger", err)
	}
	for _, m := range matches {
		if m.trigger.opts.Gag {
			line.Flags.Gag = true
		}
		line.Flags.Matched = true
		jsLine := h.newLineObject(line)
		groups := h.rt.ToValue(m.groups)
		if _, cerr := callSafely(m.trigger.fn, goja.Undefined(), groups, jsLine); cerr != nil {
			h.emitInfo("trigger callback", cerr)
		}
	}

	if err := h.walkLineChain(&h.mudOutput, line); err != nil {
		h.emitInfo("on_mud_output", err)
	}
}

// OnMudInput implements the on_mud_input(line) operation.
func (h *Host) OnMudInput(line *model.Line) {
	if line.Flags.BypassScript {
		return
	}

	matches, err := h.aliases.Evaluate(line.Content)
	if err != nil {
		h.emitInfo("on_mud_input:alias", err)
	}
	for _, m := range matches {
		line.Flags.Matched = true
		jsLine := h.newLineObject(line)
		groups := h.rt.ToValue(m.groups)
		if _, cerr := callSafely(m.alias.fn, goja.Undefined(), groups, jsLine); cerr != nil {
			h.emitInfo("alias callback", cerr)
			line.Flags.Matched = true
		}
	}

	if err := h.walkLineChain(&h.mudInput, line); err != nil {
		h.emitInfo("on_mud_input", err)
		line.Flags.Matched = true
	}
}

// ---- connection lifecycle --------------------------------------------------

func (h *Host) OnConnect(host string, port int, id uint16) {
	h.isConnected = true
	h.connectionID = id
	h.onConnect.Each(func(fn goja.Callable) bool {
		if _, err := callSafely(fn, goja.Undefined(), h.rt.ToValue(host), h.rt.ToValue(port)); err != nil {
			h.emitInfo("on_connect", err)
		}
		return true
	})
}

func (h *Host) OnDisconnect() {
	h.isConnected = false
	h.onDisconnect.Each(func(fn goja.Callable) bool {
		if _, err := callSafely(fn, goja.Undefined()); err != nil {
			h.emitInfo("on_disconnect", err)
		}
		return true
	})
}

func (h *Host) ConnectionID() uint16 { return h.connectionID }
func (h *Host) IsConnected() bool    { return h.isConnected }

// ---- telnet protocol --------------------------------------------------------

func (h *Host) ProtoEnabled(code uint8) {
	h.protoEnabled.Each(func(fn goja.Callable) bool {
		if _, err := callSafely(fn, goja.Undefined(), h.rt.ToValue(code)); err != nil {
			h.emitInfo("proto_enabled", err)
		}
		return true
	})
}

func (h *Host) ProtoSubneg(code uint8, payload []byte) {
	h.protoSubneg.Each(func(fn goja.Callable) bool {
		if _, err := callSafely(fn, goja.Undefined(), h.rt.ToValue(code), h.rt.ToValue(payload)); err != nil {
			h.emitInfo("proto_subneg", err)
		}
		return true
	})
}

// ---- tick / timers ----------------------------------------------------------

func (h *Host) Tick(millis int64) {
	h.tick.Each(func(fn goja.Callable) bool {
		if _, err := callSafely(fn, goja.Undefined(), h.rt.ToValue(millis)); err != nil {
			h.emitInfo("tick", err)
		}
		return true
	})
}

func (h *Host) RunTimedFunction(id uint32) {
	fn, ok := h.timers.Lookup(id)
	if !ok {
		return
	}
	if _, err := callSafely(fn, goja.Undefined()); err != nil {
		h.emitInfo("run_timed_function", err)
	}
}

func (h *Host) RemoveTimedFunction(id uint32) {
	h.timers.Remove(id)
}

// DrainDueTimers advances the timer wheel and returns the ids of every
// timed callback whose deadline has passed as of now, in firing order;
// the caller (the main loop) is expected to invoke RunTimedFunction for
// each. See DESIGN.md ("Timer scheduling owned by Host") for why Host owns the deadline bookkeeping
// rather than the caller.
func (h *Host) DrainDueTimers(now time.Time) []uint32 {
	due := h.timers.Due(now)
	ids := make([]uint32, len(due))
	for i, e := range due {
		ids[i] = e.id
	}
	return ids
}

// ---- completion / bindings / fs --------------------------------------------

func (h *Host) TabComplete(input string) model.Completions {
	result := model.Completions{}
	result.Lock(h.lastLock)
	aborted := false
	h.completion.Each(func(fn goja.Callable) bool {
		v, err := callSafely(fn, goja.Undefined(), h.rt.ToValue(input))
		if err != nil {
			h.emitInfo("tab_complete", err)
			aborted = true
			return false
		}
		entries, locked, hasLock := decodeCompletionResult(h.rt, v)
		if entries != nil {
			result.AddAll(entries)
		}
		if hasLock {
			result.Lock(locked)
		}
		return true
	})
	if aborted {
		result = model.Completions{}
		result.Lock(h.lastLock)
	}
	h.lastLock = result.Locked
	return result
}

func decodeCompletionResult(rt *goja.Runtime, v goja.Value) (entries []string, locked bool, hasLock bool) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, false, false
	}
	obj := v.ToObject(rt)
	if obj == nil {
		return nil, false, false
	}
	if tableVal := obj.Get("table"); tableVal != nil && !goja.IsUndefined(tableVal) {
		var raw []string
		if err := rt.ExportTo(tableVal, &raw); err == nil {
			entries = raw
		}
	}
	if lockedVal := obj.Get("locked"); lockedVal != nil && !goja.IsUndefined(lockedVal) {
		locked = lockedVal.ToBoolean()
		hasLock = true
	}
	return entries, locked, hasLock
}

func (h *Host) CheckBindings(cmd string) bool {
	fn, ok := h.bindings[cmd]
	if !ok {
		return false
	}
	if _, err := callSafely(fn, goja.Undefined()); err != nil {
		h.emitInfo("check_bindings", err)
	}
	return true
}

func (h *Host) HandleFSEvent(path, op string) {
	h.fsListeners.Each(func(fn goja.Callable) bool {
		if _, err := callSafely(fn, goja.Undefined(), h.rt.ToValue(path), h.rt.ToValue(op)); err != nil {
			h.emitInfo("handle_fs_event", err)
		}
		return true
	})
}

// ---- prompt -----------------------------------------------------------------

func (h *Host) OnPromptUpdate(content string) {
	h.promptContent = content
	if h.dims.Width > 0 && ansiscan.DisplayWidth(content) > h.dims.Width {
		h.emitInfo("on_prompt_update", fmt.Errorf("prompt wider than negotiated terminal width (%d columns)", h.dims.Width))
	}
	h.promptInput.Each(func(fn goja.Callable) bool {
		if _, err := callSafely(fn, goja.Undefined(), h.rt.ToValue(content)); err != nil {
			h.emitInfo("on_prompt_update", err)
		}
		return true
	})
}

// ---- reset / quit / dimensions ----------------------------------------------

func (h *Host) OnReset() {
	h.resetListeners.Each(func(fn goja.Callable) bool {
		if _, err := callSafely(fn, goja.Undefined()); err != nil {
			h.emitInfo("on_reset", err)
		}
		return true
	})
}

func (h *Host) OnQuit() {
	h.onQuit.Each(func(fn goja.Callable) bool {
		if _, err := callSafely(fn, goja.Undefined()); err != nil {
			h.emitInfo("on_quit", err)
		}
		return true
	})
}

func (h *Host) SetDimensions(w, hgt int) {
	h.dims = Dimensions{Width: w, Height: hgt}
	h.dimsChange.Each(func(fn goja.Callable) bool {
		if _, err := callSafely(fn, goja.Undefined(), h.rt.ToValue(w), h.rt.ToValue(hgt)); err != nil {
			h.emitInfo("set_dimensions", err)
		}
		return true
	})
}

func (h *Host) SetReaderMode(v bool)  { h.readerMode = v }
func (h *Host) SetTTSEnabled(v bool)  { h.ttsEnabled = v }
func (h *Host) ReaderMode() bool      { return h.readerMode }
func (h *Host) TTSEnabled() bool      { return h.ttsEnabled }

// ---- script loading / eval ---------------------------------------------------

// LoadScript implements load_script(path): expand ~, read the file,
// temporarily point the module search directory at the script's own
// directory, execute it, then restore the search path even on error.
func (h *Host) LoadScript(path string) error {
	expanded := expandHome(path)
	src, err := os.ReadFile(expanded)
	if err != nil {
		h.emitInfo("load_script", err)
		return err
	}

	prevDir := h.scriptSearchDir
	h.scriptSearchDir = filepath.Dir(expanded)
	defer func() { h.scriptSearchDir = prevDir }()

	if _, err := h.rt.RunScript(expanded, string(src)); err != nil {
		h.emitInfo("load_script", err)
		return err
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Eval implements eval(text): execute source text at global scope.
func (h *Host) Eval(text string) (goja.Value, error) {
	v, err := h.rt.RunScript("<eval>", text)
	if err != nil {
		h.emitInfo("eval", err)
	}
	return v, err
}

// GetUIEvents implements get_ui_events(): drain and return UI events
// produced by scripts since the last call.
func (h *Host) GetUIEvents() []string {
	out := h.uiEvents
	h.uiEvents = nil
	return out
}
