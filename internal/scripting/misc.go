package scripting

import (
	"github.com/dop251/goja"

	"github.com/GoMudEngine/blightscript/internal/events"
	"github.com/GoMudEngine/blightscript/internal/model"
)

func connectionFor(host string, port int, tls, verify bool) model.Connection {
	return model.NewConnection(host, port, tls, verify)
}

// moduleVersion is what blight.version() reports; overwritten at build
// time in a real release the way the donor embeds its own build version.
const moduleVersion = "dev"

// colorConstants are the literal ANSI sequences spec.md §6 promises the
// renderer, exposed verbatim as blight.C_RED etc.
var colorConstants = map[string]string{
	"C_RED":     "\x1b[31m",
	"C_GREEN":   "\x1b[32m",
	"C_YELLOW":  "\x1b[33m",
	"C_BLUE":    "\x1b[34m",
	"C_MAGENTA": "\x1b[35m",
	"C_CYAN":    "\x1b[36m",
	"C_WHITE":   "\x1b[37m",
	"C_RESET":   "\x1b[0m",
}

// installMisc binds every remaining module-scoped library spec.md §6
// lists (fs, audio, socket, servers, log, regex, tts, store, plugin,
// settings, spellcheck, json, search, history, gmcp, msdp, mssp, ttype,
// tasks). Most of these have no component in SPEC_FULL.md detailed
// enough to warrant their own file; they get small Go-native objects
// here rather than embedded .js modules, a deliberate simplification
// recorded in DESIGN.md rather than left unimplemented.
func (h *Host) installMisc() {
	h.installLog()
	h.installFS()
	h.installStore()
	h.installSettings()
	h.installRegex()
	h.installJSON()
	h.installSystem()
	h.installPassthroughModules()
}

// installSystem binds the macro-facing events the built-in macros.js
// module emits on the bus (§6's user command macro table) — named
// "system" rather than one of spec.md's listed library names because
// these are host-internal plumbing for the macros module, not part of
// the public script API surface itself.
func (h *Host) installSystem() {
	obj := h.rt.NewObject()
	_ = obj.Set("connect", func(call goja.FunctionCall) goja.Value {
		host := argString(call, 0)
		port := int(argInt(call, 1))
		tls := argBool(call, 2)
		verify := argBool(call, 3)
		h.bus <- events.Connect(connectionFor(host, port, tls, verify))
		return goja.Undefined()
	})
	_ = obj.Set("disconnect", func(call goja.FunctionCall) goja.Value {
		h.bus <- events.Disconnect()
		return goja.Undefined()
	})
	_ = obj.Set("reconnect", func(call goja.FunctionCall) goja.Value {
		h.bus <- events.Reconnect()
		return goja.Undefined()
	})
	_ = obj.Set("start_log", func(call goja.FunctionCall) goja.Value {
		h.bus <- events.StartLogging(argString(call, 0), true)
		return goja.Undefined()
	})
	_ = obj.Set("stop_log", func(call goja.FunctionCall) goja.Value {
		h.bus <- events.StopLogging()
		return goja.Undefined()
	})
	_ = obj.Set("load", func(call goja.FunctionCall) goja.Value {
		h.bus <- events.LoadScript(argString(call, 0))
		return goja.Undefined()
	})
	_ = obj.Set("quit", func(call goja.FunctionCall) goja.Value {
		h.bus <- events.Quit(events.QuitScript)
		return goja.Undefined()
	})
	_ = obj.Set("help", func(call goja.FunctionCall) goja.Value {
		h.bus <- events.ShowHelp(argString(call, 0), true)
		return goja.Undefined()
	})
	_ = obj.Set("search", func(call goja.FunctionCall) goja.Value {
		h.bus <- events.FindBackward(argString(call, 0))
		return goja.Undefined()
	})
	_ = h.rt.Set("system", obj)
}

func (h *Host) installLog() {
	obj := h.rt.NewObject()
	_ = obj.Set("info", func(call goja.FunctionCall) goja.Value {
		h.bus <- events.Info(argString(call, 0))
		return goja.Undefined()
	})
	_ = obj.Set("error", func(call goja.FunctionCall) goja.Value {
		h.bus <- events.Info(argString(call, 0))
		return goja.Undefined()
	})
	_ = h.rt.Set("log", obj)
}

func (h *Host) installFS() {
	obj := h.rt.NewObject()
	_ = obj.Set("add_listener", func(call goja.FunctionCall) goja.Value {
		h.fsListeners.Add(h.coreMode, asCallable(h.rt, call.Argument(0)))
		return goja.Undefined()
	})
	_ = h.rt.Set("fs", obj)
}

func (h *Host) installStore() {
	obj := h.rt.NewObject()
	_ = obj.Set("get", func(call goja.FunctionCall) goja.Value {
		v, ok := h.store[argString(call, 0)]
		if !ok {
			return goja.Undefined()
		}
		return h.rt.ToValue(v)
	})
	_ = obj.Set("set", func(call goja.FunctionCall) goja.Value {
		key := argString(call, 0)
		var v interface{}
		_ = h.rt.ExportTo(call.Argument(1), &v)
		h.store[key] = v
		return goja.Undefined()
	})
	_ = obj.Set("delete", func(call goja.FunctionCall) goja.Value {
		delete(h.store, argString(call, 0))
		return goja.Undefined()
	})
	_ = h.rt.Set("store", obj)
}

func (h *Host) installSettings() {
	obj := h.rt.NewObject()
	_ = obj.Set("get", func(call goja.FunctionCall) goja.Value {
		switch argString(call, 0) {
		case "reader_mode":
			return h.rt.ToValue(h.readerMode)
		case "tts_enabled":
			return h.rt.ToValue(h.ttsEnabled)
		}
		return goja.Undefined()
	})
	_ = h.rt.Set("settings", obj)
}

func (h *Host) installRegex() {
	obj := h.rt.NewObject()
	_ = obj.Set("is_match", func(call goja.FunctionCall) goja.Value {
		matched, _, err := h.regexCache.Match(argString(call, 0), argString(call, 1))
		if err != nil {
			panic(h.rt.NewGoError(err))
		}
		return h.rt.ToValue(matched)
	})
	_ = obj.Set("match", func(call goja.FunctionCall) goja.Value {
		matched, groups, err := h.regexCache.Match(argString(call, 0), argString(call, 1))
		if err != nil {
			panic(h.rt.NewGoError(err))
		}
		if !matched {
			return goja.Null()
		}
		return h.rt.ToValue(groups)
	})
	_ = h.rt.Set("regex", obj)
}

func (h *Host) installJSON() {
	obj := h.rt.NewObject()
	_ = obj.Set("stringify", func(call goja.FunctionCall) goja.Value {
		v, err := h.rt.RunScript("<json.stringify>", "JSON.stringify")
		if err != nil {
			return goja.Undefined()
		}
		fn, _ := goja.AssertFunction(v)
		res, _ := fn(goja.Undefined(), call.Argument(0))
		return res
	})
	_ = obj.Set("parse", func(call goja.FunctionCall) goja.Value {
		v, err := h.rt.RunScript("<json.parse>", "JSON.parse")
		if err != nil {
			return goja.Undefined()
		}
		fn, _ := goja.AssertFunction(v)
		res, _ := fn(goja.Undefined(), call.Argument(0))
		return res
	})
	_ = h.rt.Set("json", obj)
}

// installPassthroughModules binds the remaining module names as empty,
// extensible objects so built-in script modules (gmcp, msdp, mssp,
// ttype, tasks, history, search, audio, socket, servers, plugin,
// spellcheck, tts) can attach their own methods onto them without the
// host needing to know their internals — they are genuinely out of
// SPEC_FULL.md's detailed scope (see DESIGN.md).
func (h *Host) installPassthroughModules() {
	for _, name := range []string{
		"audio", "socket", "servers", "plugin", "spellcheck", "tts",
		"search", "history", "gmcp", "msdp", "mssp", "ttype", "tasks",
	} {
		_ = h.rt.Set(name, h.rt.NewObject())
	}
}
