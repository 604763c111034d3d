package scripting

import (
	"github.com/dop251/goja"

	"github.com/GoMudEngine/blightscript/internal/events"
	"github.com/GoMudEngine/blightscript/internal/model"
)

// asCallable extracts a goja.Callable from a function-typed argument,
// panicking (which goja turns into a JS TypeError) on a non-function --
// mirrors mlua's own type-checked argument extraction.
func asCallable(rt *goja.Runtime, v goja.Value) goja.Callable {
	fn, ok := goja.AssertFunction(v)
	if !ok {
		panic(rt.NewTypeError("expected a function argument"))
	}
	return fn
}

func argString(call goja.FunctionCall, i int) string {
	if i >= len(call.Arguments) {
		return ""
	}
	return call.Arguments[i].String()
}

func argInt(call goja.FunctionCall, i int) int64 {
	if i >= len(call.Arguments) {
		return 0
	}
	return call.Arguments[i].ToInteger()
}

func argBool(call goja.FunctionCall, i int) bool {
	if i >= len(call.Arguments) {
		return false
	}
	return call.Arguments[i].ToBoolean()
}

// newLineObject exposes a model.Line to script callbacks: a content
// string, a flags record, and the script-facing gag(bool)/set_content(s)
// methods that mutate the Go-side Line in place during chain traversal.
func (h *Host) newLineObject(line *model.Line) goja.Value {
	obj := h.rt.NewObject()
	_ = obj.Set("content", line.Content)
	_ = obj.Set("display_content", line.DisplayContent())

	flags := h.rt.NewObject()
	_ = flags.Set("gag", line.Flags.Gag)
	_ = flags.Set("matched", line.Flags.Matched)
	_ = flags.Set("bypass_script", line.Flags.BypassScript)
	_ = flags.Set("prompt", line.Flags.Prompt)
	_ = obj.Set("flags", flags)

	_ = obj.Set("gag", func(call goja.FunctionCall) goja.Value {
		line.Gag(argBool(call, 0))
		_ = flags.Set("gag", line.Flags.Gag)
		return goja.Undefined()
	})
	_ = obj.Set("set_content", func(call goja.FunctionCall) goja.Value {
		line.SetContent(argString(call, 0))
		_ = obj.Set("content", line.Content)
		_ = obj.Set("display_content", line.DisplayContent())
		return goja.Undefined()
	})
	_ = obj.Set("set_display", func(call goja.FunctionCall) goja.Value {
		line.SetDisplay(argString(call, 0))
		_ = obj.Set("display_content", line.DisplayContent())
		return goja.Undefined()
	})
	_ = obj.Set("set_matched", func(call goja.FunctionCall) goja.Value {
		line.Flags.Matched = argBool(call, 0)
		_ = flags.Set("matched", line.Flags.Matched)
		return goja.Undefined()
	})
	return obj
}

// installLibraries binds every library singleton spec.md §6 names onto
// the runtime's global object. Called once per rebuild, while coreMode is
// still true, so the built-in modules evaluated right afterward can see
// them already in place.
func (h *Host) installLibraries() {
	h.installBlight()
	h.installMud()
	h.installCore()
	h.installTimer()
	h.installPrompt()
	h.installTrigger()
	h.installAlias()
	h.installScript()
	h.installMisc()
}

func (h *Host) installBlight() {
	obj := h.rt.NewObject()
	_ = obj.Set("output", func(call goja.FunctionCall) goja.Value {
		h.uiEvents = append(h.uiEvents, argString(call, 0))
		return goja.Undefined()
	})
	_ = obj.Set("on_quit", func(call goja.FunctionCall) goja.Value {
		h.onQuit.Add(h.coreMode, asCallable(h.rt, call.Argument(0)))
		return goja.Undefined()
	})
	_ = obj.Set("on_dimensions_change", func(call goja.FunctionCall) goja.Value {
		h.dimsChange.Add(h.coreMode, asCallable(h.rt, call.Argument(0)))
		return goja.Undefined()
	})
	_ = obj.Set("terminal_dimensions", func(call goja.FunctionCall) goja.Value {
		return h.rt.ToValue([]int{h.dims.Width, h.dims.Height})
	})
	_ = obj.Set("bind", func(call goja.FunctionCall) goja.Value {
		h.bindings[argString(call, 0)] = asCallable(h.rt, call.Argument(1))
		return goja.Undefined()
	})
	_ = obj.Set("version", func(call goja.FunctionCall) goja.Value {
		return h.rt.ToValue([]string{"blightscript", moduleVersion})
	})
	_ = obj.Set("on_complete", func(call goja.FunctionCall) goja.Value {
		h.completion.Add(h.coreMode, asCallable(h.rt, call.Argument(0)))
		return goja.Undefined()
	})
	for name, seq := range colorConstants {
		_ = obj.Set(name, seq)
	}
	_ = h.rt.Set("blight", obj)
}

func (h *Host) installMud() {
	obj := h.rt.NewObject()
	_ = obj.Set("send", func(call goja.FunctionCall) goja.Value {
		h.bus <- events.ServerInput(model.FromString(argString(call, 0)))
		return goja.Undefined()
	})
	_ = obj.Set("on_connect", func(call goja.FunctionCall) goja.Value {
		h.onConnect.Add(h.coreMode, asCallable(h.rt, call.Argument(0)))
		return goja.Undefined()
	})
	_ = obj.Set("on_disconnect", func(call goja.FunctionCall) goja.Value {
		h.onDisconnect.Add(h.coreMode, asCallable(h.rt, call.Argument(0)))
		return goja.Undefined()
	})
	_ = obj.Set("add_output_listener", func(call goja.FunctionCall) goja.Value {
		h.mudOutput.Add(h.coreMode, asCallable(h.rt, call.Argument(0)))
		return goja.Undefined()
	})
	_ = obj.Set("add_input_listener", func(call goja.FunctionCall) goja.Value {
		h.mudInput.Add(h.coreMode, asCallable(h.rt, call.Argument(0)))
		return goja.Undefined()
	})
	_ = h.rt.Set("mud", obj)
}

func (h *Host) installCore() {
	obj := h.rt.NewObject()
	_ = obj.Set("enable_protocol", func(call goja.FunctionCall) goja.Value {
		h.bus <- events.EnableProto(uint8(argInt(call, 0)))
		return goja.Undefined()
	})
	_ = obj.Set("subneg_send", func(call goja.FunctionCall) goja.Value {
		var payload []byte
		_ = h.rt.ExportTo(call.Argument(1), &payload)
		h.bus <- events.ProtoSubnegSend(uint8(argInt(call, 0)), payload)
		return goja.Undefined()
	})
	_ = obj.Set("on_protocol_enabled", func(call goja.FunctionCall) goja.Value {
		h.protoEnabled.Add(h.coreMode, asCallable(h.rt, call.Argument(0)))
		return goja.Undefined()
	})
	_ = obj.Set("subneg_recv", func(call goja.FunctionCall) goja.Value {
		h.protoSubneg.Add(h.coreMode, asCallable(h.rt, call.Argument(0)))
		return goja.Undefined()
	})
	_ = h.rt.Set("core", obj)
}

func (h *Host) installTimer() {
	obj := h.rt.NewObject()
	_ = obj.Set("add", func(call goja.FunctionCall) goja.Value {
		delay := argInt(call, 0)
		count := int(argInt(call, 1))
		fn := asCallable(h.rt, call.Argument(2))
		id := h.timers.Add(h.coreMode, delay, count, fn)
		return h.rt.ToValue(id)
	})
	_ = obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		h.timers.Remove(uint32(argInt(call, 0)))
		return goja.Undefined()
	})
	_ = obj.Set("on_tick", func(call goja.FunctionCall) goja.Value {
		h.tick.Add(h.coreMode, asCallable(h.rt, call.Argument(0)))
		return goja.Undefined()
	})
	_ = h.rt.Set("timer", obj)
}

func (h *Host) installPrompt() {
	prompt := h.rt.NewObject()
	_ = prompt.Set("set", func(call goja.FunctionCall) goja.Value {
		text := argString(call, 0)
		h.bus <- events.SetPromptInput(text)
		return goja.Undefined()
	})
	_ = prompt.Set("set_cursor", func(call goja.FunctionCall) goja.Value {
		// 1-indexed at the script boundary, converted to the 0-indexed
		// internal representation here.
		n := argInt(call, 0)
		if n > 0 {
			n--
		}
		h.promptCursor = uint32(n)
		h.bus <- events.SetPromptInputCursor(h.promptCursor)
		return goja.Undefined()
	})
	_ = prompt.Set("get", func(call goja.FunctionCall) goja.Value {
		return h.rt.ToValue(h.promptContent)
	})
	_ = prompt.Set("get_cursor", func(call goja.FunctionCall) goja.Value {
		return h.rt.ToValue(h.promptCursor + 1)
	})
	_ = prompt.Set("add_prompt_listener", func(call goja.FunctionCall) goja.Value {
		h.promptInput.Add(h.coreMode, asCallable(h.rt, call.Argument(0)))
		return goja.Undefined()
	})
	_ = h.rt.Set("prompt", prompt)

	mask := h.rt.NewObject()
	_ = mask.Set("set", func(call goja.FunctionCall) goja.Value {
		data := argString(call, 0)
		var raw map[int]string
		_ = h.rt.ExportTo(call.Argument(1), &raw)

		newMask, ok := model.Set(h.promptContent, data, raw)
		if !ok {
			return h.rt.ToValue(false)
		}
		h.promptMask = newMask
		h.bus <- events.SetPromptMask(raw)
		return h.rt.ToValue(true)
	})
	_ = mask.Set("get", func(call goja.FunctionCall) goja.Value {
		entries := h.promptMask.Entries()
		out := make(map[int]string, len(entries))
		for _, e := range entries {
			out[e.Offset] = e.Value
		}
		return h.rt.ToValue(out)
	})
	_ = h.rt.Set("promptMask", mask)
	_ = h.rt.Set("prompt_mask", mask)
}

func (h *Host) installTrigger() {
	obj := h.rt.NewObject()
	_ = obj.Set("add", func(call goja.FunctionCall) goja.Value {
		pattern := argString(call, 0)
		opts := decodeTriggerOpts(h.rt, call.Argument(1))
		fn := asCallable(h.rt, call.Argument(2))
		id := h.triggers.Add(h.coreMode, pattern, opts, fn)
		result := h.rt.NewObject()
		_ = result.Set("id", id)
		return result
	})
	_ = obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		h.triggers.Remove(uint32(argInt(call, 0)))
		return goja.Undefined()
	})
	_ = obj.Set("clear", func(call goja.FunctionCall) goja.Value {
		h.triggers.Clear()
		return goja.Undefined()
	})
	_ = obj.Set("get_group", func(call goja.FunctionCall) goja.Value {
		group := h.rt.NewObject()
		_ = group.Set("get_triggers", func(goja.FunctionCall) goja.Value {
			out := h.rt.NewObject()
			for id, tr := range h.triggers.entries {
				_ = out.Set(h.rt.ToValue(id).String(), tr.pattern)
			}
			return out
		})
		return group
	})
	_ = h.rt.Set("trigger", obj)
}

func decodeTriggerOpts(rt *goja.Runtime, v goja.Value) triggerOpts {
	// An omitted "prompt" key defaults to false, not "no gating": per the
	// donor's own trigger.get::<_, bool>("prompt").unwrap_or(false), a
	// plain trigger only ever matches non-prompt lines unless it opts in.
	opts := triggerOpts{Enabled: true, Prompt: new(bool)}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return opts
	}
	obj := v.ToObject(rt)
	if obj == nil {
		return opts
	}
	if g := obj.Get("gag"); g != nil && !goja.IsUndefined(g) {
		opts.Gag = g.ToBoolean()
	}
	if c := obj.Get("count"); c != nil && !goja.IsUndefined(c) {
		opts.Count = int(c.ToInteger())
	}
	if r := obj.Get("raw"); r != nil && !goja.IsUndefined(r) {
		opts.Raw = r.ToBoolean()
	}
	if e := obj.Get("enabled"); e != nil && !goja.IsUndefined(e) {
		opts.Enabled = e.ToBoolean()
	}
	if p := obj.Get("prompt"); p != nil && !goja.IsUndefined(p) {
		pv := p.ToBoolean()
		opts.Prompt = &pv
	}
	return opts
}

func (h *Host) installAlias() {
	obj := h.rt.NewObject()
	_ = obj.Set("add", func(call goja.FunctionCall) goja.Value {
		pattern := argString(call, 0)
		fn := asCallable(h.rt, call.Argument(1))
		id := h.aliases.Add(h.coreMode, pattern, fn)
		result := h.rt.NewObject()
		_ = result.Set("id", id)
		return result
	})
	_ = obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		h.aliases.Remove(uint32(argInt(call, 0)))
		return goja.Undefined()
	})
	_ = obj.Set("clear", func(call goja.FunctionCall) goja.Value {
		h.aliases.Clear()
		return goja.Undefined()
	})
	_ = obj.Set("get_group", func(call goja.FunctionCall) goja.Value {
		group := h.rt.NewObject()
		_ = group.Set("get_aliases", func(goja.FunctionCall) goja.Value {
			out := h.rt.NewObject()
			for id, al := range h.aliases.entries {
				_ = out.Set(h.rt.ToValue(id).String(), al.pattern)
			}
			return out
		})
		return group
	})
	_ = h.rt.Set("alias", obj)
}

func (h *Host) installScript() {
	obj := h.rt.NewObject()
	_ = obj.Set("load", func(call goja.FunctionCall) goja.Value {
		_ = h.LoadScript(argString(call, 0))
		return goja.Undefined()
	})
	_ = obj.Set("reset", func(call goja.FunctionCall) goja.Value {
		_ = h.Reset(h.dims)
		return goja.Undefined()
	})
	_ = h.rt.Set("script", obj)
}
