package scripting

import "embed"

//go:embed builtin/*.js
var builtinFS embed.FS

// builtinModuleOrder is the evaluation order spec.md §4.1's Lifecycle
// names, minus "trigger" and "alias": those two are implemented as
// Go-native globals installed by installTrigger/installAlias before any
// built-in module runs (the matching engine needs regexp2, not
// goja-reachable code), so there is no trigger.js/alias.js to evaluate —
// see DESIGN.md for the full justification. "json" is likewise omitted:
// installJSON already binds it directly against the runtime's own
// JSON.stringify/parse, so a wrapper module would add nothing.
var builtinModuleOrder = []string{
	"defaults",
	"functions",
	"bindings",
	"command",
	"macros",
	"plugins",
	"telnet_charset",
	"naws",
	"gmcp",
	"msdp",
	"mssp",
	"ttype",
	"tasks",
	"history",
	"search",
}

var builtinModules = loadBuiltinModules()

func loadBuiltinModules() map[string]string {
	out := map[string]string{}
	for _, name := range builtinModuleOrder {
		b, err := builtinFS.ReadFile("builtin/" + name + ".js")
		if err != nil {
			panic(err)
		}
		out[name] = string(b)
	}
	return out
}
