package scripting

import (
	"fmt"

	"github.com/dop251/goja"
)

// callSafely invokes fn, converting both a JS-level throw (goja already
// returns that as err) and a host-level panic (stack overflow, an
// interrupted runtime) into a plain error, so callers never need a
// recover of their own. This is the single seam the "scripts never see a
// native panic" policy funnels through.
func callSafely(fn goja.Callable, this goja.Value, args ...goja.Value) (result goja.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script panic: %v", r)
		}
	}()
	return fn(this, args...)
}

// scriptError wraps a script-chain failure with the stack/message text
// that gets routed onto the event bus as an Info event, never surfaced
// as a native error to anything outside this package.
type scriptError struct {
	Op  string
	Err error
}

func (e *scriptError) Error() string {
	return fmt.Sprintf("script error in %s: %v", e.Op, e.Err)
}

func (e *scriptError) Unwrap() error { return e.Err }
