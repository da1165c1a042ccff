//go:build js && wasm

package game

import (
	"errors"
	"syscall/js"
)

var writeClipboard = writeBrowserClipboard

// writeBrowserClipboard hands s to navigator.clipboard. The write itself is
// asynchronous; a rejected promise is only reported to the console.
func writeBrowserClipboard(s string) error {
	nav := js.Global().Get("navigator")
	if nav.IsUndefined() {
		return errors.New("clipboard not available in this browser")
	}
	cb := nav.Get("clipboard")
	if cb.IsUndefined() || cb.IsNull() {
		return errors.New("clipboard not available in this browser")
	}
	promise := cb.Call("writeText", s)
	var onErr js.Func
	onErr = js.FuncOf(func(_ js.Value, args []js.Value) any {
		defer onErr.Release()
		if len(args) > 0 {
			js.Global().Get("console").Call("warn", "clipboard write failed:", args[0])
		}
		return nil
	})
	promise.Call("catch", onErr)
	return nil
}
