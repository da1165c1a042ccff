//go:build !js || !wasm

package game

// IsWASM reports whether the game runs in a browser.
func IsWASM() bool {
	return false
}
