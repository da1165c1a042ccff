//go:build !js || !wasm

package game

import "github.com/atotto/clipboard"

var writeClipboard = clipboard.WriteAll
