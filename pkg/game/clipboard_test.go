package game

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// The desktop clipboard library does not build for js/wasm, so only the
// native-tagged file may import it.
func TestClipboardLibraryOnlyInNativeFile(t *testing.T) {
	files, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatal(err)
	}
	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		src, err := os.ReadFile(name)
		if err != nil {
			t.Fatal(err)
		}
		f, err := parser.ParseFile(fset, name, src, parser.ImportsOnly|parser.ParseComments)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		for _, imp := range f.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			if path != "github.com/atotto/clipboard" {
				continue
			}
			if !strings.HasPrefix(string(src), "//go:build !js || !wasm") {
				t.Errorf("%s imports %s without excluding js/wasm", name, path)
			}
		}
	}
}
