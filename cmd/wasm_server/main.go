// Command wasm_server builds the browser version of ispy and serves it
// together with the level pack.
package main

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/bee-mcc/ispy/internal/log"
)

var (
	serverPort     int
	serverOut      string
	serverLevels   string
	serverNoOpen   bool
	serverLogLevel string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "wasm_server",
		Short:        "Build ispy for the browser and serve it",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         run,
	}
	cmd.Flags().IntVar(&serverPort, "port", 8080, "listen port")
	cmd.Flags().StringVar(&serverOut, "out", "web", "output directory")
	cmd.Flags().StringVar(&serverLevels, "levels", "levels", "level pack directory to publish")
	cmd.Flags().BoolVar(&serverNoOpen, "no-open", false, "do not open a browser")
	cmd.Flags().StringVar(&serverLogLevel, "log-level", "info", "log level")
	return cmd
}

func run(_ *cobra.Command, _ []string) error {
	logger := log.New(os.Stderr, log.LevelFromString(serverLogLevel))

	if err := os.MkdirAll(serverOut, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", serverOut, err)
	}

	logger.Infof("building WASM version")
	if err := buildWASM(); err != nil {
		return fmt.Errorf("failed to build WASM: %w", err)
	}

	logger.Infof("copying wasm_exec.js")
	if err := copyWASMExec(); err != nil {
		return err
	}

	logger.Infof("publishing levels from %s", serverLevels)
	if err := copyDir(serverLevels, filepath.Join(serverOut, "levels")); err != nil {
		return fmt.Errorf("failed to copy levels: %w", err)
	}

	if err := createHTMLFile(logger); err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}

	files := http.FileServer(http.Dir(serverOut))
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		if filepath.Ext(r.URL.Path) == ".wasm" {
			w.Header().Set("Content-Type", "application/wasm")
		}
		logger.Debugf("%s %s", r.Method, r.URL.Path)
		files.ServeHTTP(w, r)
	})

	addr := fmt.Sprintf(":%d", serverPort)
	url := fmt.Sprintf("http://localhost%s", addr)
	logger.Infof("serving %s on %s", serverOut, url)
	if !serverNoOpen {
		openBrowser(url)
	}
	return http.ListenAndServe(addr, nil)
}

func buildWASM() error {
	cmd := exec.Command("go", "build", "-o", filepath.Join(serverOut, "ispy.wasm"), "./cmd/ispy")
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func copyWASMExec() error {
	goRoot := runtime.GOROOT()
	// Go 1.24 moved wasm_exec.js from misc/wasm to lib/wasm.
	for _, dir := range []string{"lib", "misc"} {
		src := filepath.Join(goRoot, dir, "wasm", "wasm_exec.js")
		if _, err := os.Stat(src); err != nil {
			continue
		}
		return copyFile(src, filepath.Join(serverOut, "wasm_exec.js"))
	}
	return fmt.Errorf("wasm_exec.js not found under %s", goRoot)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func createHTMLFile(logger *log.Logger) error {
	htmlPath := filepath.Join(serverOut, "index.html")

	if _, err := os.Stat(htmlPath); err == nil {
		logger.Infof("index.html already exists, keeping existing version")
		return nil
	}

	logger.Infof("creating index.html")
	return os.WriteFile(htmlPath, []byte(indexHTML), 0o644)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1, maximum-scale=1, user-scalable=no">
    <title>I Spy</title>
    <style>
        html, body {
            margin: 0;
            padding: 0;
            width: 100%;
            height: 100%;
            overflow: hidden;
            background: #14141e;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            color: white;
            touch-action: none;
        }
        .loading {
            position: absolute;
            inset: 0;
            display: flex;
            align-items: center;
            justify-content: center;
            font-size: 1.4em;
        }
        .error {
            display: none;
            color: #ff6666;
            padding: 20px;
        }
    </style>
</head>
<body>
    <div class="loading" id="loading">Loading...</div>
    <div class="error" id="error"></div>

    <script src="wasm_exec.js"></script>
    <script>
        const go = new Go();
        WebAssembly.instantiateStreaming(fetch("ispy.wasm"), go.importObject)
            .then((result) => {
                document.getElementById('loading').style.display = 'none';
                go.run(result.instance);
            })
            .catch((err) => {
                console.error('Failed to load WASM:', err);
                document.getElementById('loading').style.display = 'none';
                const e = document.getElementById('error');
                e.style.display = 'block';
                e.textContent = 'Failed to load the game: ' + err;
            });
    </script>
</body>
</html>`

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start"}
	case "darwin":
		cmd = "open"
	default: // "linux", "freebsd", "openbsd", "netbsd"
		cmd = "xdg-open"
	}
	args = append(args, url)

	go exec.Command(cmd, args...).Run()
}
