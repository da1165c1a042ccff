// Package assets fetches and decodes level images.
package assets

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp"
)

// AssetLoadError is returned for any fetch or decode failure.
type AssetLoadError struct {
	Name string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Name, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

// Source opens named assets.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FSSource serves assets from a filesystem, e.g. os.DirFS or an embed.FS.
type FSSource struct {
	FS fs.FS
}

func (s FSSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return s.FS.Open(strings.TrimPrefix(name, "/"))
}

// HTTPSource fetches assets relative to a base URL. In the browser build
// this goes through fetch.
type HTTPSource struct {
	Base   string
	Client *http.Client
}

func (s HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	url := strings.TrimSuffix(s.Base, "/") + "/" + strings.TrimPrefix(name, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return resp.Body, nil
}

// Decode reads a PNG, JPEG, GIF or WebP image.
func Decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}

// LoadImage opens and decodes name from src.
func LoadImage(ctx context.Context, src Source, name string) (image.Image, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, &AssetLoadError{Name: name, Err: err}
	}
	defer rc.Close()

	img, _, err := Decode(rc)
	if err != nil {
		return nil, &AssetLoadError{Name: name, Err: err}
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, &AssetLoadError{Name: name, Err: fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy())}
	}
	return img, nil
}
