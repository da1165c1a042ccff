// Package levelpack reads the ordered list of levels a game is played over.
// A pack is either levels.toml ([[levels]] tables) or levels.json
// ({"levels": [...]}); image paths are relative to the pack file.
package levelpack

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/bee-mcc/ispy/pkg/level"
)

// Default file names, tried in this order by Find.
var DefaultNames = []string{"levels.toml", "levels.json"}

var ErrNoLevels = errors.New("no levels defined")

// ConfigError means the level collection cannot be played.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("level config: %s: %v", e.Reason, e.Err)
	}
	return "level config: " + e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }

type Format int

const (
	FormatTOML Format = iota
	FormatJSON
)

// FormatFor picks the format from a file extension.
func FormatFor(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, &ConfigError{Reason: fmt.Sprintf("unknown level pack format %q", name)}
	}
}

type Pack struct {
	Levels []level.Definition `json:"levels" toml:"levels"`

	// Dir is the directory of the pack file inside its filesystem.
	Dir string `json:"-" toml:"-"`
}

// Parse decodes and validates a pack.
func Parse(data []byte, format Format) (*Pack, error) {
	var p Pack
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
			return nil, &ConfigError{Reason: "parse toml", Err: err}
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, &ConfigError{Reason: "parse json", Err: err}
		}
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown format %d", format)}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads the pack stored at name in fsys.
func Load(fsys fs.FS, name string) (*Pack, error) {
	format, err := FormatFor(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, &ConfigError{Reason: "read " + name, Err: err}
	}
	p, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	p.Dir = path.Dir(name)
	return p, nil
}

// Find loads the first of DefaultNames present at the root of fsys.
func Find(fsys fs.FS) (*Pack, string, error) {
	for _, name := range DefaultNames {
		if _, err := fs.Stat(fsys, name); err != nil {
			continue
		}
		p, err := Load(fsys, name)
		return p, name, err
	}
	return nil, "", &ConfigError{
		Reason: "no " + strings.Join(DefaultNames, " or ") + " found",
		Err:    ErrNoLevels,
	}
}

// Validate checks every level can actually be played.
func (p *Pack) Validate() error {
	if len(p.Levels) == 0 {
		return &ConfigError{Reason: "empty level pack", Err: ErrNoLevels}
	}
	for i, l := range p.Levels {
		r := l.ClickRegion
		switch {
		case strings.TrimSpace(l.Image) == "":
			return &ConfigError{Reason: fmt.Sprintf("level %d (%q): missing image", i+1, l.Name)}
		case !finite(r.X, r.Y, r.Width, r.Height):
			return &ConfigError{Reason: fmt.Sprintf("level %d (%q): click region is not a finite number", i+1, l.Name)}
		case r.Width <= 0 || r.Height <= 0:
			return &ConfigError{Reason: fmt.Sprintf("level %d (%q): click region must have a positive size", i+1, l.Name)}
		case r.X < 0 || r.Y < 0:
			return &ConfigError{Reason: fmt.Sprintf("level %d (%q): click region starts outside the image", i+1, l.Name)}
		case !finite(l.DesktopZoomFactor):
			return &ConfigError{Reason: fmt.Sprintf("level %d (%q): desktop zoom is not a finite number", i+1, l.Name)}
		case l.DesktopZoomFactor < 0:
			return &ConfigError{Reason: fmt.Sprintf("level %d (%q): negative desktop zoom", i+1, l.Name)}
		}
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ImagePath resolves a level's image against the pack directory.
func (p *Pack) ImagePath(d level.Definition) string {
	if path.IsAbs(d.Image) || p.Dir == "" {
		return strings.TrimPrefix(d.Image, "/")
	}
	return path.Join(p.Dir, d.Image)
}

// Resolved returns the definitions with image paths made relative to the
// filesystem root rather than the pack file.
func (p *Pack) Resolved() []level.Definition {
	out := make([]level.Definition, len(p.Levels))
	for i, d := range p.Levels {
		d.Image = p.ImagePath(d)
		out[i] = d
	}
	return out
}
