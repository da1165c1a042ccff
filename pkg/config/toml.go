// Package config reads the optional settings file and turns it into the
// values the game runs with.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig mirrors config.toml. Every field is optional; nil means "keep
// the default".
type FileConfig struct {
	Game        GameConfig        `toml:"game"`
	Viewport    ViewportConfig    `toml:"viewport"`
	Leaderboard LeaderboardConfig `toml:"leaderboard"`
	Log         LogConfig         `toml:"log"`
	Window      WindowConfig      `toml:"window"`
	Levels      LevelsConfig      `toml:"levels"`
}

type GameConfig struct {
	PenaltyMs       *int     `toml:"penalty_ms"`
	LongPressMs     *int     `toml:"long_press_ms"`
	DragThresholdPx *float64 `toml:"drag_threshold_px"`
	CountdownFrom   *int     `toml:"countdown_from"`
	CountdownStepMs *int     `toml:"countdown_step_ms"`
	GoMs            *int     `toml:"go_ms"`
	CorrectDelayMs  *int     `toml:"correct_delay_ms"`
	TransitionMs    *int     `toml:"transition_ms"`
	HintMs          *int     `toml:"hint_ms"`
}

type ViewportConfig struct {
	DesktopBreakpointPx *float64 `toml:"desktop_breakpoint_px"`
	DefaultZoom         *float64 `toml:"default_zoom"`
}

type LeaderboardConfig struct {
	MaxScores *int    `toml:"max_scores"`
	DBPath    *string `toml:"db_path"`
}

type LogConfig struct {
	Level *string `toml:"level"`
}

type WindowConfig struct {
	Width  *int `toml:"width"`
	Height *int `toml:"height"`
}

type LevelsConfig struct {
	Dir *string `toml:"dir"`
}

// LoadConfig reads a TOML config from path. A missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, errors.New("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}
