package config

import (
	"fmt"
	"time"

	"github.com/bee-mcc/ispy/internal/log"
	"github.com/bee-mcc/ispy/pkg/session"
	"github.com/bee-mcc/ispy/pkg/viewport"
)

// Settings are the resolved values after defaults, file and flags.
type Settings struct {
	PenaltyMs       int
	LongPressMs     int
	DragThresholdPx float64
	CountdownFrom   int
	CountdownStepMs int
	GoMs            int
	CorrectDelayMs  int
	TransitionMs    int
	HintMs          int

	DesktopBreakpointPx float64
	DefaultZoom         float64

	MaxScores int
	DBPath    string

	LogLevel string

	WindowWidth  int
	WindowHeight int

	LevelsDir string
}

func Defaults() Settings {
	d := session.DefaultConfig()
	return Settings{
		PenaltyMs:           int(d.Penalty.Milliseconds()),
		LongPressMs:         int(d.LongPress.Milliseconds()),
		DragThresholdPx:     d.DragThreshold,
		CountdownFrom:       d.CountdownFrom,
		CountdownStepMs:     int(d.CountdownStep.Milliseconds()),
		GoMs:                int(d.GoDuration.Milliseconds()),
		CorrectDelayMs:      int(d.CorrectDelay.Milliseconds()),
		TransitionMs:        int(d.Transition.Milliseconds()),
		HintMs:              int(d.HintDuration.Milliseconds()),
		DesktopBreakpointPx: d.Viewport.DesktopBreakpoint,
		DefaultZoom:         d.Viewport.DefaultZoom,
		MaxScores:           5,
		DBPath:              DefaultDBPath(),
		LogLevel:            "info",
		WindowWidth:         1024,
		WindowHeight:        768,
		LevelsDir:           "levels",
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Apply overlays the values present in the file.
func (fc FileConfig) Apply(s *Settings) {
	setInt(&s.PenaltyMs, fc.Game.PenaltyMs)
	setInt(&s.LongPressMs, fc.Game.LongPressMs)
	setFloat(&s.DragThresholdPx, fc.Game.DragThresholdPx)
	setInt(&s.CountdownFrom, fc.Game.CountdownFrom)
	setInt(&s.CountdownStepMs, fc.Game.CountdownStepMs)
	setInt(&s.GoMs, fc.Game.GoMs)
	setInt(&s.CorrectDelayMs, fc.Game.CorrectDelayMs)
	setInt(&s.TransitionMs, fc.Game.TransitionMs)
	setInt(&s.HintMs, fc.Game.HintMs)
	setFloat(&s.DesktopBreakpointPx, fc.Viewport.DesktopBreakpointPx)
	setFloat(&s.DefaultZoom, fc.Viewport.DefaultZoom)
	setInt(&s.MaxScores, fc.Leaderboard.MaxScores)
	setString(&s.DBPath, fc.Leaderboard.DBPath)
	setString(&s.LogLevel, fc.Log.Level)
	setInt(&s.WindowWidth, fc.Window.Width)
	setInt(&s.WindowHeight, fc.Window.Height)
	setString(&s.LevelsDir, fc.Levels.Dir)
}

func (s Settings) Validate() error {
	nonNegative := map[string]int{
		"penalty_ms":        s.PenaltyMs,
		"long_press_ms":     s.LongPressMs,
		"countdown_from":    s.CountdownFrom,
		"countdown_step_ms": s.CountdownStepMs,
		"go_ms":             s.GoMs,
		"correct_delay_ms":  s.CorrectDelayMs,
		"transition_ms":     s.TransitionMs,
		"hint_ms":           s.HintMs,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	switch {
	case s.DragThresholdPx < 0:
		return fmt.Errorf("drag_threshold_px must not be negative")
	case s.DefaultZoom <= 0:
		return fmt.Errorf("default_zoom must be greater than 0")
	case s.DesktopBreakpointPx < 0:
		return fmt.Errorf("desktop_breakpoint_px must not be negative")
	case s.MaxScores <= 0:
		return fmt.Errorf("max_scores must be greater than 0")
	case s.WindowWidth <= 0 || s.WindowHeight <= 0:
		return fmt.Errorf("window size must be positive, got %dx%d", s.WindowWidth, s.WindowHeight)
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// SessionConfig converts the gameplay part of the settings.
func (s Settings) SessionConfig() session.Config {
	return session.Config{
		Penalty:       ms(s.PenaltyMs),
		LongPress:     ms(s.LongPressMs),
		DragThreshold: s.DragThresholdPx,
		CountdownFrom: s.CountdownFrom,
		CountdownStep: ms(s.CountdownStepMs),
		GoDuration:    ms(s.GoMs),
		CorrectDelay:  ms(s.CorrectDelayMs),
		Transition:    ms(s.TransitionMs),
		HintDuration:  ms(s.HintMs),
		Viewport: viewport.Policy{
			DesktopBreakpoint: s.DesktopBreakpointPx,
			DefaultZoom:       s.DefaultZoom,
		},
	}
}

// DefaultTemplate is written by `ispy config` when no file exists yet.
func DefaultTemplate() string {
	d := Defaults()
	return fmt.Sprintf(`# ispy configuration

[game]
# penalty_ms = %d
# long_press_ms = %d
# drag_threshold_px = %g
# countdown_from = %d
# countdown_step_ms = %d
# go_ms = %d
# correct_delay_ms = %d
# transition_ms = %d
# hint_ms = %d

[viewport]
# desktop_breakpoint_px = %g
# default_zoom = %g

[leaderboard]
# max_scores = %d
# db_path = "%s"

[log]
# level = "%s"

[window]
# width = %d
# height = %d

[levels]
# dir = "%s"
`,
		d.PenaltyMs, d.LongPressMs, d.DragThresholdPx, d.CountdownFrom, d.CountdownStepMs,
		d.GoMs, d.CorrectDelayMs, d.TransitionMs, d.HintMs,
		d.DesktopBreakpointPx, d.DefaultZoom,
		d.MaxScores, d.DBPath,
		d.LogLevel,
		d.WindowWidth, d.WindowHeight,
		d.LevelsDir)
}
