package session

import (
	"time"

	"github.com/bee-mcc/ispy/pkg/viewport"
)

// Config holds the gameplay tuning. The zero value is not useful; start from
// DefaultConfig.
type Config struct {
	Penalty       time.Duration // added per wrong click
	LongPress     time.Duration // held press that counts as a click
	DragThreshold float64       // pixels from the press point before a press becomes a pan

	CountdownFrom int
	CountdownStep time.Duration
	GoDuration    time.Duration

	CorrectDelay time.Duration // celebration before the fade starts
	Transition   time.Duration // fade between levels
	HintDuration time.Duration // how long the instructions stay up

	Viewport viewport.Policy
}

func DefaultConfig() Config {
	return Config{
		Penalty:       5 * time.Second,
		LongPress:     500 * time.Millisecond,
		DragThreshold: 10,
		CountdownFrom: 3,
		CountdownStep: time.Second,
		GoDuration:    800 * time.Millisecond,
		CorrectDelay:  time.Second,
		Transition:    800 * time.Millisecond,
		HintDuration:  3500 * time.Millisecond,
		Viewport:      viewport.DefaultPolicy(),
	}
}
