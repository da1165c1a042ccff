package game

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/bee-mcc/ispy/internal/log"
)

const sampleRate = 44100

// beep synthesizes a decaying sine tone as 16-bit little-endian stereo PCM,
// the format audio players read from raw bytes.
func beep(freq float64, d time.Duration, rate int) []byte {
	n := int(d.Seconds() * float64(rate))
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(rate)
		v := int16(math.Sin(2*math.Pi*freq*t) * math.Exp(-3*t) * 6000)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(v))
	}
	return buf
}

type sound int

const (
	soundCorrect sound = iota
	soundWrong
	soundTick
	soundGo
)

type sounds struct {
	ctx     *audio.Context
	players map[sound]*audio.Player
	muted   bool
	log     *log.Logger
}

// newSounds builds the players. audio.NewContext may only be called once
// per process.
func newSounds(muted bool, logger *log.Logger) *sounds {
	s := &sounds{
		ctx:     audio.NewContext(sampleRate),
		players: make(map[sound]*audio.Player),
		muted:   muted,
		log:     logger,
	}
	tones := map[sound][]byte{
		soundCorrect: append(beep(660, 120*time.Millisecond, sampleRate), beep(990, 250*time.Millisecond, sampleRate)...),
		soundWrong:   beep(160, 300*time.Millisecond, sampleRate),
		soundTick:    beep(440, 150*time.Millisecond, sampleRate),
		soundGo:      beep(880, 400*time.Millisecond, sampleRate),
	}
	for k, pcm := range tones {
		s.players[k] = s.ctx.NewPlayerFromBytes(pcm)
	}
	return s
}

func (s *sounds) play(k sound) {
	if s == nil || s.muted {
		return
	}
	p, ok := s.players[k]
	if !ok {
		return
	}
	if err := p.Rewind(); err != nil {
		s.log.Warnf("sound rewind: %v", err)
		return
	}
	p.Play()
}

func (s *sounds) toggleMute() bool {
	s.muted = !s.muted
	return s.muted
}
