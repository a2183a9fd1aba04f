// Package sound plays the game's effects, synthesised at startup.
package sound

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SampleRate is used for the audio context and the synthesised effects.
const SampleRate = 48000

// Effect names a sound.
type Effect int

const (
	EffectJump Effect = iota
	EffectScore
	EffectHit
)

type sweep struct {
	from, to float64 // Hz, swept linearly
	length   time.Duration
	volume   float64
}

var effects = map[Effect]sweep{
	EffectJump:  {from: 420, to: 780, length: 90 * time.Millisecond, volume: 0.25},
	EffectScore: {from: 880, to: 1320, length: 120 * time.Millisecond, volume: 0.2},
	EffectHit:   {from: 220, to: 70, length: 300 * time.Millisecond, volume: 0.35},
}

// Player owns one audio player per effect.
type Player struct {
	players map[Effect]*audio.Player
	muted   bool
}

// New creates the audio context. Only one context may exist per process.
func New(muted bool) *Player {
	ctx := audio.NewContext(SampleRate)

	p := &Player{players: make(map[Effect]*audio.Player, len(effects)), muted: muted}
	for e, sw := range effects {
		p.players[e] = ctx.NewPlayerFromBytes(tone(SampleRate, sw))
	}
	return p
}

// Play restarts the effect from the beginning.
func (p *Player) Play(e Effect) {
	if p == nil || p.muted {
		return
	}
	pl, ok := p.players[e]
	if !ok {
		return
	}
	if err := pl.SetPosition(0); err != nil {
		return
	}
	pl.Play()
}

func (p *Player) SetMuted(m bool) {
	p.muted = m
}

func (p *Player) Muted() bool {
	return p.muted
}

func (e Effect) String() string {
	switch e {
	case EffectJump:
		return "jump"
	case EffectScore:
		return "score"
	case EffectHit:
		return "hit"
	default:
		return fmt.Sprintf("effect(%d)", int(e))
	}
}

// tone renders a frequency sweep as 16-bit little-endian stereo PCM with a
// short linear fade at both ends to avoid clicks.
func tone(rate int, sw sweep) []byte {
	n := int(sw.length.Seconds() * float64(rate))
	fade := rate / 200 // 5 ms
	out := make([]byte, n*4)

	phase := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		freq := sw.from + (sw.to-sw.from)*t
		phase += 2 * math.Pi * freq / float64(rate)

		gain := sw.volume
		if i < fade {
			gain *= float64(i) / float64(fade)
		} else if n-i < fade {
			gain *= float64(n-i) / float64(fade)
		}

		v := int16(math.Sin(phase) * gain * math.MaxInt16)
		binary.LittleEndian.PutUint16(out[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(v))
	}
	return out
}
