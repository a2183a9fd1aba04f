package sound

import (
	"encoding/binary"
	"math"
	"testing"
	"time"
)

func TestTone(t *testing.T) {
	sw := sweep{from: 440, to: 440, length: 100 * time.Millisecond, volume: 0.5}
	pcm := tone(SampleRate, sw)

	wantSamples := SampleRate / 10
	if len(pcm) != wantSamples*4 {
		t.Fatalf("len = %d bytes, want %d", len(pcm), wantSamples*4)
	}

	sample := func(i int) (l, r int16) {
		return int16(binary.LittleEndian.Uint16(pcm[i*4:])), int16(binary.LittleEndian.Uint16(pcm[i*4+2:]))
	}

	if l, r := sample(0); l != 0 || r != 0 {
		t.Errorf("first sample = (%d, %d), want silence", l, r)
	}

	var peak int16
	for i := 0; i < wantSamples; i++ {
		l, r := sample(i)
		if l != r {
			t.Fatalf("sample %d: channels differ (%d, %d)", i, l, r)
		}
		if l > peak {
			peak = l
		}
	}
	limit := math.MaxInt16 / 2
	if int(peak) > limit || int(peak) < limit*9/10 {
		t.Errorf("peak = %d, want just under %d", peak, limit)
	}
}

func TestEffectsDefined(t *testing.T) {
	for _, e := range []Effect{EffectJump, EffectScore, EffectHit} {
		sw, ok := effects[e]
		if !ok {
			t.Errorf("%v has no tone", e)
			continue
		}
		if sw.length <= 0 || sw.volume <= 0 || sw.volume > 1 {
			t.Errorf("%v sweep = %+v", e, sw)
		}
	}
}

func TestNilPlayerIsSilent(t *testing.T) {
	var p *Player
	p.Play(EffectJump)
}
