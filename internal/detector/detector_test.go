package detector

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBest(t *testing.T) {
	if _, ok := Best(nil); ok {
		t.Error("Best(nil) reported a hand")
	}

	a := TipsLevel()
	a.Score = 0.6
	b := IndexAboveThumb()
	b.Score = 0.95
	c := ThumbAboveIndex()
	c.Score = 0.7

	got, ok := Best([]HandLandmarks{a, b, c})
	if !ok {
		t.Fatal("Best() reported no hand")
	}
	if got.Score != 0.95 {
		t.Errorf("Best() score = %v, want 0.95", got.Score)
	}
}

func TestFixtures(t *testing.T) {
	tests := []struct {
		name     string
		hand     HandLandmarks
		thumbLow bool
		indexLow bool
	}{
		{name: "index above thumb", hand: IndexAboveThumb(), thumbLow: true},
		{name: "thumb above index", hand: ThumbAboveIndex(), indexLow: true},
		{name: "level", hand: TipsLevel()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumb := tt.hand.Points[ThumbTip].Y
			index := tt.hand.Points[IndexTip].Y
			if got := thumb > index; got != tt.thumbLow {
				t.Errorf("thumb (%v) below index (%v) = %v, want %v", thumb, index, got, tt.thumbLow)
			}
			if got := index > thumb; got != tt.indexLow {
				t.Errorf("index (%v) below thumb (%v) = %v, want %v", index, thumb, got, tt.indexLow)
			}
			for i, p := range tt.hand.Points {
				if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
					t.Errorf("point %d = %+v outside the unit square", i, p)
				}
			}
		})
	}
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xff, 0xd8, 0x01, 0x02, 0xff, 0xd9}

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("writeFrame() error = %v", err)
	}

	out := buf.Bytes()
	if len(out) != 4+len(payload) {
		t.Fatalf("wrote %d bytes, want %d", len(out), 4+len(payload))
	}
	if n := binary.BigEndian.Uint32(out[:4]); n != uint32(len(payload)) {
		t.Errorf("length header = %d, want %d", n, len(payload))
	}
	if !bytes.Equal(out[4:], payload) {
		t.Errorf("payload = %x, want %x", out[4:], payload)
	}
}

func handJSON() string {
	point := `{"x":0.5,"y":0.25,"z":0}`
	points := strings.TrimSuffix(strings.Repeat(point+",", NumLandmarks), ",")
	return `{"handedness":"Left","score":0.9,"points":[` + points + `]}`
}

func TestReadHands(t *testing.T) {
	fullHand := handJSON()
	tests := []struct {
		name      string
		line      string
		wantHands int
		wantErr   bool
	}{
		{name: "no hands", line: `{"hands":[]}`, wantHands: 0},
		{name: "one hand", line: `{"hands":[` + fullHand + `]}`, wantHands: 1},
		{name: "two hands", line: `{"hands":[` + fullHand + `,` + fullHand + `]}`, wantHands: 2},
		{name: "service error", line: `{"hands":[],"error":"decode failed"}`, wantErr: true},
		{name: "short hand", line: `{"hands":[{"points":[{"x":0,"y":0,"z":0}]}]}`, wantErr: true},
		{name: "garbage", line: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bufio.NewReader(strings.NewReader(tt.line + "\n"))
			hands, err := readHands(r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("readHands() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(hands) != tt.wantHands {
				t.Errorf("got %d hands, want %d", len(hands), tt.wantHands)
			}
		})
	}
}

func TestReadHands_Values(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(`{"hands":[` + handJSON() + `]}` + "\n"))
	hands, err := readHands(r)
	if err != nil {
		t.Fatalf("readHands() error = %v", err)
	}
	h := hands[0]
	if h.Handedness != "Left" || h.Score != 0.9 {
		t.Errorf("hand = %s/%v, want Left/0.9", h.Handedness, h.Score)
	}
	if h.Points[IndexTip] != (Point3D{X: 0.5, Y: 0.25}) {
		t.Errorf("index tip = %+v", h.Points[IndexTip])
	}
}

func TestNewMediaPipe_MissingScript(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Script = filepath.Join(t.TempDir(), "missing.py")

	if _, err := NewMediaPipe(cfg); !errors.Is(err, ErrScriptNotFound) {
		t.Errorf("NewMediaPipe() error = %v, want ErrScriptNotFound", err)
	}
}

func TestMediaPipe_Args(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Script = filepath.Join(t.TempDir(), scriptName)
	if err := os.WriteFile(cfg.Script, []byte("# helper\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Python = "/usr/bin/python3"
	cfg.MinConfidence = 0.7

	m, err := NewMediaPipe(cfg)
	if err != nil {
		t.Fatalf("NewMediaPipe() error = %v", err)
	}
	defer m.Close()

	want := []string{cfg.Script, "--max-hands", "1", "--min-detection-confidence", "0.7", "--min-tracking-confidence", "0.5"}
	if got := m.args(); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("args() = %v, want %v", got, want)
	}
}

func TestMediaPipe_IdleTimer(t *testing.T) {
	t.Run("reset while pending", func(t *testing.T) {
		m := &MediaPipe{cfg: Config{IdleTimeout: time.Hour}}
		m.mu.Lock()
		defer m.mu.Unlock()

		m.touch()
		first := m.idleTimer
		m.touch()
		if m.idleTimer != first || m.idleGen != 1 {
			t.Errorf("pending timer replaced instead of reset (gen %d)", m.idleGen)
		}
		m.idleTimer.Stop()
	})

	t.Run("expires", func(t *testing.T) {
		m := &MediaPipe{cfg: Config{IdleTimeout: time.Millisecond}}
		m.mu.Lock()
		m.touch()
		m.mu.Unlock()

		deadline := time.Now().Add(time.Second)
		for {
			m.mu.Lock()
			done := m.idleTimer == nil
			m.mu.Unlock()
			if done {
				return
			}
			if time.Now().After(deadline) {
				t.Fatal("idle timer never fired")
			}
			time.Sleep(5 * time.Millisecond)
		}
	})

	t.Run("late callback after a detect", func(t *testing.T) {
		m := &MediaPipe{cfg: Config{IdleTimeout: time.Millisecond}}

		// Holding mu stands in for a Detect in progress while the timer fires.
		m.mu.Lock()
		m.touch()
		time.Sleep(20 * time.Millisecond)
		m.cfg.IdleTimeout = time.Hour
		m.touch()
		m.mu.Unlock()

		// The stale callback gets mu now and must leave the new timer alone.
		time.Sleep(20 * time.Millisecond)
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.idleTimer == nil {
			t.Fatal("stale idle callback cleared the timer armed by the last detect")
		}
		if m.idleGen != 2 {
			t.Errorf("idleGen = %d, want 2", m.idleGen)
		}
		m.idleTimer.Stop()
	})
}

func TestMockDetector(t *testing.T) {
	m := NewMockDetector()
	m.SetHands(IndexAboveThumb())

	hands, err := m.Detect(nil)
	if err != nil || len(hands) != 1 {
		t.Fatalf("Detect() = %d hands, %v", len(hands), err)
	}

	boom := errors.New("boom")
	m.SetError(boom)
	if _, err := m.Detect(nil); !errors.Is(err, boom) {
		t.Errorf("Detect() error = %v, want boom", err)
	}
	if m.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", m.Calls())
	}

	m.Close()
	if !m.Closed() {
		t.Error("Closed() = false after Close")
	}
}
