package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

const scriptName = "mediapipe_service.py"

// ErrScriptNotFound is returned when the helper script cannot be located.
var ErrScriptNotFound = errors.New(scriptName + " not found")

// MediaPipe runs hand detection in a Python helper process. Frames go to the
// helper's stdin as a 4-byte big-endian length followed by JPEG bytes, and
// each frame gets one JSON line back on stdout.
type MediaPipe struct {
	cfg    Config
	script string
	python string

	mu        sync.Mutex
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	started   bool
	idleTimer *time.Timer
	idleGen   uint64
}

// NewMediaPipe locates the helper script and interpreter. The process itself
// starts on the first Detect.
func NewMediaPipe(cfg Config) (*MediaPipe, error) {
	script := cfg.Script
	if script == "" {
		script = firstExisting(scriptCandidates())
	}
	if script == "" {
		return nil, ErrScriptNotFound
	}
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScriptNotFound, err)
	}

	python := cfg.Python
	if python == "" {
		python = firstExisting(pythonCandidates())
	}
	if python == "" {
		python = "python3"
	}

	return &MediaPipe{cfg: cfg, script: script, python: python}, nil
}

func (m *MediaPipe) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if frame == nil || frame.Empty() {
		return nil, errors.New("detect: empty frame")
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.start(); err != nil {
		return nil, err
	}

	if err := writeFrame(m.stdin, buf.GetBytes()); err != nil {
		m.stop()
		return nil, err
	}
	hands, err := readHands(m.stdout)
	if err != nil {
		m.stop()
		return nil, err
	}

	m.touch()
	return hands, nil
}

// Close stops the helper process if it is running.
func (m *MediaPipe) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop()
}

func (m *MediaPipe) args() []string {
	return []string{
		m.script,
		"--max-hands", strconv.Itoa(m.cfg.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(m.cfg.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(m.cfg.MinTrackingConfidence, 'f', -1, 64),
	}
}

func (m *MediaPipe) start() error {
	if m.started {
		return nil
	}

	cmd := exec.Command(m.python, m.args()...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", scriptName, err)
	}

	m.cmd = cmd
	m.stdin = stdin
	m.stdout = bufio.NewReader(stdout)
	m.started = true
	log.Printf("detector: started %s (pid %d)", scriptName, cmd.Process.Pid)
	return nil
}

func (m *MediaPipe) stop() error {
	if !m.started {
		return nil
	}
	if m.idleTimer != nil {
		m.idleTimer.Stop()
		m.idleTimer = nil
	}

	m.stdin.Close()
	err := m.cmd.Wait()

	m.cmd = nil
	m.stdin = nil
	m.stdout = nil
	m.started = false
	return err
}

// touch pushes the idle shutdown back. Called with mu held.
func (m *MediaPipe) touch() {
	if m.cfg.IdleTimeout <= 0 {
		return
	}
	if m.idleTimer != nil && m.idleTimer.Stop() {
		m.idleTimer.Reset(m.cfg.IdleTimeout)
		return
	}

	// A timer that already fired may have its callback blocked on mu. Bumping
	// the generation turns that callback into a no-op.
	m.idleGen++
	gen := m.idleGen
	m.idleTimer = time.AfterFunc(m.cfg.IdleTimeout, func() { m.idleExpired(gen) })
}

func (m *MediaPipe) idleExpired(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.idleGen || m.idleTimer == nil {
		return
	}
	m.idleTimer = nil
	if err := m.stop(); err != nil {
		log.Printf("detector: idle shutdown: %v", err)
	}
}

func writeFrame(w io.Writer, jpeg []byte) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(jpeg)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	if _, err := w.Write(jpeg); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

type serviceResponse struct {
	Hands []serviceHand `json:"hands"`
	Error string        `json:"error,omitempty"`
}

type serviceHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

func readHands(r *bufio.Reader) ([]HandLandmarks, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp serviceResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%s: %s", scriptName, resp.Error)
	}

	hands := make([]HandLandmarks, 0, len(resp.Hands))
	for _, h := range resp.Hands {
		if len(h.Points) != NumLandmarks {
			return nil, fmt.Errorf("parse response: hand has %d landmarks, want %d", len(h.Points), NumLandmarks)
		}
		lm := HandLandmarks{Handedness: h.Handedness, Score: h.Score}
		copy(lm.Points[:], h.Points)
		hands = append(hands, lm)
	}
	return hands, nil
}

func scriptCandidates() []string {
	paths := []string{
		filepath.Join("scripts", scriptName),
		filepath.Join("..", "scripts", scriptName),
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), "scripts", scriptName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".flaphand", "scripts", scriptName))
	}
	return paths
}

func pythonCandidates() []string {
	paths := []string{
		filepath.Join("venv", "bin", "python"),
		filepath.Join("..", "venv", "bin", "python"),
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".flaphand", "venv", "bin", "python"))
	}
	return paths
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	return ""
}
