package gesture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/flaphand/internal/capture"
	"github.com/ayusman/flaphand/internal/detector"
	"github.com/ayusman/flaphand/internal/game"
)

// ErrNoFrame is returned by LatestJPEG before the first frame arrives.
var ErrNoFrame = errors.New("no frame captured yet")

const errorLogInterval = time.Second

// HandSource reads a frame per Poll, finds the hand and classifies it.
// It also keeps the latest frame for the on-screen preview and the MJPEG stream.
type HandSource struct {
	camera     capture.Camera
	detector   detector.Detector
	classifier Classifier
	gate       *capture.MotionGate
	mirror     bool

	last         game.Signal
	lastErrLog   time.Time
	detectErrors int
	gateErrors   int

	mu     sync.Mutex
	latest gocv.Mat
	seq    uint64
}

// NewHandSource opens nothing; the camera must already be open. gate may be nil.
func NewHandSource(cam capture.Camera, det detector.Detector, cls Classifier, gate *capture.MotionGate) *HandSource {
	return &HandSource{
		camera:     cam,
		detector:   det,
		classifier: cls,
		gate:       gate,
		mirror:     true,
		latest:     gocv.NewMat(),
	}
}

// SetMirror flips preview and stream images horizontally so the player sees
// themselves as in a mirror.
func (h *HandSource) SetMirror(on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mirror = on
}

// Poll reads one frame and classifies it. A failed read returns ErrFrameDropped
// wrapping the camera error. A failed detection is logged and yields SignalNone.
// When the motion gate cannot judge a frame, detection runs anyway.
func (h *HandSource) Poll(ctx context.Context) (game.Signal, error) {
	if err := ctx.Err(); err != nil {
		return game.SignalNone, err
	}

	frame, err := h.camera.ReadFrame()
	if err != nil {
		return game.SignalNone, fmt.Errorf("%w: %w", ErrFrameDropped, err)
	}
	defer frame.Close()

	h.keep(frame)

	if h.gate != nil {
		changed, _, err := h.gate.Changed(frame)
		switch {
		case err != nil:
			h.gateErrors++
			h.logLimited("gesture: motion gate failed (%d so far), detecting anyway: %v", h.gateErrors, err)
		case !changed:
			return h.last, nil
		}
	}

	hands, err := h.detector.Detect(frame)
	if err != nil {
		h.detectErrors++
		h.logLimited("gesture: detect failed (%d so far): %v", h.detectErrors, err)
		h.last = game.SignalNone
		return game.SignalNone, nil
	}

	h.last = h.classifier.ClassifyHands(hands)
	return h.last, nil
}

// logLimited logs at most once per errorLogInterval.
func (h *HandSource) logLimited(format string, args ...any) {
	now := time.Now()
	if now.Sub(h.lastErrLog) < errorLogInterval {
		return
	}
	log.Printf(format, args...)
	h.lastErrLog = now
}

func (h *HandSource) keep(frame *gocv.Mat) {
	h.mu.Lock()
	defer h.mu.Unlock()
	frame.CopyTo(&h.latest)
	h.seq++
}

// Seq counts frames read so far. Consumers use it to skip unchanged frames.
func (h *HandSource) Seq() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq
}

// Preview returns the latest frame as an image, or nil before the first frame.
func (h *HandSource) Preview() image.Image {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.latest.Empty() {
		return nil
	}
	view := h.view()
	defer view.Close()

	img, err := view.ToImage()
	if err != nil {
		log.Printf("gesture: preview: %v", err)
		return nil
	}
	return img
}

// LatestJPEG encodes the latest frame.
func (h *HandSource) LatestJPEG() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.latest.Empty() {
		return nil, ErrNoFrame
	}
	view := h.view()
	defer view.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, view)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases native memory released by Close.
	return append([]byte(nil), buf.GetBytes()...), nil
}

// view returns a copy of the latest frame, mirrored if enabled. Callers hold mu.
func (h *HandSource) view() gocv.Mat {
	out := gocv.NewMat()
	if h.mirror {
		gocv.Flip(h.latest, &out, 1)
	} else {
		h.latest.CopyTo(&out)
	}
	return out
}

// Close releases the camera, the detector and the motion gate.
func (h *HandSource) Close() error {
	var errs []error
	if err := h.detector.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close detector: %w", err))
	}
	if err := h.camera.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close camera: %w", err))
	}
	if h.gate != nil {
		h.gate.Close()
	}

	h.mu.Lock()
	h.latest.Close()
	h.latest = gocv.NewMat()
	h.mu.Unlock()

	return errors.Join(errs...)
}
