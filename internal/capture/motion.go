package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	blurKernel     = 21
	pixelDiffLevel = 25
)

// MotionGate reports whether a frame differs enough from the previous one to be
// worth running hand detection on. A hand held still produces the same signal,
// so the caller may reuse its last result when Changed reports false.
type MotionGate struct {
	mu        sync.Mutex
	percent   float64
	baseline  gocv.Mat
	hasPrev   bool
	evaluated int
	skipped   int
}

// NewMotionGate returns a gate that opens when more than percent of the
// pixels changed. A percent <= 0 opens on every frame.
func NewMotionGate(percent float64) *MotionGate {
	return &MotionGate{
		percent:  percent,
		baseline: gocv.NewMat(),
	}
}

// Changed compares frame against the previous frame and stores it as the new
// baseline. The first frame always counts as changed. A nil or empty frame
// returns ErrEmptyFrame and leaves the baseline alone.
func (g *MotionGate) Changed(frame *gocv.Mat) (bool, float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0, ErrEmptyFrame
	}
	g.evaluated++

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernel, Y: blurKernel}, 0, 0, gocv.BorderDefault)

	if !g.hasPrev || g.baseline.Rows() != blurred.Rows() || g.baseline.Cols() != blurred.Cols() {
		blurred.CopyTo(&g.baseline)
		g.hasPrev = true
		return true, 100, nil
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.baseline, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, pixelDiffLevel, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(mask)) / float64(mask.Rows()*mask.Cols()) * 100
	blurred.CopyTo(&g.baseline)

	if g.percent > 0 && changed <= g.percent {
		g.skipped++
		return false, changed, nil
	}
	return true, changed, nil
}

// Stats returns how many frames were evaluated and how many were skipped.
func (g *MotionGate) Stats() (evaluated, skipped int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.evaluated, g.skipped
}

// Reset forgets the baseline so the next frame counts as changed.
func (g *MotionGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hasPrev = false
}

func (g *MotionGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.baseline.Close()
	g.baseline = gocv.NewMat()
	g.hasPrev = false
}
