package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector returns preset results.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	err    error
	calls  int
	closed bool
}

func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the result of later Detect calls.
func (m *MockDetector) SetHands(hands ...HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
	m.err = nil
}

// SetError makes later Detect calls fail with err.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return append([]HandLandmarks(nil), m.hands...), nil
}

func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Calls reports how many times Detect ran.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// HandWithTips returns a right hand centred in the frame with the thumb and
// index tips at the given heights. The other fingers are curled.
func HandWithTips(thumbY, indexY float64) HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.9}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.76}
	h.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.70}
	h.Points[ThumbIP] = Point3D{X: 0.62, Y: (0.70 + thumbY) / 2}
	h.Points[ThumbTip] = Point3D{X: 0.63, Y: thumbY}

	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.66}
	h.Points[IndexPIP] = Point3D{X: 0.56, Y: (0.66 + indexY) / 2}
	h.Points[IndexDIP] = Point3D{X: 0.56, Y: (0.66 + 3*indexY) / 4}
	h.Points[IndexTip] = Point3D{X: 0.56, Y: indexY}

	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.65, Z: -0.02}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.62, Z: -0.05}
	h.Points[MiddleDIP] = Point3D{X: 0.49, Y: 0.66, Z: -0.04}
	h.Points[MiddleTip] = Point3D{X: 0.48, Y: 0.69, Z: -0.02}

	h.Points[RingMCP] = Point3D{X: 0.45, Y: 0.67, Z: -0.02}
	h.Points[RingPIP] = Point3D{X: 0.45, Y: 0.64, Z: -0.05}
	h.Points[RingDIP] = Point3D{X: 0.44, Y: 0.68, Z: -0.04}
	h.Points[RingTip] = Point3D{X: 0.43, Y: 0.71, Z: -0.02}

	h.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: -0.02}
	h.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.67, Z: -0.05}
	h.Points[PinkyDIP] = Point3D{X: 0.39, Y: 0.71, Z: -0.04}
	h.Points[PinkyTip] = Point3D{X: 0.38, Y: 0.73, Z: -0.02}

	return h
}

// IndexAboveThumb is a pointing pose: index tip well above the thumb tip.
func IndexAboveThumb() HandLandmarks { return HandWithTips(0.55, 0.30) }

// ThumbAboveIndex is the inverted pose: thumb tip well above the index tip.
func ThumbAboveIndex() HandLandmarks { return HandWithTips(0.35, 0.60) }

// TipsLevel holds both tips at the same height.
func TipsLevel() HandLandmarks { return HandWithTips(0.50, 0.50) }
