package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// Detector finds hands in a frame.
type Detector interface {
	// Detect returns the hands found in frame, best first. No hands is an empty
	// slice and a nil error.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)
	Close() error
}

// Config configures the MediaPipe helper.
type Config struct {
	MaxHands              int
	MinConfidence         float64
	MinTrackingConfidence float64

	// IdleTimeout stops the helper after this long without a Detect call.
	// Zero keeps it running until Close.
	IdleTimeout time.Duration

	// Script and Python override the lookup of the helper script and interpreter.
	Script string
	Python string
}

// DefaultConfig tracks a single hand, which is all the game reads.
func DefaultConfig() Config {
	return Config{
		MaxHands:              1,
		MinConfidence:         0.5,
		MinTrackingConfidence: 0.5,
		IdleTimeout:           30 * time.Second,
	}
}
