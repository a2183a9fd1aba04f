package gesture

import (
	"fmt"

	"github.com/ayusman/flaphand/internal/detector"
	"github.com/ayusman/flaphand/internal/game"
)

// Pair names the two fingertips a Classifier compares.
type Pair string

const (
	PairThumbIndex  Pair = "thumb-index"
	PairMiddleIndex Pair = "middle-index"
)

// Hint tells the player which pose flies with this pair.
func (p Pair) Hint() string {
	switch p {
	case PairMiddleIndex:
		return "Index finger above middle finger to fly"
	default:
		return "Index finger above thumb to fly"
	}
}

// Classifier compares the height of two fingertips. With the reference tip
// (thumb or middle) lower in the image than the index tip by more than the
// dead zone, the hand points up.
type Classifier struct {
	reference int
	deadZone  float64
}

// NewClassifier validates pair and deadZone. deadZone is in normalized image
// units.
func NewClassifier(pair Pair, deadZone float64) (Classifier, error) {
	if deadZone < 0 || deadZone >= 1 {
		return Classifier{}, fmt.Errorf("dead zone %v out of range [0, 1)", deadZone)
	}
	switch pair {
	case PairThumbIndex, "":
		return Classifier{reference: detector.ThumbTip, deadZone: deadZone}, nil
	case PairMiddleIndex:
		return Classifier{reference: detector.MiddleTip, deadZone: deadZone}, nil
	default:
		return Classifier{}, fmt.Errorf("unknown landmark pair %q", pair)
	}
}

// Classify returns the signal for one hand.
func (c Classifier) Classify(hand detector.HandLandmarks) game.Signal {
	ref := hand.Points[c.reference].Y
	index := hand.Points[detector.IndexTip].Y

	switch {
	case ref-index > c.deadZone:
		return game.SignalUp
	case index-ref > c.deadZone:
		return game.SignalDown
	default:
		return game.SignalNone
	}
}

// ClassifyHands classifies the best scoring hand. No hand is SignalNone.
func (c Classifier) ClassifyHands(hands []detector.HandLandmarks) game.Signal {
	hand, ok := detector.Best(hands)
	if !ok {
		return game.SignalNone
	}
	return c.Classify(hand)
}
