package game

import "time"

// Tracker keeps the score, the stage, and the highest score seen by this process.
type Tracker struct {
	Score   int
	Highest int
	Stage   int
	// StageStartedAt is when the current stage began.
	StageStartedAt time.Time

	// scoring is set while the bird sits inside a pair's horizontal span.
	scoring bool
}

// NewTracker starts a run at stage 1 with a zero score, carrying over highest.
func NewTracker(highest int, now time.Time) Tracker {
	return Tracker{
		Highest:        highest,
		Stage:          1,
		StageStartedAt: now,
	}
}

// ObserveCrossing scores a pair the first tick the bird's x enters its span
// [X, X+W]. Staying inside the span does not score again; the trigger re-arms only
// once the bird is inside no span at all.
func (t *Tracker) ObserveCrossing(birdX float64, pairs []PipePair) bool {
	inside := false
	for _, p := range pairs {
		if p.X() <= birdX && birdX <= p.Right() {
			inside = true
			break
		}
	}

	if !inside {
		t.scoring = false
		return false
	}
	if t.scoring {
		return false
	}
	t.scoring = true
	t.Score++
	return true
}

// AdvanceStage raises the stage once per full interval elapsed since the current
// stage began and returns how many stages were added.
func (t *Tracker) AdvanceStage(now time.Time, interval time.Duration) int {
	if interval <= 0 {
		return 0
	}
	added := 0
	for now.Sub(t.StageStartedAt) >= interval {
		t.Stage++
		t.StageStartedAt = t.StageStartedAt.Add(interval)
		added++
	}
	return added
}

// Finalize records the score against the highest score and clears it. It returns
// the score the run ended with.
func (t *Tracker) Finalize() int {
	final := t.Score
	if final > t.Highest {
		t.Highest = final
	}
	t.Score = 0
	t.scoring = false
	return final
}
