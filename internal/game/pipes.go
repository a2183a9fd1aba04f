package game

import (
	"math"
	"slices"
)

// Rand is the random source used to pick pipe heights. *rand.Rand from
// math/rand/v2 satisfies it; seed it for reproducible runs.
type Rand interface {
	IntN(n int) int
}

// PipePair is one top and one bottom pipe sharing an x-coordinate, separated by the
// configured gap.
type PipePair struct {
	Top    Rect
	Bottom Rect
}

// NewPipePair builds a pair at x whose top pipe is topHeight tall.
func NewPipePair(x, topHeight float64, cfg Config) PipePair {
	bottomY := topHeight + cfg.PipeGap
	return PipePair{
		Top:    Rect{X: x, Y: 0, W: cfg.PipeWidth, H: topHeight},
		Bottom: Rect{X: x, Y: bottomY, W: cfg.PipeWidth, H: cfg.ScreenHeight - bottomY},
	}
}

// X returns the leading (left) edge of the pair.
func (p PipePair) X() float64 {
	return p.Top.X
}

// Right returns the trailing (right) edge of the pair.
func (p PipePair) Right() float64 {
	return p.Top.Right()
}

// Gap returns the vertical opening between the two pipes.
func (p PipePair) Gap() float64 {
	return p.Bottom.Y - p.Top.Bottom()
}

func (p *PipePair) shift(dx float64) {
	p.Top.X -= dx
	p.Bottom.X -= dx
}

// PipeField is the ordered queue of pipe pairs on screen, oldest (leftmost) first.
type PipeField struct {
	Pairs []PipePair
	// Counter counts ticks since the last spawn and wraps at TicksBetweenSpawns.
	Counter int
	// TicksBetweenSpawns is the current spawn cadence, always a whole number of
	// ticks. It shrinks as the stage rises.
	TicksBetweenSpawns float64

	cfg Config
}

// NewPipeField returns an empty field at the base cadence. The first SpawnIfDue
// call spawns immediately.
func NewPipeField(cfg Config) PipeField {
	return PipeField{
		TicksBetweenSpawns: cfg.TicksBetweenSpawns,
		cfg:                cfg,
	}
}

// Velocity returns the leftward scroll per tick. Tying it to the cadence keeps the
// distance between consecutive pairs constant.
func (f *PipeField) Velocity() float64 {
	if f.TicksBetweenSpawns <= 0 {
		return 0
	}
	return f.cfg.DistanceBetweenPipes / f.TicksBetweenSpawns
}

// Advance scrolls every pair left by one tick's worth of velocity.
func (f *PipeField) Advance() {
	v := f.Velocity()
	for i := range f.Pairs {
		f.Pairs[i].shift(v)
	}
}

// SpawnIfDue appends a new pair at the right screen edge when the spawn counter is
// at zero, then advances the counter. It spawns at most one pair per call and
// reports whether it did.
func (f *PipeField) SpawnIfDue(rng Rand) bool {
	spawned := false
	if f.Counter == 0 {
		f.Pairs = append(f.Pairs, NewPipePair(f.cfg.ScreenWidth, f.randomTopHeight(rng), f.cfg))
		spawned = true
	}

	f.Counter++
	if float64(f.Counter) >= f.TicksBetweenSpawns {
		f.Counter = 0
	}
	return spawned
}

// Cull removes pairs that have scrolled fully past the left edge, keeping the
// survivors in order. It returns the number removed.
func (f *PipeField) Cull() int {
	before := len(f.Pairs)
	f.Pairs = slices.DeleteFunc(f.Pairs, func(p PipePair) bool {
		return p.Right() < 0
	})
	return before - len(f.Pairs)
}

// Escalate scales the spawn cadence down by factor, which also speeds up the scroll.
// The cadence is rounded down to whole ticks so pairs spawned within a stage stay
// exactly DistanceBetweenPipes apart. It drops by at least one tick per call and
// never below one tick.
func (f *PipeField) Escalate(factor float64) {
	next := math.Floor(f.TicksBetweenSpawns * factor)
	f.TicksBetweenSpawns = max(min(next, f.TicksBetweenSpawns-1), 1)
}

func (f PipeField) clone() PipeField {
	f.Pairs = slices.Clone(f.Pairs)
	return f
}

func (f *PipeField) randomTopHeight(rng Rand) float64 {
	lo, hi := f.cfg.topHeightRange()
	return float64(lo + rng.IntN(hi-lo+1))
}

// topHeightRange returns the inclusive range of whole-pixel top pipe heights that
// leave at least MinPipeHeight for the bottom pipe.
func (c Config) topHeightRange() (lo, hi int) {
	lo = int(math.Ceil(c.MinPipeHeight))
	hi = int(math.Floor(c.ScreenHeight - c.PipeGap - c.MinPipeHeight))
	return lo, hi
}
