package game

import (
	"math/rand/v2"
	"time"
)

// Phase is the controller's state.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseRunning
	PhaseGameOver
	PhaseExit
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game_over"
	case PhaseExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Input is everything the outside world contributes to one tick.
type Input struct {
	Now time.Time
	// Start is the UI start event (key or click).
	Start bool
	// Quit ends the game from any phase.
	Quit bool
	// FrameDropped is set when no camera frame could be read this tick.
	FrameDropped bool
	Signal       Signal
}

// RunSummary describes one finished run.
type RunSummary struct {
	Score     int
	Stage     int
	Ticks     int
	StartedAt time.Time
	EndedAt   time.Time
}

// State is the whole game, owned by the controller and threaded through Tick.
type State struct {
	Phase   Phase
	Bird    Bird
	Field   PipeField
	Tracker Tracker
	// Ticks counts advanced ticks in the current run.
	Ticks      int
	StartedAt  time.Time
	GameOverAt time.Time
	// LastRun is set on every transition into PhaseGameOver.
	LastRun *RunSummary

	cfg Config
	// src is held by value so that Tick on the same State always draws the
	// same pipe heights.
	src rand.PCG
}

// seedMix fills the second PCG word from the seed.
const seedMix = 0x9e3779b97f4a7c15

// NewState returns a game waiting on the start screen. cfg must already be
// validated. seed fixes the pipe height sequence.
func NewState(cfg Config, seed uint64) State {
	return State{
		Phase:   PhaseStart,
		Bird:    NewBird(cfg),
		Field:   NewPipeField(cfg),
		Tracker: Tracker{Stage: 1},
		cfg:     cfg,
		src:     *rand.NewPCG(seed, seed^seedMix),
	}
}

// Config returns the constants the state was built with.
func (s State) Config() Config {
	return s.cfg
}

// Tick applies one input to s and returns the next state along with the commands
// that draw it. The returned state does not share pipe storage with s.
func Tick(s State, in Input) (State, []DrawCommand) {
	if in.Quit {
		s.Phase = PhaseExit
		return s, nil
	}

	switch s.Phase {
	case PhaseStart:
		if in.Start {
			s = s.begin(in.Now)
		}

	case PhaseRunning:
		// A dropped frame freezes the world for this tick.
		if !in.FrameDropped {
			s = s.step(in)
		}

	case PhaseGameOver:
		if in.Now.Sub(s.GameOverAt) >= s.cfg.GameOverHold {
			if s.cfg.ExitAfterGameOver {
				s.Phase = PhaseExit
				return s, nil
			}
			s.Phase = PhaseStart
		}

	case PhaseExit:
		return s, nil
	}

	return s, s.Draw()
}

func (s State) begin(now time.Time) State {
	s.Phase = PhaseRunning
	s.Bird = NewBird(s.cfg)
	s.Field = NewPipeField(s.cfg)
	s.Tracker = NewTracker(s.Tracker.Highest, now)
	s.Ticks = 0
	s.StartedAt = now
	s.GameOverAt = time.Time{}
	return s
}

func (s State) step(in Input) State {
	s.Field = s.Field.clone()

	if in.Signal == SignalUp {
		s.Bird.Jump()
	}
	s.Bird.Update()

	s.Field.Advance()
	src := s.src
	s.Field.SpawnIfDue(rand.New(&src))
	s.src = src
	s.Field.Cull()
	s.Ticks++

	if Collides(s.Bird.Rect(), s.Field.Pairs) {
		return s.end(in.Now)
	}

	s.Tracker.ObserveCrossing(s.Bird.X, s.Field.Pairs)
	for range s.Tracker.AdvanceStage(in.Now, s.cfg.StageInterval) {
		s.Field.Escalate(s.cfg.StageSpawnFactor)
	}

	return s
}

func (s State) end(now time.Time) State {
	summary := RunSummary{
		Score:     s.Tracker.Score,
		Stage:     s.Tracker.Stage,
		Ticks:     s.Ticks,
		StartedAt: s.StartedAt,
		EndedAt:   now,
	}
	s.Tracker.Finalize()
	s.LastRun = &summary
	s.Phase = PhaseGameOver
	s.GameOverAt = now
	return s
}
