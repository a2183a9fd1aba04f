// Package game implements the flappy game-loop state machine: bird physics, the scrolling
// pipe field, collision detection, and score/stage tracking. It has no I/O and no
// dependency on the window, camera, or detector, so every transition is reproducible
// from a seeded random source and a sequence of inputs.
package game

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig is returned when a constant is out of its allowed range.
var ErrInvalidConfig = errors.New("invalid game config")

// ErrImpossibleGap is returned when the pipe gap and minimum pipe heights do not fit
// on the screen, which would otherwise surface as a negative bottom pipe at spawn time.
var ErrImpossibleGap = errors.New("pipe gap does not fit the screen")

// Config holds the geometry and physics constants of a run.
type Config struct {
	ScreenWidth  float64
	ScreenHeight float64

	BirdX      float64
	BirdWidth  float64
	BirdHeight float64

	// Gravity is added to the bird's vertical velocity every tick.
	Gravity float64
	// JumpVelocity replaces the bird's vertical velocity on a jump. Must be negative.
	JumpVelocity float64

	PipeWidth     float64
	PipeGap       float64
	MinPipeHeight float64

	// DistanceBetweenPipes and TicksBetweenSpawns together fix the scroll velocity.
	// TicksBetweenSpawns must be a whole number.
	DistanceBetweenPipes float64
	TicksBetweenSpawns   float64

	// StageInterval is the wall-clock time between stage increments.
	StageInterval time.Duration
	// StageSpawnFactor scales TicksBetweenSpawns on every stage increment. Must be in (0, 1).
	StageSpawnFactor float64

	// GameOverHold is how long the game over screen stays up.
	GameOverHold time.Duration
	// ExitAfterGameOver ends the process after the hold instead of returning to the start screen.
	ExitAfterGameOver bool

	// FlyHint is the start screen line telling the player how to fly. Empty
	// shows a hint that fits every hand pose.
	FlyHint string
}

// DefaultConfig returns a Config sized for a 640x480 camera frame.
func DefaultConfig() Config {
	return Config{
		ScreenWidth:          640,
		ScreenHeight:         480,
		BirdX:                100,
		BirdWidth:            34,
		BirdHeight:           24,
		Gravity:              1,
		JumpVelocity:         -5,
		PipeWidth:            52,
		PipeGap:              160,
		MinPipeHeight:        60,
		DistanceBetweenPipes: 300,
		TicksBetweenSpawns:   40,
		StageInterval:        10 * time.Second,
		StageSpawnFactor:     5.0 / 6.0,
		GameOverHold:         2 * time.Second,
	}
}

// Validate checks the constants once at startup.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"screen width", c.ScreenWidth},
		{"screen height", c.ScreenHeight},
		{"bird width", c.BirdWidth},
		{"bird height", c.BirdHeight},
		{"pipe width", c.PipeWidth},
		{"pipe gap", c.PipeGap},
		{"distance between pipes", c.DistanceBetweenPipes},
		{"ticks between spawns", c.TicksBetweenSpawns},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, p.name, p.value)
		}
	}

	if c.TicksBetweenSpawns != math.Trunc(c.TicksBetweenSpawns) {
		return fmt.Errorf("%w: ticks between spawns must be a whole number, got %v", ErrInvalidConfig, c.TicksBetweenSpawns)
	}
	if c.MinPipeHeight < 0 {
		return fmt.Errorf("%w: min pipe height must not be negative, got %v", ErrInvalidConfig, c.MinPipeHeight)
	}
	if c.Gravity < 0 {
		return fmt.Errorf("%w: gravity must not be negative, got %v", ErrInvalidConfig, c.Gravity)
	}
	if c.JumpVelocity >= 0 {
		return fmt.Errorf("%w: jump velocity must be negative, got %v", ErrInvalidConfig, c.JumpVelocity)
	}
	if c.BirdHeight > c.ScreenHeight {
		return fmt.Errorf("%w: bird height %v exceeds screen height %v", ErrInvalidConfig, c.BirdHeight, c.ScreenHeight)
	}
	if c.BirdX < 0 || c.BirdX+c.BirdWidth > c.ScreenWidth {
		return fmt.Errorf("%w: bird x %v is off screen", ErrInvalidConfig, c.BirdX)
	}
	if c.StageInterval <= 0 {
		return fmt.Errorf("%w: stage interval must be positive, got %v", ErrInvalidConfig, c.StageInterval)
	}
	if c.StageSpawnFactor <= 0 || c.StageSpawnFactor >= 1 {
		return fmt.Errorf("%w: stage spawn factor must be in (0, 1), got %v", ErrInvalidConfig, c.StageSpawnFactor)
	}
	if c.GameOverHold < 0 {
		return fmt.Errorf("%w: game over hold must not be negative, got %v", ErrInvalidConfig, c.GameOverHold)
	}

	lo, hi := c.topHeightRange()
	if hi < lo {
		return fmt.Errorf("%w: gap %v with min pipe height %v needs %v px, screen is %v px",
			ErrImpossibleGap, c.PipeGap, c.MinPipeHeight, c.PipeGap+2*c.MinPipeHeight, c.ScreenHeight)
	}

	return nil
}
