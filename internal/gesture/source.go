// Package gesture turns the player's hand into one game.Signal per tick.
package gesture

import (
	"context"
	"errors"

	"github.com/ayusman/flaphand/internal/game"
)

// ErrFrameDropped is returned by Poll when no frame was available this tick.
// The game must not advance on a dropped frame.
var ErrFrameDropped = errors.New("frame dropped")

// Source produces the signal for the next tick.
type Source interface {
	Poll(ctx context.Context) (game.Signal, error)
	Close() error
}

// Step is one scripted tick.
type Step struct {
	Signal game.Signal
	Drop   bool
}

// Steps expands a signal sequence into steps.
func Steps(signals ...game.Signal) []Step {
	steps := make([]Step, len(signals))
	for i, s := range signals {
		steps[i] = Step{Signal: s}
	}
	return steps
}

// Repeat returns n steps of the same signal.
func Repeat(s game.Signal, n int) []Step {
	steps := make([]Step, n)
	for i := range steps {
		steps[i] = Step{Signal: s}
	}
	return steps
}

// ScriptedSource replays a fixed sequence, then reports SignalNone forever.
type ScriptedSource struct {
	steps  []Step
	next   int
	closed bool
}

func NewScriptedSource(steps ...Step) *ScriptedSource {
	return &ScriptedSource{steps: steps}
}

func (s *ScriptedSource) Poll(ctx context.Context) (game.Signal, error) {
	if err := ctx.Err(); err != nil {
		return game.SignalNone, err
	}
	if s.next >= len(s.steps) {
		return game.SignalNone, nil
	}
	step := s.steps[s.next]
	s.next++
	if step.Drop {
		return game.SignalNone, ErrFrameDropped
	}
	return step.Signal, nil
}

// Remaining reports how many scripted steps are left.
func (s *ScriptedSource) Remaining() int {
	return len(s.steps) - s.next
}

func (s *ScriptedSource) Close() error {
	s.closed = true
	return nil
}

// KeySource maps a held key to SignalUp, for playing without a camera.
type KeySource struct {
	pressed func() bool
}

// NewKeySource reports SignalUp whenever pressed returns true.
func NewKeySource(pressed func() bool) *KeySource {
	return &KeySource{pressed: pressed}
}

func (k *KeySource) Poll(ctx context.Context) (game.Signal, error) {
	if err := ctx.Err(); err != nil {
		return game.SignalNone, err
	}
	if k.pressed != nil && k.pressed() {
		return game.SignalUp, nil
	}
	return game.SignalNone, nil
}

func (k *KeySource) Close() error { return nil }
