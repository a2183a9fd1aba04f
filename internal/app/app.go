// Package app runs the game loop inside ebiten: it gathers input, advances the
// game state and hands the result to the renderer, the run store and spectators.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ayusman/flaphand/internal/game"
	"github.com/ayusman/flaphand/internal/gesture"
	"github.com/ayusman/flaphand/internal/prefs"
	"github.com/ayusman/flaphand/internal/render"
	"github.com/ayusman/flaphand/internal/sound"
	"github.com/ayusman/flaphand/internal/store"
)

const dropLogInterval = time.Second

// Controls reports the UI events of the current tick.
type Controls interface {
	StartPressed() bool
	QuitPressed() bool
	PreviewToggled() bool
}

// Publisher receives a snapshot after every tick.
type Publisher interface {
	Publish(snap game.Snapshot) error
}

// PreviewSource provides the latest camera image. Seq changes whenever a new
// frame is available.
type PreviewSource interface {
	Preview() image.Image
	Seq() uint64
}

// Sounds plays effects for game events.
type Sounds interface {
	Play(e sound.Effect)
}

// Config wires an App. Game, Source and Controls are required.
type Config struct {
	Game     game.Config
	Source   gesture.Source
	Controls Controls

	Store     *store.Store
	Publisher Publisher
	Prefs     *prefs.Manager
	Preview   PreviewSource
	Renderer  *render.Renderer
	Sounds    Sounds

	// Seed fixes the pipe heights. Input and Seed are recorded with every run.
	Input string
	Seed  uint64

	// Now defaults to time.Now.
	Now func() time.Time

	// Context ends the game when cancelled, e.g. on SIGINT. Defaults to
	// context.Background.
	Context context.Context
}

// App implements ebiten.Game.
type App struct {
	config Config
	state  game.State
	cmds   []game.DrawCommand
	now    func() time.Time

	showPreview bool
	previewSeq  uint64
	lastSignal  game.Signal

	drops       int
	lastDropLog time.Time
	runs        int
}

func New(config Config) (*App, error) {
	if config.Source == nil || config.Controls == nil {
		return nil, errors.New("app: source and controls are required")
	}
	if err := config.Game.Validate(); err != nil {
		return nil, err
	}
	if config.Input == "" {
		config.Input = store.InputGesture
	}

	a := &App{
		config:      config,
		state:       game.NewState(config.Game, config.Seed),
		now:         config.Now,
		showPreview: true,
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.config.Context == nil {
		a.config.Context = context.Background()
	}
	if config.Prefs != nil {
		a.showPreview = config.Prefs.Get().ShowPreview
	}
	if config.Renderer != nil {
		config.Renderer.ShowCamera(a.showPreview)
	}
	a.cmds = a.state.Draw()
	a.publish()

	return a, nil
}

// Update runs one tick. It returns ebiten.Termination once the game has exited.
func (a *App) Update() error {
	return a.Step(a.config.Context)
}

// Step is Update with an explicit context. A cancelled context quits the game.
func (a *App) Step(ctx context.Context) error {
	if a.state.Phase == game.PhaseExit {
		return ebiten.Termination
	}

	now := a.now()
	if ctx.Err() != nil {
		log.Printf("app: %v, quitting", context.Cause(ctx))
		a.state, a.cmds = game.Tick(a.state, game.Input{Now: now, Quit: true})
		a.publish()
		return ebiten.Termination
	}
	in := game.Input{
		Now:   now,
		Start: a.config.Controls.StartPressed(),
		Quit:  a.config.Controls.QuitPressed(),
	}
	if a.config.Controls.PreviewToggled() {
		a.togglePreview()
	}

	sig, err := a.config.Source.Poll(ctx)
	switch {
	case errors.Is(err, gesture.ErrFrameDropped):
		in.FrameDropped = true
		a.noteDrop(now, err)
	case err != nil:
		return fmt.Errorf("poll input: %w", err)
	}
	in.Signal = sig

	prev := a.state.Phase
	prevScore := a.state.Tracker.Score
	a.state, a.cmds = game.Tick(a.state, in)
	a.playEffects(prev, prevScore, in.Signal)

	if prev == game.PhaseRunning && a.state.Phase == game.PhaseGameOver && a.state.LastRun != nil {
		a.record(*a.state.LastRun)
	}
	if prev != a.state.Phase {
		log.Printf("app: %s -> %s", prev, a.state.Phase)
	}

	a.refreshPreview()
	a.publish()

	if a.state.Phase == game.PhaseExit {
		return ebiten.Termination
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.config.Renderer == nil {
		return
	}
	a.config.Renderer.Draw(screen, a.cmds)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(a.config.Game.ScreenWidth), int(a.config.Game.ScreenHeight)
}

// State returns the current game state.
func (a *App) State() game.State {
	return a.state
}

// Commands returns the draw commands of the last tick.
func (a *App) Commands() []game.DrawCommand {
	return a.cmds
}

// Drops reports how many ticks were skipped for lack of a camera frame.
func (a *App) Drops() int {
	return a.drops
}

func (a *App) PreviewVisible() bool {
	return a.showPreview
}

// Close releases the input source and the store.
func (a *App) Close() error {
	var errs []error
	if err := a.config.Source.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close input: %w", err))
	}
	if a.config.Store != nil {
		if err := a.config.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) noteDrop(now time.Time, err error) {
	a.drops++
	if now.Sub(a.lastDropLog) < dropLogInterval {
		return
	}
	log.Printf("app: skipped tick, %v (%d dropped so far)", err, a.drops)
	a.lastDropLog = now
}

func (a *App) record(run game.RunSummary) {
	a.runs++
	log.Printf("app: run %d over, score %d, stage %d, %d ticks", a.runs, run.Score, run.Stage, run.Ticks)

	if a.config.Store == nil {
		return
	}
	err := a.config.Store.Runs().Create(&store.Run{
		Score:     run.Score,
		Stage:     run.Stage,
		Ticks:     run.Ticks,
		Input:     a.config.Input,
		Seed:      a.config.Seed,
		StartedAt: run.StartedAt,
		EndedAt:   run.EndedAt,
	})
	if err != nil {
		log.Printf("app: record run: %v", err)
	}
}

// playEffects sounds a jump on the rising edge of SignalUp, a chime when the
// score goes up and a thud on game over.
func (a *App) playEffects(prev game.Phase, prevScore int, sig game.Signal) {
	rising := sig == game.SignalUp && a.lastSignal != game.SignalUp
	a.lastSignal = sig
	if a.config.Sounds == nil {
		return
	}

	switch {
	case prev == game.PhaseRunning && a.state.Phase == game.PhaseGameOver:
		a.config.Sounds.Play(sound.EffectHit)
	case a.state.Phase == game.PhaseRunning && a.state.Tracker.Score > prevScore:
		a.config.Sounds.Play(sound.EffectScore)
	case a.state.Phase == game.PhaseRunning && rising:
		a.config.Sounds.Play(sound.EffectJump)
	}
}

func (a *App) publish() {
	if a.config.Publisher == nil {
		return
	}
	if err := a.config.Publisher.Publish(a.state.Snapshot()); err != nil {
		log.Printf("app: publish snapshot: %v", err)
	}
}

func (a *App) togglePreview() {
	a.showPreview = !a.showPreview
	if a.config.Renderer != nil {
		a.config.Renderer.ShowCamera(a.showPreview)
	}
	if a.config.Prefs != nil {
		show := a.showPreview
		if err := a.config.Prefs.Update(func(p *prefs.Preferences) { p.ShowPreview = show }); err != nil {
			log.Printf("app: save preferences: %v", err)
		}
	}
}

func (a *App) refreshPreview() {
	if !a.showPreview || a.config.Preview == nil || a.config.Renderer == nil {
		return
	}
	seq := a.config.Preview.Seq()
	if seq == a.previewSeq {
		return
	}
	a.previewSeq = seq
	if img := a.config.Preview.Preview(); img != nil {
		a.config.Renderer.SetCamera(img)
	}
}
