package game

import (
	"fmt"
	"image/color"
)

// DrawKind selects what a DrawCommand paints.
type DrawKind int

const (
	DrawFill DrawKind = iota
	DrawSprite
	DrawRect
	DrawText
)

// Sprite names an image the render sink owns.
type Sprite string

const (
	SpriteBird   Sprite = "bird"
	SpriteCamera Sprite = "camera"
)

// Align is the horizontal anchor of a text command.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
)

// DrawCommand is one instruction for the render sink. Rect is the destination for
// sprites and rectangles; for text only X and Y are used.
type DrawCommand struct {
	Kind   DrawKind
	Sprite Sprite
	Rect   Rect
	Color  color.RGBA
	Text   string
	Size   float64
	Align  Align
}

var (
	skyColor  = color.RGBA{R: 125, G: 220, B: 232, A: 255}
	pipeColor = color.RGBA{R: 30, G: 200, B: 15, A: 255}
	textColor = color.RGBA{R: 99, G: 245, B: 255, A: 255}
	overColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func fill(c color.RGBA) DrawCommand {
	return DrawCommand{Kind: DrawFill, Color: c}
}

func sprite(name Sprite, r Rect) DrawCommand {
	return DrawCommand{Kind: DrawSprite, Sprite: name, Rect: r}
}

func rect(r Rect, c color.RGBA) DrawCommand {
	return DrawCommand{Kind: DrawRect, Rect: r, Color: c}
}

func text(s string, x, y, size float64, align Align, c color.RGBA) DrawCommand {
	return DrawCommand{Kind: DrawText, Text: s, Rect: Rect{X: x, Y: y}, Size: size, Align: align, Color: c}
}

const defaultFlyHint = "Raise your index finger to fly"

func (s State) flyHint() string {
	if s.cfg.FlyHint == "" {
		return defaultFlyHint
	}
	return s.cfg.FlyHint
}

// Draw returns the commands that paint the current state.
func (s State) Draw() []DrawCommand {
	w, h := s.cfg.ScreenWidth, s.cfg.ScreenHeight
	screen := Rect{W: w, H: h}

	cmds := []DrawCommand{fill(skyColor), sprite(SpriteCamera, screen)}

	switch s.Phase {
	case PhaseStart:
		cmds = append(cmds,
			text("Flappy Hand", w/2, h/3, 40, AlignCenter, overColor),
			text(s.flyHint(), w/2, h/2, 16, AlignCenter, textColor),
			text("Press Space or click to start", w/2, h/2+40, 16, AlignCenter, textColor),
			text(fmt.Sprintf("Highest Score: %d", s.Tracker.Highest), 10, 10, 16, AlignStart, textColor),
		)

	case PhaseRunning, PhaseGameOver:
		for _, p := range s.Field.Pairs {
			cmds = append(cmds, rect(p.Top, pipeColor), rect(p.Bottom, pipeColor))
		}
		cmds = append(cmds,
			sprite(SpriteBird, s.Bird.Rect()),
			text(fmt.Sprintf("Stage %d", s.Tracker.Stage), 10, 10, 20, AlignStart, textColor),
			text(fmt.Sprintf("Score: %d", s.Tracker.Score), 10, 40, 20, AlignStart, textColor),
			text(fmt.Sprintf("Highest Score: %d", s.Tracker.Highest), 10, 70, 16, AlignStart, textColor),
		)
		if s.Phase == PhaseGameOver && s.LastRun != nil {
			cmds = append(cmds,
				text("Game over!", w/2, h/2-40, 40, AlignCenter, overColor),
				text(fmt.Sprintf("Final Score: %d", s.LastRun.Score), w/2, h/2+20, 20, AlignCenter, overColor),
			)
		}
	}

	return cmds
}
