package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyboardControls reads start, quit and preview from ebiten's input state.
// The window close button counts as quit once main enables
// ebiten.SetWindowClosingHandled.
type KeyboardControls struct{}

func (KeyboardControls) StartPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func (KeyboardControls) QuitPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyQ) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEscape) ||
		ebiten.IsWindowBeingClosed()
}

func (KeyboardControls) PreviewToggled() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyP)
}

// FlyKeyHeld is the keyboard replacement for the hand signal.
func FlyKeyHeld() bool {
	return ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
}
