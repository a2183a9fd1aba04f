package game

// Bird is the player actor. Only its vertical position changes during a run.
type Bird struct {
	X         float64
	Y         float64
	VelocityY float64
	Width     float64
	Height    float64

	gravity      float64
	jumpVelocity float64
	floor        float64
}

// NewBird places a bird at the configured x, vertically centred and at rest.
func NewBird(cfg Config) Bird {
	return Bird{
		X:            cfg.BirdX,
		Y:            (cfg.ScreenHeight - cfg.BirdHeight) / 2,
		Width:        cfg.BirdWidth,
		Height:       cfg.BirdHeight,
		gravity:      cfg.Gravity,
		jumpVelocity: cfg.JumpVelocity,
		floor:        cfg.ScreenHeight,
	}
}

// Jump overwrites the vertical velocity with the upward impulse. A jump while
// falling cancels the downward motion at once.
func (b *Bird) Jump() {
	b.VelocityY = b.jumpVelocity
}

// Update integrates one tick and keeps the bird on screen. Hitting either edge
// stops the bird so velocity cannot build up against a boundary.
func (b *Bird) Update() {
	b.Y += b.VelocityY
	b.VelocityY += b.gravity

	switch {
	case b.Y < 0:
		b.Y = 0
		b.VelocityY = 0
	case b.Y+b.Height > b.floor:
		b.Y = b.floor - b.Height
		b.VelocityY = 0
	}
}

// Rect returns the bird's bounding box.
func (b Bird) Rect() Rect {
	return Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height}
}
