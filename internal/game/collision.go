package game

// Collides reports whether the bird's box overlaps any pipe in the field.
func Collides(bird Rect, pairs []PipePair) bool {
	for _, p := range pairs {
		if bird.Intersects(p.Top) || bird.Intersects(p.Bottom) {
			return true
		}
	}
	return false
}
