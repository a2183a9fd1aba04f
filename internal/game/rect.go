package game

// Rect is an axis-aligned rectangle in screen coordinates (y grows downward).
// It covers the half-open ranges [X, X+W) and [Y, Y+H).
type Rect struct {
	X, Y float64
	W, H float64
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects reports whether two rectangles share any point. Rectangles that only
// touch along an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}
