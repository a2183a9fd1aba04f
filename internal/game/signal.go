package game

// Signal is the per-tick directional input derived from the player's hand.
type Signal int

const (
	// SignalNone means no hand was seen or the pose is ambiguous.
	SignalNone Signal = iota
	// SignalUp makes the bird jump.
	SignalUp
	// SignalDown lets the bird fall.
	SignalDown
)

func (s Signal) String() string {
	switch s {
	case SignalUp:
		return "up"
	case SignalDown:
		return "down"
	default:
		return "none"
	}
}
