package game

// Snapshot is a read-only, JSON-friendly view of a State for spectators.
type Snapshot struct {
	Phase     string         `json:"phase"`
	Ticks     int            `json:"ticks"`
	Score     int            `json:"score"`
	Highest   int            `json:"highest"`
	Stage     int            `json:"stage"`
	BirdY     float64        `json:"bird_y"`
	BirdVelY  float64        `json:"bird_vel_y"`
	Velocity  float64        `json:"pipe_velocity"`
	Pipes     []PipeSnapshot `json:"pipes"`
	LastScore *int           `json:"last_score,omitempty"`
}

// PipeSnapshot describes one pair by its x and the y-range of its gap.
type PipeSnapshot struct {
	X         float64 `json:"x"`
	GapTop    float64 `json:"gap_top"`
	GapBottom float64 `json:"gap_bottom"`
}

// Snapshot copies the parts of s a spectator needs.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:    s.Phase.String(),
		Ticks:    s.Ticks,
		Score:    s.Tracker.Score,
		Highest:  s.Tracker.Highest,
		Stage:    s.Tracker.Stage,
		BirdY:    s.Bird.Y,
		BirdVelY: s.Bird.VelocityY,
		Velocity: s.Field.Velocity(),
		Pipes:    make([]PipeSnapshot, 0, len(s.Field.Pairs)),
	}
	for _, p := range s.Field.Pairs {
		snap.Pipes = append(snap.Pipes, PipeSnapshot{
			X:         p.X(),
			GapTop:    p.Top.Bottom(),
			GapBottom: p.Bottom.Y,
		})
	}
	if s.LastRun != nil {
		last := s.LastRun.Score
		snap.LastScore = &last
	}
	return snap
}
