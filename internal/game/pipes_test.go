package game

import (
	"math/rand/v2"
	"testing"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 1024))
}

func TestPipeField_SpawnCadence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TicksBetweenSpawns = 40
	f := NewPipeField(cfg)
	rng := newTestRand()

	var spawnTicks []int
	for tick := 1; tick <= 400; tick++ {
		before := len(f.Pairs)
		spawned := f.SpawnIfDue(rng)
		after := len(f.Pairs)

		if after-before > 1 {
			t.Fatalf("tick %d: spawned %d pairs in one tick", tick, after-before)
		}
		if spawned != (after == before+1) {
			t.Fatalf("tick %d: SpawnIfDue() = %v but field grew by %d", tick, spawned, after-before)
		}
		if spawned {
			spawnTicks = append(spawnTicks, tick)
		}
	}

	if len(spawnTicks) != 10 {
		t.Fatalf("expected 10 spawns in 400 ticks, got %d (%v)", len(spawnTicks), spawnTicks)
	}
	if spawnTicks[0] != 1 {
		t.Errorf("first spawn at tick %d, want 1", spawnTicks[0])
	}
	for i := 1; i < len(spawnTicks); i++ {
		if d := spawnTicks[i] - spawnTicks[i-1]; d != 40 {
			t.Errorf("spawns %d and %d are %d ticks apart, want 40", i-1, i, d)
		}
	}
}

func TestPipeField_GapInvariant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TicksBetweenSpawns = 1
	f := NewPipeField(cfg)
	rng := newTestRand()

	for i := 0; i < 500; i++ {
		f.SpawnIfDue(rng)
	}
	if len(f.Pairs) != 500 {
		t.Fatalf("expected 500 pairs, got %d", len(f.Pairs))
	}

	for i, p := range f.Pairs {
		if p.Gap() != cfg.PipeGap {
			t.Errorf("pair %d: gap = %v, want %v", i, p.Gap(), cfg.PipeGap)
		}
		if p.Top.Y != 0 {
			t.Errorf("pair %d: top pipe starts at %v, want 0", i, p.Top.Y)
		}
		if p.Bottom.Bottom() != cfg.ScreenHeight {
			t.Errorf("pair %d: bottom pipe ends at %v, want %v", i, p.Bottom.Bottom(), cfg.ScreenHeight)
		}
		if p.Top.H < cfg.MinPipeHeight || p.Bottom.H < cfg.MinPipeHeight {
			t.Errorf("pair %d: heights %v/%v below minimum %v", i, p.Top.H, p.Bottom.H, cfg.MinPipeHeight)
		}
		if p.Top.X != p.Bottom.X || p.Top.W != p.Bottom.W {
			t.Errorf("pair %d: top and bottom are not aligned", i)
		}
	}
}

func TestPipeField_Reproducible(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TicksBetweenSpawns = 1
	a, b := NewPipeField(cfg), NewPipeField(cfg)
	ra, rb := newTestRand(), newTestRand()

	for i := 0; i < 50; i++ {
		a.SpawnIfDue(ra)
		b.SpawnIfDue(rb)
	}
	for i := range a.Pairs {
		if a.Pairs[i] != b.Pairs[i] {
			t.Fatalf("pair %d differs between identically seeded fields", i)
		}
	}
}

func TestPipeField_Advance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DistanceBetweenPipes = 300
	cfg.TicksBetweenSpawns = 40
	f := NewPipeField(cfg)
	f.Pairs = []PipePair{NewPipePair(600, 100, cfg), NewPipePair(300, 200, cfg)}

	f.Advance()

	want := 300.0 / 40.0
	if got := f.Velocity(); got != want {
		t.Errorf("Velocity() = %v, want %v", got, want)
	}
	if f.Pairs[0].Top.X != 600-want || f.Pairs[0].Bottom.X != 600-want {
		t.Errorf("first pair at %v/%v, want %v", f.Pairs[0].Top.X, f.Pairs[0].Bottom.X, 600-want)
	}
	if f.Pairs[1].X() != 300-want {
		t.Errorf("second pair at %v, want %v", f.Pairs[1].X(), 300-want)
	}
}

func TestPipeField_ConstantSpacing(t *testing.T) {
	cfg := DefaultConfig()
	f := NewPipeField(cfg)
	rng := newTestRand()

	for i := 0; i < 200; i++ {
		f.Advance()
		f.SpawnIfDue(rng)
		f.Cull()
	}

	if len(f.Pairs) < 2 {
		t.Fatalf("expected at least two pairs on screen, got %d", len(f.Pairs))
	}
	for i := 1; i < len(f.Pairs); i++ {
		d := f.Pairs[i].X() - f.Pairs[i-1].X()
		if diff := d - cfg.DistanceBetweenPipes; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("pairs %d and %d are %v apart, want %v", i-1, i, d, cfg.DistanceBetweenPipes)
		}
	}
}

func TestPipeField_Cull(t *testing.T) {
	cfg := DefaultConfig()
	f := NewPipeField(cfg)

	gone := NewPipePair(-cfg.PipeWidth-1, 100, cfg)
	edge := NewPipePair(-cfg.PipeWidth, 110, cfg)
	visible := NewPipePair(10, 120, cfg)
	f.Pairs = []PipePair{gone, edge, visible}

	if removed := f.Cull(); removed != 1 {
		t.Fatalf("Cull() removed %d, want 1", removed)
	}
	if len(f.Pairs) != 2 || f.Pairs[0] != edge || f.Pairs[1] != visible {
		t.Fatalf("survivors out of order: %+v", f.Pairs)
	}

	// The culled pair never comes back.
	rng := newTestRand()
	f.Counter = 1
	for i := 0; i < 10; i++ {
		f.Advance()
		f.SpawnIfDue(rng)
		f.Cull()
		for _, p := range f.Pairs {
			if p == gone {
				t.Fatal("culled pair reappeared")
			}
		}
	}
}

func TestPipeField_Escalate(t *testing.T) {
	cfg := DefaultConfig()
	f := NewPipeField(cfg)
	v0 := f.Velocity()

	f.Escalate(cfg.StageSpawnFactor)

	if f.TicksBetweenSpawns != 33 {
		t.Errorf("TicksBetweenSpawns = %v, want 33", f.TicksBetweenSpawns)
	}
	if f.Velocity() <= v0 {
		t.Errorf("Velocity() = %v, want more than %v", f.Velocity(), v0)
	}

	t.Run("whole ticks down to one", func(t *testing.T) {
		f := NewPipeField(cfg)
		want := []float64{33, 27, 22, 18, 15, 12, 10, 8, 6, 5, 4, 3, 2, 1, 1, 1}
		for i, w := range want {
			f.Escalate(cfg.StageSpawnFactor)
			if f.TicksBetweenSpawns != w {
				t.Fatalf("escalation %d: TicksBetweenSpawns = %v, want %v", i+1, f.TicksBetweenSpawns, w)
			}
		}
	})

	t.Run("mild factor still drops a tick", func(t *testing.T) {
		f := NewPipeField(cfg)
		f.Escalate(0.999)
		if f.TicksBetweenSpawns != 39 {
			t.Errorf("TicksBetweenSpawns = %v, want 39", f.TicksBetweenSpawns)
		}
	})
}

func TestPipeField_ConstantSpacingAfterEscalation(t *testing.T) {
	cfg := DefaultConfig()
	f := NewPipeField(cfg)
	rng := newTestRand()

	run := func(ticks int) {
		for i := 0; i < ticks; i++ {
			f.Advance()
			f.SpawnIfDue(rng)
			f.Cull()
		}
	}

	run(200)
	for stage := 2; stage <= 5; stage++ {
		f.Escalate(cfg.StageSpawnFactor)
		// Long enough for every pair spawned before the change to leave the screen.
		run(300)

		if len(f.Pairs) < 2 {
			t.Fatalf("stage %d: expected at least two pairs on screen, got %d", stage, len(f.Pairs))
		}
		for i := 1; i < len(f.Pairs); i++ {
			d := f.Pairs[i].X() - f.Pairs[i-1].X()
			if diff := d - cfg.DistanceBetweenPipes; diff > 1e-6 || diff < -1e-6 {
				t.Errorf("stage %d: pairs %d and %d are %v apart, want %v", stage, i-1, i, d, cfg.DistanceBetweenPipes)
			}
		}
	}
}
