package store

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func runEnding(score int, endOffset time.Duration) *Run {
	return &Run{
		Score:     score,
		Stage:     1 + score/5,
		Ticks:     score * 40,
		StartedAt: t0,
		EndedAt:   t0.Add(endOffset),
	}
}

func TestRunRepository_CreateAndGet(t *testing.T) {
	runs := newTestStore(t).Runs()

	run := &Run{
		Score:     7,
		Stage:     3,
		Ticks:     812,
		Input:     InputKeyboard,
		Seed:      1 << 63,
		StartedAt: t0,
		EndedAt:   t0.Add(27*time.Second + 60*time.Millisecond),
	}
	if err := runs.Create(run); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if run.ID == "" {
		t.Fatal("Create() did not assign an ID")
	}

	got, err := runs.GetByID(run.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Score != 7 || got.Stage != 3 || got.Ticks != 812 || got.Input != InputKeyboard {
		t.Errorf("GetByID() = %+v", got)
	}
	if got.Seed != 1<<63 {
		t.Errorf("Seed = %d, want %d", got.Seed, uint64(1<<63))
	}
	if !got.StartedAt.Equal(run.StartedAt) || !got.EndedAt.Equal(run.EndedAt) {
		t.Errorf("times = %v..%v, want %v..%v", got.StartedAt, got.EndedAt, run.StartedAt, run.EndedAt)
	}
	if got.Duration() != 27*time.Second+60*time.Millisecond {
		t.Errorf("Duration() = %v", got.Duration())
	}
}

func TestRunRepository_DefaultInput(t *testing.T) {
	runs := newTestStore(t).Runs()

	run := runEnding(1, time.Second)
	if err := runs.Create(run); err != nil {
		t.Fatal(err)
	}
	got, err := runs.GetByID(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Input != InputGesture {
		t.Errorf("Input = %q, want %q", got.Input, InputGesture)
	}
}

func TestRunRepository_NotFound(t *testing.T) {
	runs := newTestStore(t).Runs()

	if _, err := runs.GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
	if _, err := runs.Best(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Best() on empty store error = %v, want ErrNotFound", err)
	}
}

func TestRunRepository_RejectsInvalid(t *testing.T) {
	runs := newTestStore(t).Runs()

	if err := runs.Create(&Run{Score: -1, Stage: 1}); err == nil {
		t.Error("Create() accepted a negative score")
	}
	if err := runs.Create(&Run{Score: 1, Stage: 0}); err == nil {
		t.Error("Create() accepted stage 0")
	}
}

func TestRunRepository_Best(t *testing.T) {
	runs := newTestStore(t).Runs()

	first := runEnding(9, 10*time.Second)
	for _, r := range []*Run{runEnding(4, 5*time.Second), first, runEnding(9, 20*time.Second), runEnding(2, 30*time.Second)} {
		if err := runs.Create(r); err != nil {
			t.Fatal(err)
		}
	}

	best, err := runs.Best()
	if err != nil {
		t.Fatalf("Best() error = %v", err)
	}
	if best.ID != first.ID {
		t.Errorf("Best() = %+v, want the earliest score-9 run %s", best, first.ID)
	}
}

func TestRunRepository_List(t *testing.T) {
	runs := newTestStore(t).Runs()

	for i := 1; i <= 5; i++ {
		if err := runs.Create(runEnding(i, time.Duration(i)*time.Second)); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name       string
		limit      int
		wantScores []int
	}{
		{name: "limit 2", limit: 2, wantScores: []int{5, 4}},
		{name: "limit above count", limit: 50, wantScores: []int{5, 4, 3, 2, 1}},
		{name: "zero uses default", limit: 0, wantScores: []int{5, 4, 3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runs.List(tt.limit)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != len(tt.wantScores) {
				t.Fatalf("List() returned %d runs, want %d", len(got), len(tt.wantScores))
			}
			for i, r := range got {
				if r.Score != tt.wantScores[i] {
					t.Errorf("run %d score = %d, want %d", i, r.Score, tt.wantScores[i])
				}
			}
		})
	}
}
