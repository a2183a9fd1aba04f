package store

import "fmt"

// migrations are applied in order; each entry must be idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		score INTEGER NOT NULL CHECK(score >= 0),
		stage INTEGER NOT NULL CHECK(stage >= 1),
		ticks INTEGER NOT NULL DEFAULT 0,
		input TEXT NOT NULL DEFAULT 'gesture',
		seed INTEGER NOT NULL DEFAULT 0,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score DESC, ended_at ASC)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at DESC)`,
}

func (s *Store) migrate() error {
	for i, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
