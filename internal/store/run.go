package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

// Input methods recorded with a run.
const (
	InputGesture  = "gesture"
	InputKeyboard = "keyboard"
)

// Run is one finished game.
type Run struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	Stage     int       `json:"stage"`
	Ticks     int       `json:"ticks"`
	Input     string    `json:"input"`
	Seed      uint64    `json:"seed"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// Duration is the wall-clock length of the run.
func (r Run) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// RunRepository reads and writes runs.
type RunRepository struct {
	db *sql.DB
}

func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

const runColumns = `id, score, stage, ticks, input, seed, started_at, ended_at`

// Create stores run, assigning an ID when it has none.
func (r *RunRepository) Create(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Input == "" {
		run.Input = InputGesture
	}

	_, err := r.db.Exec(
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Score, run.Stage, run.Ticks, run.Input, int64(run.Seed),
		run.StartedAt.UnixMilli(), run.EndedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (r *RunRepository) GetByID(id string) (*Run, error) {
	run, err := scanRun(r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

// Best returns the highest scoring run. Ties go to the run that ended first.
func (r *RunRepository) Best() (*Run, error) {
	run, err := scanRun(r.db.QueryRow(
		`SELECT ` + runColumns + ` FROM runs ORDER BY score DESC, ended_at ASC LIMIT 1`,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

// List returns up to limit runs, most recent first.
func (r *RunRepository) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(
		`SELECT `+runColumns+` FROM runs ORDER BY ended_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Count returns how many runs are stored.
func (r *RunRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run            Run
		seed           int64
		started, ended int64
	)
	if err := row.Scan(&run.ID, &run.Score, &run.Stage, &run.Ticks, &run.Input, &seed, &started, &ended); err != nil {
		return nil, err
	}
	run.Seed = uint64(seed)
	run.StartedAt = time.UnixMilli(started)
	run.EndedAt = time.UnixMilli(ended)
	return &run, nil
}
