// Package history keeps per-run statistics in a local SQLite database so
// passing-rate trends can be shown across runs.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dkoosis/lta/pkg/analyzer"
)

// History records analysis runs.
type History struct {
	db *sql.DB
}

// Run is one recorded analysis run.
type Run struct {
	ID          string
	Timestamp   time.Time
	TestGroup   string
	Counts      analyzer.Counts
	PassingRate int
	HasRate     bool
}

// DefaultPath returns the history database location under the user's
// config directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(configDir, "lta", "history.db"), nil
}

// Open opens or creates the history database at path.
func Open(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	h := &History{db: db}
	if err := h.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return h, nil
}

func (h *History) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		test_group TEXT NOT NULL,
		whole INTEGER NOT NULL,
		skip INTEGER NOT NULL,
		nonskip INTEGER NOT NULL,
		passing_rate INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_runs_group_timestamp ON runs(test_group, timestamp);
	`
	_, err := h.db.Exec(schema)
	return err
}

// Record stores a run for snap and returns it. The passing rate is left
// NULL when it cannot be computed.
func (h *History) Record(group string, ts time.Time, snap *analyzer.Snapshot) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Timestamp: ts.UTC(),
		TestGroup: group,
		Counts:    snap.Counts(),
	}
	var rate sql.NullInt64
	if r, err := run.Counts.PassingRate(); err == nil {
		run.PassingRate, run.HasRate = r, true
		rate = sql.NullInt64{Int64: int64(r), Valid: true}
	}

	query := `
		INSERT INTO runs (id, timestamp, test_group, whole, skip, nonskip, passing_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := h.db.Exec(query,
		run.ID,
		run.Timestamp.Format(time.RFC3339),
		run.TestGroup,
		run.Counts.Whole,
		run.Counts.Skip,
		run.Counts.NonSkip,
		rate,
	)
	if err != nil {
		return Run{}, fmt.Errorf("recording run: %w", err)
	}
	return run, nil
}

// Recent returns up to n most recent runs for group, oldest first.
func (h *History) Recent(group string, n int) ([]Run, error) {
	query := `
		SELECT id, timestamp, test_group, whole, skip, nonskip, passing_rate
		FROM runs
		WHERE test_group = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`
	rows, err := h.db.Query(query, group, n)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r    Run
			ts   string
			rate sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &ts, &r.TestGroup, &r.Counts.Whole, &r.Counts.Skip, &r.Counts.NonSkip, &rate); err != nil {
			return nil, err
		}
		r.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("run %s: bad timestamp %q: %w", r.ID, ts, err)
		}
		if rate.Valid {
			r.PassingRate, r.HasRate = int(rate.Int64), true
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}

// Close closes the database connection.
func (h *History) Close() error {
	return h.db.Close()
}
