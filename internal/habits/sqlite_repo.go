package habits

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"planner-cli/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps weeks in a SQLite database at Path. The database is
// opened on first use and kept until Close.
type SQLiteRepository struct {
	Path string

	mu sync.Mutex
	db *sql.DB
}

func NewSQLiteRepository(path string) *SQLiteRepository {
	return &SQLiteRepository{Path: path}
}

// DefaultSQLitePath is the database location inside a workspace.
func DefaultSQLitePath(workspace string) string {
	return filepath.Join(workspace, ".planner", "habits.db")
}

// conn returns the open database, opening and migrating it on first use.
func (r *SQLiteRepository) conn(ctx context.Context) (*sql.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db != nil {
		return r.db, nil
	}
	db, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	r.db = db
	return db, nil
}

// Close releases the database. A later Load or Save opens it again.
func (r *SQLiteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *SQLiteRepository) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(r.Path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", r.Path)
	if err != nil {
		return nil, err
	}
	// Pragmas below are per connection; one connection keeps them in force.
	db.SetMaxOpenConns(1)
	// WAL lets the TUI read while `planner habits ...` writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS weeks (
			year INTEGER NOT NULL,
			week INTEGER NOT NULL,
			day_status_json TEXT NOT NULL DEFAULT '{}',
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY(year, week)
		);`,
		`CREATE TABLE IF NOT EXISTS habits (
			year INTEGER NOT NULL,
			week INTEGER NOT NULL,
			name TEXT NOT NULL,
			completed INTEGER NOT NULL,
			ord INTEGER NOT NULL,
			PRIMARY KEY(year, week, name),
			FOREIGN KEY(year, week) REFERENCES weeks(year, week) ON DELETE CASCADE
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context, wk model.Week) (*model.WeeklyHabits, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var dayStatus string
	err = db.QueryRowContext(ctx, `SELECT day_status_json FROM weeks WHERE year = ? AND week = ?`, wk.Year, wk.Number).Scan(&dayStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWeekNotFound
	}
	if err != nil {
		return nil, err
	}

	wh := model.NewWeeklyHabits(wk)
	if err := json.Unmarshal([]byte(dayStatus), &wh.DayStatus); err != nil || wh.DayStatus == nil {
		wh.DayStatus = map[string]bool{}
	}

	rows, err := db.QueryContext(ctx, `SELECT name, completed, ord FROM habits WHERE year = ? AND week = ?`, wk.Year, wk.Number)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			h         model.Habit
			completed int
		)
		if err := rows.Scan(&h.Name, &completed, &h.Order); err != nil {
			return nil, err
		}
		h.Completed = completed != 0
		wh.Habits[h.Name] = &h
	}
	return wh, rows.Err()
}

func (r *SQLiteRepository) Save(ctx context.Context, wh *model.WeeklyHabits) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}

	dayStatus, err := json.Marshal(wh.DayStatus)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO weeks(year, week, day_status_json, updated_at_unixms) VALUES(?, ?, ?, ?)
		ON CONFLICT(year, week) DO UPDATE SET day_status_json = excluded.day_status_json, updated_at_unixms = excluded.updated_at_unixms`,
		wh.Year, wh.WeekNumber, string(dayStatus), time.Now().UTC().UnixMilli()); err != nil {
		return err
	}
	// Replace-all for the week; a week holds a handful of rows.
	if _, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE year = ? AND week = ?`, wh.Year, wh.WeekNumber); err != nil {
		return err
	}
	for name, h := range wh.Habits {
		if _, err := tx.ExecContext(ctx, `INSERT INTO habits(year, week, name, completed, ord) VALUES(?, ?, ?, ?, ?)`,
			wh.Year, wh.WeekNumber, name, boolToInt(h.Completed), h.Order); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
