// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/exampulse/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const snapshotKey = "dashboard"

var (
	// ErrNotFound reports that nothing has been stored yet.
	ErrNotFound = errors.New("no stored data")
	// ErrCorrupt reports stored data that cannot be decoded.
	ErrCorrupt = errors.New("stored data is corrupt")
)

// Store wraps SQLite access for the dashboard snapshot and exam history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS exam_history (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			completed_at TEXT NOT NULL,
			score REAL NOT NULL,
			max_score REAL NOT NULL,
			time_spent INTEGER NOT NULL,
			question_count INTEGER NOT NULL,
			status TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_exam_history_completed_at ON exam_history(completed_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadDashboardSnapshot returns the cached dashboard document.
func (s *Store) LoadDashboardSnapshot(ctx context.Context) (model.DashboardSnapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE key = ?`, snapshotKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DashboardSnapshot{}, ErrNotFound
	}
	if err != nil {
		return model.DashboardSnapshot{}, err
	}
	var snap model.DashboardSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return model.DashboardSnapshot{}, fmt.Errorf("%w: snapshot: %v", ErrCorrupt, err)
	}
	return snap, nil
}

// SaveDashboardSnapshot replaces the cached dashboard document.
func (s *Store) SaveDashboardSnapshot(ctx context.Context, snap model.DashboardSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		snapshotKey,
		string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// LoadHistory returns the stored exam history, newest first.
func (s *Store) LoadHistory(ctx context.Context) ([]model.ExamRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, completed_at, score, max_score, time_spent, question_count, status
		 FROM exam_history
		 ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.ExamRecord
	for rows.Next() {
		var rec model.ExamRecord
		var completedAt, status string
		if err := rows.Scan(&rec.ID, &rec.Name, &completedAt, &rec.Score, &rec.MaxScore, &rec.TimeSpent, &rec.QuestionCount, &status); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, completedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: exam %s date: %v", ErrCorrupt, rec.ID, err)
		}
		rec.CompletedAt = parsed
		rec.Status, err = model.ParseExamStatus(status)
		if err != nil {
			return nil, fmt.Errorf("%w: exam %s: %v", ErrCorrupt, rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveHistory replaces the stored exam history, keeping the given order.
func (s *Store) SaveHistory(ctx context.Context, records []model.ExamRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM exam_history`); err != nil {
		return err
	}
	if len(records) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO exam_history (position, id, name, completed_at, score, max_score, time_spent, question_count, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, rec := range records {
			if _, err = stmt.ExecContext(ctx,
				i,
				rec.ID,
				rec.Name,
				rec.CompletedAt.Format(time.RFC3339Nano),
				rec.Score,
				rec.MaxScore,
				rec.TimeSpent,
				rec.QuestionCount,
				string(rec.Status),
			); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// ClearAll removes the snapshot and the exam history.
func (s *Store) ClearAll(ctx context.Context) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	for _, stmt := range []string{`DELETE FROM snapshots`, `DELETE FROM exam_history`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}
