// Package sqlite keeps tick statistics in a local SQLite file. It backs the
// simctl batch runner, which has no Postgres available.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"covidsim/internal/app/ports"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS tick_stats (
    session_id TEXT NOT NULL,
    tick INTEGER NOT NULL,
    healthy INTEGER NOT NULL,
    sick INTEGER NOT NULL,
    dead INTEGER NOT NULL,
    at_home INTEGER NOT NULL,
    walking INTEGER NOT NULL,
    going_home INTEGER NOT NULL,
    new_infections INTEGER NOT NULL,
    recoveries INTEGER NOT NULL,
    deaths INTEGER NOT NULL,
    removed INTEGER NOT NULL,
    recorded_at TEXT NOT NULL,
    PRIMARY KEY (session_id, tick)
);
`

// TickStatsStore implements ports.TickStatsRepository on SQLite.
type TickStatsStore struct {
	db *sql.DB
}

// Open creates the database file and its parent directory when missing.
func Open(path string) (*TickStatsStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &TickStatsStore{db: db}, nil
}

func (s *TickStatsStore) Append(ctx context.Context, records []ports.TickStatsRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tick_stats (
			session_id, tick, healthy, sick, dead, at_home, walking, going_home,
			new_infections, recoveries, deaths, removed, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			r.SessionID, r.Tick, r.Healthy, r.Sick, r.Dead, r.AtHome, r.Walking, r.GoingHome,
			r.NewInfections, r.Recoveries, r.Deaths, r.Removed, r.RecordedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return fmt.Errorf("%w: session %s tick %d", ports.ErrConflict, r.SessionID, r.Tick)
			}
			return fmt.Errorf("insert tick %d: %w", r.Tick, err)
		}
	}
	return tx.Commit()
}

func (s *TickStatsStore) ListBySession(ctx context.Context, sessionID string, limit int) ([]ports.TickStatsRecord, error) {
	query := `
		SELECT session_id, tick, healthy, sick, dead, at_home, walking, going_home,
		       new_infections, recoveries, deaths, removed, recorded_at
		FROM tick_stats WHERE session_id = ? ORDER BY tick DESC`
	args := []any{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tick stats: %w", err)
	}
	defer rows.Close()

	out := []ports.TickStatsRecord{}
	for rows.Next() {
		var (
			r          ports.TickStatsRecord
			recordedAt string
		)
		if err := rows.Scan(
			&r.SessionID, &r.Tick, &r.Healthy, &r.Sick, &r.Dead, &r.AtHome, &r.Walking, &r.GoingHome,
			&r.NewInfections, &r.Recoveries, &r.Deaths, &r.Removed, &recordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tick stats: %w", err)
		}
		if r.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("parse recorded_at: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *TickStatsStore) Close() error {
	return s.db.Close()
}
