package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/seantiz/rssd/internal/model"

	_ "modernc.org/sqlite"
)

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id          TEXT PRIMARY KEY,
    type        TEXT NOT NULL,
    scene       TEXT NOT NULL DEFAULT '',
    error       TEXT NOT NULL DEFAULT '',
    frames      INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER,
    created_at  DATETIME NOT NULL
)`

const createEventsTypeIndex = `CREATE INDEX IF NOT EXISTS events_type ON events (type)`

// ErrNotFound is returned when an event is not found.
var ErrNotFound = errors.New("event not found")

// Compile-time interface satisfaction check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the SQLite database at dbPath and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to ":memory:" is its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	for _, stmt := range []string{createEventsTable, createEventsTypeIndex} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create events table: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertEvent appends an event to the journal.
func (s *SQLiteStore) InsertEvent(ctx context.Context, e *model.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, type, scene, error, frames, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Type, e.Scene, e.Error, int64(e.Frames), e.DurationMS, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

const selectEvent = `SELECT id, type, scene, error, frames, duration_ms, created_at FROM events`

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*model.Event, error) {
	e := &model.Event{}
	var frames int64
	if err := row.Scan(&e.ID, &e.Type, &e.Scene, &e.Error, &frames, &e.DurationMS, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Frames = uint64(frames)
	return e, nil
}

// GetEvent retrieves an event by ID.
func (s *SQLiteStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx, selectEvent+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListEvents returns a page of events, newest first, along with the total
// number of journaled events. IDs are ULIDs, so ordering by ID breaks ties
// between events created in the same instant.
func (s *SQLiteStore) ListEvents(ctx context.Context, limit, offset int) ([]*model.Event, int, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin read tx: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		selectEvent+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate events: %w", err)
	}

	return events, total, nil
}

// GetEventStats returns the journal size, a count per event type and the
// average duration of successful scene loads.
func (s *SQLiteStore) GetEventStats(ctx context.Context) (*EventStats, error) {
	stats := &EventStats{CountByType: make(map[string]int)}

	rows, err := s.db.QueryContext(ctx, "SELECT type, COUNT(*) FROM events GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("count events by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		stats.CountByType[typ] = n
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event counts: %w", err)
	}

	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx,
		"SELECT AVG(duration_ms) FROM events WHERE type = ? AND duration_ms IS NOT NULL",
		model.EventSceneLoaded,
	).Scan(&avg); err != nil {
		return nil, fmt.Errorf("average scene load: %w", err)
	}
	if avg.Valid {
		stats.AvgSceneLoadMS = avg.Float64
	}

	return stats, nil
}
