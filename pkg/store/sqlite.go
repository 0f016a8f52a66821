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

	"github.com/mattn/go-sqlite3"

	"github.com/vctt94/holdemtable/pkg/poker"
)

// SQLiteDB stores rooms in a SQLite file.
type SQLiteDB struct {
	*sql.DB
}

var _ Database = (*SQLiteDB)(nil)

// NewSQLiteDB opens (creating if needed) the database at dbPath.
func NewSQLiteDB(dbPath string) (*SQLiteDB, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; a single connection avoids lock churn.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteDB{db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS rooms (
			code TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			state TEXT NOT NULL,
			version INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	return err
}

// CreateRoom inserts a new room.
func (db *SQLiteDB) CreateRoom(ctx context.Context, room *Room) error {
	state, err := json.Marshal(room.State)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	now := time.Now()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = room.CreatedAt
	room.Version = 1

	_, err = db.ExecContext(ctx, `
		INSERT INTO rooms (code, status, state, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, room.Code, string(room.Status), string(state), room.Version,
		room.CreatedAt.UnixNano(), room.UpdatedAt.UnixNano())
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return ErrExists
	}
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	log.Debugf("created room %s", room.Code)
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRoom(row rowScanner) (*Room, error) {
	var (
		room             Room
		status, state    string
		created, updated int64
	)
	if err := row.Scan(&room.Code, &status, &state, &room.Version, &created, &updated); err != nil {
		return nil, err
	}
	room.Status = RoomStatus(status)
	room.CreatedAt = time.Unix(0, created)
	room.UpdatedAt = time.Unix(0, updated)
	room.State = new(poker.GameState)
	if err := json.Unmarshal([]byte(state), room.State); err != nil {
		return nil, fmt.Errorf("failed to decode state of room %s: %w", room.Code, err)
	}
	return &room, nil
}

// GetRoom loads a room by code.
func (db *SQLiteDB) GetRoom(ctx context.Context, code string) (*Room, error) {
	row := db.QueryRowContext(ctx, `
		SELECT code, status, state, version, created_at, updated_at
		FROM rooms WHERE code = ?
	`, code)
	room, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

// UpdateRoom writes room if nobody else has since the caller read it.
func (db *SQLiteDB) UpdateRoom(ctx context.Context, room *Room) error {
	state, err := json.Marshal(room.State)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	updated := room.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE rooms SET status = ?, state = ?, version = version + 1, updated_at = ?
		WHERE code = ? AND version = ?
	`, string(room.Status), string(state), updated.UnixNano(), room.Code, room.Version)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE code = ?`, room.Code).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrConflict
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	room.Version++
	room.UpdatedAt = updated
	return nil
}

// ListRooms returns every room.
func (db *SQLiteDB) ListRooms(ctx context.Context) ([]*Room, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT code, status, state, version, created_at, updated_at
		FROM rooms ORDER BY code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// DeleteRoom removes a room.
func (db *SQLiteDB) DeleteRoom(ctx context.Context, code string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM rooms WHERE code = ?`, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database connection
func (db *SQLiteDB) Close() error {
	return db.DB.Close()
}
