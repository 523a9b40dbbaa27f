package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Pratham82/real-time-notes/internal/state"
)

const schema = `
CREATE TABLE IF NOT EXISTS strokes (
	id         TEXT PRIMARY KEY,
	color      TEXT NOT NULL,
	thickness  REAL NOT NULL,
	points     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS strokes_created_at ON strokes (created_at);
`

// SQLiteBackend persists the stroke table in a SQLite file so a board
// survives host restarts.
type SQLiteBackend struct {
	db *sql.DB
}

func OpenSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) SelectAll() ([]state.Stroke, error) {
	rows, err := b.db.Query(
		`SELECT id, color, thickness, points, created_at FROM strokes ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("select strokes: %w", err)
	}
	defer rows.Close()

	var out []state.Stroke
	for rows.Next() {
		var s state.Stroke
		var points string
		if err := rows.Scan(&s.ID, &s.Color, &s.Thickness, &points, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stroke: %w", err)
		}
		if err := json.Unmarshal([]byte(points), &s.Points); err != nil {
			return nil, fmt.Errorf("decode points for %s: %w", s.ID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (b *SQLiteBackend) Upsert(s state.Stroke) (bool, error) {
	points, err := json.Marshal(s.Points)
	if err != nil {
		return false, fmt.Errorf("encode points for %s: %w", s.ID, err)
	}

	tx, err := b.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT COUNT(1) FROM strokes WHERE id = ?`, s.ID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("probe stroke %s: %w", s.ID, err)
	}

	if exists > 0 {
		_, err = tx.Exec(
			`UPDATE strokes SET color = ?, thickness = ?, points = ? WHERE id = ?`,
			s.Color, s.Thickness, string(points), s.ID)
	} else {
		_, err = tx.Exec(
			`INSERT INTO strokes (id, color, thickness, points, created_at) VALUES (?, ?, ?, ?, ?)`,
			s.ID, s.Color, s.Thickness, string(points), time.Now().UTC())
	}
	if err != nil {
		return false, fmt.Errorf("upsert stroke %s: %w", s.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit upsert: %w", err)
	}
	return exists == 0, nil
}

func (b *SQLiteBackend) DeleteAll() error {
	if _, err := b.db.Exec(`DELETE FROM strokes`); err != nil {
		return fmt.Errorf("delete strokes: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
