package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS reservations (
	user_id TEXT PRIMARY KEY,
	slot    TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS display_config (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	channel_id TEXT NOT NULL DEFAULT '',
	message_id TEXT NOT NULL DEFAULT ''
);`

// SQLite stores everything in one database file. The uniqueness invariants are
// table constraints, so they hold even with several writers on the same file.
type SQLite struct {
	path string
	db   *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{path: path, db: db}, nil
}

func (s *SQLite) List(ctx context.Context) ([]Reservation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, slot FROM reservations ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	out := []Reservation{}
	for rows.Next() {
		var r Reservation
		if err := rows.Scan(&r.UserID, &r.Slot); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) ByUser(ctx context.Context, userID string) (Reservation, error) {
	return s.one(ctx, `SELECT user_id, slot FROM reservations WHERE user_id = ?`, userID)
}

func (s *SQLite) BySlot(ctx context.Context, slot string) (Reservation, error) {
	return s.one(ctx, `SELECT user_id, slot FROM reservations WHERE slot = ?`, slot)
}

func (s *SQLite) one(ctx context.Context, query string, arg string) (Reservation, error) {
	var r Reservation
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&r.UserID, &r.Slot)
	if errors.Is(err, sql.ErrNoRows) {
		return Reservation{}, ErrNotFound
	}
	if err != nil {
		return Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	return r, nil
}

func (s *SQLite) Insert(ctx context.Context, r Reservation) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO reservations (user_id, slot) VALUES (?, ?)`, r.UserID, r.Slot)
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "reservations.user_id"):
		return ErrUserReserved
	case strings.Contains(msg, "reservations.slot"):
		return ErrSlotTaken
	}
	return fmt.Errorf("insert reservation: %w", err)
}

func (s *SQLite) DeleteByUser(ctx context.Context, userID string) (int, error) {
	return s.exec(ctx, `DELETE FROM reservations WHERE user_id = ?`, userID)
}

func (s *SQLite) DeleteAll(ctx context.Context) (int, error) {
	return s.exec(ctx, `DELETE FROM reservations`)
}

func (s *SQLite) exec(ctx context.Context, query string, args ...any) (int, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete reservations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLite) Display(ctx context.Context) (DisplayConfig, error) {
	var cfg DisplayConfig
	err := s.db.QueryRowContext(ctx, `SELECT channel_id, message_id FROM display_config WHERE id = 1`).
		Scan(&cfg.ChannelID, &cfg.MessageID)
	if errors.Is(err, sql.ErrNoRows) {
		return DisplayConfig{}, nil
	}
	if err != nil {
		return DisplayConfig{}, fmt.Errorf("get display config: %w", err)
	}
	return cfg, nil
}

func (s *SQLite) SaveDisplay(ctx context.Context, cfg DisplayConfig) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO display_config (id, channel_id, message_id) VALUES (1, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	channel_id = CASE WHEN excluded.channel_id <> '' THEN excluded.channel_id ELSE display_config.channel_id END,
	message_id = CASE WHEN excluded.message_id <> '' THEN excluded.message_id ELSE display_config.message_id END`,
		cfg.ChannelID, cfg.MessageID)
	if err != nil {
		return fmt.Errorf("save display config: %w", err)
	}
	return nil
}

func (s *SQLite) Close(ctx context.Context) error {
	return s.db.Close()
}
