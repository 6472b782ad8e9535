package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"project-rows/internal/models"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS collections (
    name TEXT PRIMARY KEY,
    body TEXT NOT NULL
)`

// SQLiteStore keeps the collection as a single document row in an embedded
// SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one connection, otherwise every pooled conn to :memory: is its own database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create collections table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (models.Collection, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM collections WHERE name = ?`, collectionName).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rows: %w", err)
	}
	return decodeCollection([]byte(body))
}

func (s *SQLiteStore) Save(ctx context.Context, rows models.Collection) error {
	data, err := encodeCollection(rows)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO collections (name, body) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body
	`
	if _, err := s.db.ExecContext(ctx, query, collectionName, string(data)); err != nil {
		return fmt.Errorf("failed to save rows: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
