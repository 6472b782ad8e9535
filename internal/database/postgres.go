package database

import (
	"context"
	"errors"
	"fmt"

	"project-rows/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS collections (
    name TEXT PRIMARY KEY,
    body TEXT NOT NULL
)`

// PostgresStore keeps the collection as a single document row in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	if connStr == "" {
		return nil, errors.New("DATABASE_URL environment variable is not set")
	}
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create collections table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (models.Collection, error) {
	var body string
	err := s.pool.QueryRow(ctx, `SELECT body FROM collections WHERE name = $1`, collectionName).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rows: %w", err)
	}
	return decodeCollection([]byte(body))
}

func (s *PostgresStore) Save(ctx context.Context, rows models.Collection) error {
	data, err := encodeCollection(rows)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO collections (name, body) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body
	`
	if _, err := s.pool.Exec(ctx, query, collectionName, string(data)); err != nil {
		return fmt.Errorf("failed to save rows: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
