package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"project-rows/internal/config"
	"project-rows/internal/models"
)

// collectionName keys the single stored document in the SQL backends.
const collectionName = "rows"

var (
	ErrCorrupt       = errors.New("stored rows are not a valid JSON array")
	ErrUnknownDriver = errors.New("unknown database driver")
)

// Store loads and saves the whole row collection. Every call reads or
// rewrites everything; there are no partial updates and no locking, so
// concurrent writers race and the last Save wins.
type Store interface {
	Load(ctx context.Context) (models.Collection, error)
	Save(ctx context.Context, rows models.Collection) error
	Close() error
}

// Connect opens the backend selected by cfg.Driver.
func Connect(ctx context.Context, cfg config.DBConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverFile, "":
		return NewFileStore(cfg.Path), nil
	case config.DriverSQLite:
		return NewSQLiteStore(ctx, cfg.Path)
	case config.DriverPostgres:
		return NewPostgresStore(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// encodeCollection renders rows the way they are kept on disk: an indented
// JSON array with a trailing newline. A nil collection is written as [].
func encodeCollection(rows models.Collection) ([]byte, error) {
	if rows == nil {
		rows = models.Collection{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(rows); err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeCollection parses a stored document. Numbers stay json.Number so a
// load/save cycle does not rewrite them.
func decodeCollection(data []byte) (models.Collection, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rows models.Collection
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after array", ErrCorrupt)
	}
	if rows == nil {
		rows = models.Collection{}
	}
	return rows, nil
}
