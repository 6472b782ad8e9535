package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"project-rows/internal/models"
)

// FileStore keeps the collection in one JSON file.
type FileStore struct {
	Path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load returns an empty collection when the file does not exist yet.
func (s *FileStore) Load(ctx context.Context) (models.Collection, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	rows, err := decodeCollection(data)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	return rows, nil
}

// Save truncates and rewrites the file in place. It is not atomic.
func (s *FileStore) Save(ctx context.Context, rows models.Collection) error {
	data, err := encodeCollection(rows)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.Path, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
