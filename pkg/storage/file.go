package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"archcanvas/pkg/diagram"
)

const fileStoreName = "diagram.json"

// FileStore keeps the diagram snapshot in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store at path. An empty path resolves to
// ~/.local/state/archcanvas/diagram.json.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".local", "state", "archcanvas", fileStoreName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(ctx context.Context) (*diagram.Description, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, nil
	}
	d, err := diagram.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *FileStore) Save(ctx context.Context, d diagram.Description) error {
	return diagram.WriteFile(d, s.path)
}

func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Close(ctx context.Context) error { return nil }

// Path returns the snapshot file location.
func (s *FileStore) Path() string { return s.path }
