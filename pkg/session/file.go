package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the CLI's generation credential as a JSON file in a
// config directory, so one-shot export commands can reuse the credential
// from a previous run.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a credential store under baseDir.
// If baseDir is empty, defaults to ~/.config/archcanvas/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "archcanvas")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	return &FileStore{path: filepath.Join(baseDir, "session.json")}, nil
}

// Load reads the stored session. Returns nil, nil when none is stored.
func (s *FileStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &sess, nil
}

// Save writes the session, replacing any stored one.
func (s *FileStore) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Delete removes the stored session. Deleting a missing file is a no-op.
func (s *FileStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Path returns the session file path.
func (s *FileStore) Path() string {
	return s.path
}
