// Package storage persists the current diagram across restarts.
//
// The server treats storage as best effort: a failed save is logged and
// the in-memory diagram stays authoritative. Backends:
//
//   - none: no persistence, the server starts empty (default)
//   - file: a JSON snapshot on local disk, for single-instance setups
//   - mongo: a MongoDB document, for deployments that share state
package storage

import (
	"context"

	"archcanvas/pkg/config"
	"archcanvas/pkg/diagram"
	"archcanvas/pkg/errors"
)

// Store persists at most one diagram, the current one. Saving replaces
// any previous snapshot wholesale.
type Store interface {
	// Load returns the stored diagram, or (nil, nil) when none exists.
	Load(ctx context.Context) (*diagram.Description, error)

	// Save replaces the stored diagram.
	Save(ctx context.Context, d diagram.Description) error

	// Clear removes the stored diagram. Clearing an empty store is not
	// an error.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Open creates the store the configuration selects.
func Open(ctx context.Context, cfg config.Storage) (Store, error) {
	switch cfg.Backend {
	case config.StorageNone, "":
		return NewNullStore(), nil
	case config.StorageFile:
		return NewFileStore(cfg.Path)
	case config.StorageMongo:
		return NewMongoStore(ctx, cfg.MongoURI)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown storage backend %q", cfg.Backend)
	}
}

// NullStore discards saves and never has a diagram to load.
type NullStore struct{}

func NewNullStore() *NullStore { return &NullStore{} }

func (s *NullStore) Load(ctx context.Context) (*diagram.Description, error) { return nil, nil }
func (s *NullStore) Save(ctx context.Context, d diagram.Description) error { return nil }
func (s *NullStore) Clear(ctx context.Context) error { return nil }
func (s *NullStore) Close(ctx context.Context) error { return nil }
