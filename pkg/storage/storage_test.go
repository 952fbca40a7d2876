package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"archcanvas/pkg/config"
	"archcanvas/pkg/diagram"
)

func testDescription() diagram.Description {
	return diagram.Description{
		Nodes: []diagram.NodeSpec{
			{ID: "db", Label: "Postgres", Type: diagram.TypeDatabase, Position: diagram.Position{X: 100, Y: 300}},
			{ID: "api", Label: "API", Type: diagram.TypeAPI, Position: diagram.Position{X: 300, Y: 100}},
		},
		Edges: []diagram.EdgeSpec{
			{ID: "e1", Source: "api", Target: "db", Kind: diagram.KindAnimated},
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "diagram.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if got != nil {
		t.Fatalf("Load empty = %+v, want nil", got)
	}

	want := testDescription()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Load = nil after Save")
	}
	if len(got.Nodes) != 2 || len(got.Edges) != 1 {
		t.Fatalf("Load = %d nodes %d edges, want 2 and 1", len(got.Nodes), len(got.Edges))
	}
	if got.Nodes[0].ID != "db" || got.Nodes[0].Position.Y != 300 {
		t.Errorf("node round trip lost data: %+v", got.Nodes[0])
	}
}

func TestFileStoreClear(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "diagram.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear empty store: %v", err)
	}

	if err := store.Save(ctx, testDescription()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load after Clear: %v", err)
	}
	if got != nil {
		t.Fatalf("Load after Clear = %+v, want nil", got)
	}
}

func TestFileStoreRejectsCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "diagram.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if _, err := store.Load(ctx); err == nil {
		t.Fatal("Load corrupt snapshot succeeded, want error")
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, config.Storage{Backend: config.StorageNone})
	if err != nil {
		t.Fatalf("Open none: %v", err)
	}
	if _, ok := store.(*NullStore); !ok {
		t.Fatalf("Open none = %T, want *NullStore", store)
	}

	store, err = Open(ctx, config.Storage{
		Backend: config.StorageFile,
		Path:    filepath.Join(t.TempDir(), "diagram.json"),
	})
	if err != nil {
		t.Fatalf("Open file: %v", err)
	}
	if _, ok := store.(*FileStore); !ok {
		t.Fatalf("Open file = %T, want *FileStore", store)
	}

	if _, err := Open(ctx, config.Storage{Backend: "cassandra"}); err == nil {
		t.Fatal("Open unknown backend succeeded, want error")
	}
}

func TestNullStoreIsInert(t *testing.T) {
	ctx := context.Background()
	store := NewNullStore()

	if err := store.Save(ctx, testDescription()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Fatalf("Load = %+v, want nil", got)
	}
}
