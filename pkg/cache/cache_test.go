package cache

import (
	"context"
	"testing"
	"time"

	"archcanvas/pkg/diagram"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get missing = %v, %v", ok, err)
	}

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, ok, err := c.Get(ctx, "key")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if string(data) != "value" {
		t.Errorf("data = %q", data)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("expired entry returned as hit")
	}
}

func TestNullCacheAlwaysMisses(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("null cache returned a hit")
	}
}

func unpositioned() diagram.Description {
	return diagram.Description{
		Nodes: []diagram.NodeSpec{
			{ID: "a", Label: "A"},
			{ID: "b", Label: "B"},
		},
		Edges: []diagram.EdgeSpec{{ID: "e", Source: "a", Target: "b"}},
	}
}

func TestLayoutsMemoizes(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	layouts := NewLayouts(c)
	ctx := context.Background()

	computes := 0
	compute := func(_ context.Context, d diagram.Description) (diagram.Description, error) {
		computes++
		out := d
		out.Nodes = append([]diagram.NodeSpec(nil), d.Nodes...)
		out.Nodes[0].Position = diagram.Position{X: 10, Y: 20}
		out.Nodes[1].Position = diagram.Position{X: 30, Y: 40}
		return out, nil
	}

	first, err := layouts.Resolve(ctx, unpositioned(), compute)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := layouts.Resolve(ctx, unpositioned(), compute)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if computes != 1 {
		t.Errorf("computes = %d, want 1", computes)
	}
	if first.Nodes[0].Position != second.Nodes[0].Position {
		t.Errorf("positions differ: %+v vs %+v", first.Nodes[0].Position, second.Nodes[0].Position)
	}
}

func TestLayoutsKeepsExplicitPositions(t *testing.T) {
	layouts := NewLayouts(NewNullCache())
	ctx := context.Background()

	d := unpositioned()
	d.Nodes[0].Position = diagram.Position{X: 999, Y: 1}

	out, err := layouts.Resolve(ctx, d, func(_ context.Context, d diagram.Description) (diagram.Description, error) {
		t.Fatal("compute called for a positioned description")
		return d, nil
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Nodes[0].Position.X != 999 {
		t.Errorf("explicit position lost: %+v", out.Nodes[0].Position)
	}
}

func TestKeyIgnoresPayload(t *testing.T) {
	a := unpositioned()
	b := unpositioned()
	b.Nodes[0].Description = "different payload"
	b.Nodes[0].Metadata = map[string]any{"x": 1}

	if Key(a) != Key(b) {
		t.Error("payload changes altered the layout key")
	}

	c := unpositioned()
	c.Edges[0].Target = "a" // different structure
	c.Edges[0].Source = "b"
	if Key(a) == Key(c) {
		t.Error("structural change did not alter the layout key")
	}
}
