package render

import (
	"context"
	"testing"

	"archcanvas/pkg/diagram"
	"archcanvas/pkg/errors"
)

func newTestSurface(t *testing.T, cb Callbacks) *Surface {
	t.Helper()
	s := NewSurface(cb)
	if err := s.SetDescription(context.Background(), threeNodeDescription()); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	return s
}

func TestSetDescriptionRejectsInvalid(t *testing.T) {
	s := NewSurface(Callbacks{})
	if err := s.SetDescription(context.Background(), threeNodeDescription()); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}

	bad := diagram.Description{
		Nodes: []diagram.NodeSpec{{ID: "a"}},
		Edges: []diagram.EdgeSpec{{ID: "e", Source: "a", Target: "missing"}},
	}
	err := s.SetDescription(context.Background(), bad)
	if errors.GetCode(err) != errors.ErrCodeInvalidEdge {
		t.Fatalf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidEdge)
	}

	// Prior state survives a rejected ingestion.
	if len(s.Nodes()) != 3 {
		t.Errorf("nodes = %d after rejected update, want 3", len(s.Nodes()))
	}
}

func TestHoverSingleNode(t *testing.T) {
	s := newTestSurface(t, Callbacks{})

	tip, err := s.HoverEnter("api")
	if err != nil {
		t.Fatalf("HoverEnter: %v", err)
	}
	if tip.NodeID != "api" {
		t.Errorf("tooltip node = %q", tip.NodeID)
	}
	if want := 300 + NodeWidth + tooltipOffset; tip.X != want {
		t.Errorf("tooltip X = %v, want %v", tip.X, want)
	}
	if tip.Y != 100 {
		t.Errorf("tooltip Y = %v, want 100", tip.Y)
	}

	// Entering another node displaces the first hover.
	if _, err := s.HoverEnter("db"); err != nil {
		t.Fatalf("HoverEnter: %v", err)
	}
	hovered := 0
	for _, n := range s.Nodes() {
		if n.Hovered {
			hovered++
			if n.ID != "db" {
				t.Errorf("hovered node = %q, want db", n.ID)
			}
		}
	}
	if hovered != 1 {
		t.Errorf("hovered count = %d, want 1", hovered)
	}
}

func TestHoverLeaveIdempotent(t *testing.T) {
	s := newTestSurface(t, Callbacks{})

	if _, err := s.HoverEnter("api"); err != nil {
		t.Fatalf("HoverEnter: %v", err)
	}
	s.HoverLeave("api")
	s.HoverLeave("api")
	s.HoverLeave("db")

	if id, ok := s.Hovered(); ok {
		t.Errorf("still hovered: %q", id)
	}
}

func TestHoverUnknownNode(t *testing.T) {
	s := newTestSurface(t, Callbacks{})
	_, err := s.HoverEnter("nope")
	if errors.GetCode(err) != errors.ErrCodeNodeNotFound {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeNodeNotFound)
	}
}

func TestReplaceDiscardsDragAndHover(t *testing.T) {
	s := newTestSurface(t, Callbacks{})

	if err := s.DragTo("api", diagram.Position{X: 999, Y: 999}); err != nil {
		t.Fatalf("DragTo: %v", err)
	}
	if _, err := s.HoverEnter("api"); err != nil {
		t.Fatalf("HoverEnter: %v", err)
	}
	s.SetViewport(Viewport{TranslateX: 50, Zoom: 2})

	if err := s.SetDescription(context.Background(), threeNodeDescription()); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}

	for _, n := range s.Nodes() {
		if n.ID == "api" && (n.Position.X != 300 || n.Position.Y != 100) {
			t.Errorf("drag survived replace: %+v", n.Position)
		}
		if n.Hovered {
			t.Errorf("hover survived replace: %q", n.ID)
		}
	}
	if v := s.Viewport(); v != identityViewport {
		t.Errorf("viewport survived replace: %+v", v)
	}
}

func TestActivatePayload(t *testing.T) {
	var gotID string
	var gotData NodeData
	s := newTestSurface(t, Callbacks{
		OnNodeActivated: func(id string, data NodeData) {
			gotID = id
			gotData = data
		},
	})

	if err := s.Activate(context.Background(), "api"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if gotID != "api" {
		t.Errorf("id = %q", gotID)
	}
	if gotData.Label != "API Server" || gotData.Description != "Primary REST API" {
		t.Errorf("data = %+v", gotData)
	}
}

func TestRequestDeleteNeverActivates(t *testing.T) {
	var activated, deleted []string
	s := newTestSurface(t, Callbacks{
		OnNodeActivated:       func(id string, _ NodeData) { activated = append(activated, id) },
		OnNodeDeleteRequested: func(id string) { deleted = append(deleted, id) },
	})

	if err := s.RequestDelete(context.Background(), "cache"); err != nil {
		t.Fatalf("RequestDelete: %v", err)
	}
	if len(activated) != 0 {
		t.Errorf("activation fired on delete: %v", activated)
	}
	if len(deleted) != 1 || deleted[0] != "cache" {
		t.Errorf("deleted = %v", deleted)
	}

	// The surface itself does not delete; the owner sends a new description.
	if len(s.Nodes()) != 3 {
		t.Errorf("nodes = %d, want 3", len(s.Nodes()))
	}
}

func TestNilCallbacksAreNoops(t *testing.T) {
	s := newTestSurface(t, Callbacks{})
	if err := s.Activate(context.Background(), "db"); err != nil {
		t.Errorf("Activate with nil callback: %v", err)
	}
	if err := s.RequestDelete(context.Background(), "db"); err != nil {
		t.Errorf("RequestDelete with nil callback: %v", err)
	}
}

func TestSetEdgeLabelsHiddenReturnsPrev(t *testing.T) {
	s := newTestSurface(t, Callbacks{})

	if prev := s.SetEdgeLabelsHidden(true); prev {
		t.Error("prev = true on fresh surface")
	}
	if !s.EdgeLabelsHidden() {
		t.Error("labels not hidden")
	}
	if prev := s.SetEdgeLabelsHidden(false); !prev {
		t.Error("prev = false after hiding")
	}
}

func TestSnapshotConsistency(t *testing.T) {
	s := newTestSurface(t, Callbacks{})
	s.SetEdgeLabelsHidden(true)

	scene := s.Snapshot()
	if !scene.HasDiagram {
		t.Error("HasDiagram = false")
	}
	if scene.ShowEdgeLabels {
		t.Error("ShowEdgeLabels = true while hidden")
	}
	if len(scene.Nodes) != 3 || len(scene.Edges) != 2 {
		t.Errorf("scene = %d nodes / %d edges", len(scene.Nodes), len(scene.Edges))
	}

	// Mutating the snapshot must not reach the surface.
	scene.Nodes[0].Position.X = -1
	if s.Nodes()[0].Position.X == -1 {
		t.Error("snapshot aliases surface state")
	}
}

func TestClearAndEmpty(t *testing.T) {
	s := newTestSurface(t, Callbacks{})
	if s.Empty() {
		t.Fatal("Empty = true with diagram")
	}
	s.Clear()
	if !s.Empty() {
		t.Error("Empty = false after Clear")
	}
	if len(s.Nodes()) != 0 {
		t.Errorf("nodes = %d after Clear", len(s.Nodes()))
	}
}
