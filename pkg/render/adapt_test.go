package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"archcanvas/pkg/diagram"
)

func threeNodeDescription() diagram.Description {
	return diagram.Description{
		Nodes: []diagram.NodeSpec{
			{ID: "db", Label: "Postgres", Type: diagram.TypeDatabase, Position: diagram.Position{X: 100, Y: 300}},
			{ID: "api", Label: "API Server", Type: diagram.TypeAPI, Position: diagram.Position{X: 300, Y: 100},
				Description: "Primary REST API", Inputs: []string{"https"}, Outputs: []string{"sql"}},
			{ID: "cache", Label: "Redis", Type: diagram.TypeCache, Position: diagram.Position{X: 500, Y: 300},
				Metadata: map[string]any{"ttl": "60s"}},
		},
		Edges: []diagram.EdgeSpec{
			{ID: "e1", Source: "api", Target: "db", Kind: diagram.KindAnimated},
			{ID: "e2", Source: "api", Target: "cache", Label: "reads", Kind: diagram.KindNormal},
		},
	}
}

func TestAdaptScenario(t *testing.T) {
	nodes, edges := Adapt(threeNodeDescription())

	if len(nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(nodes))
	}
	if len(edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(edges))
	}

	animated := 0
	for _, e := range edges {
		if e.Animated {
			animated++
		}
	}
	if animated != 1 {
		t.Errorf("animated edges = %d, want 1", animated)
	}
	if !edges[0].Animated || edges[1].Animated {
		t.Errorf("animated flags = %v/%v, want true/false", edges[0].Animated, edges[1].Animated)
	}
}

func TestAdaptIsPure(t *testing.T) {
	d := threeNodeDescription()

	nodes1, edges1 := Adapt(d)
	nodes2, edges2 := Adapt(d)

	if diff := cmp.Diff(nodes1, nodes2); diff != "" {
		t.Errorf("nodes differ between calls (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(edges1, edges2); diff != "" {
		t.Errorf("edges differ between calls (-first +second):\n%s", diff)
	}
}

func TestAdaptPreservesPayloadVerbatim(t *testing.T) {
	d := threeNodeDescription()
	nodes, _ := Adapt(d)

	var api Node
	for _, n := range nodes {
		if n.ID == "api" {
			api = n
		}
	}

	if api.Data.Description != "Primary REST API" {
		t.Errorf("Description = %q", api.Data.Description)
	}
	if len(api.Data.Inputs) != 1 || api.Data.Inputs[0] != "https" {
		t.Errorf("Inputs = %v", api.Data.Inputs)
	}
	if len(api.Data.Outputs) != 1 || api.Data.Outputs[0] != "sql" {
		t.Errorf("Outputs = %v", api.Data.Outputs)
	}
}

func TestAdaptDoesNotAliasMetadata(t *testing.T) {
	d := threeNodeDescription()
	nodes, _ := Adapt(d)

	d.Nodes[2].Metadata["ttl"] = "mutated"

	for _, n := range nodes {
		if n.ID == "cache" && n.Data.Metadata["ttl"] != "60s" {
			t.Errorf("metadata aliased: %v", n.Data.Metadata)
		}
	}
}

func TestAdaptAnimatedKindExactMatch(t *testing.T) {
	tests := []struct {
		kind string
		want bool
	}{
		{"animated", true},
		{"normal", false},
		{"", false},
		{"ANIMATED", false},
	}

	for _, tt := range tests {
		d := diagram.Description{
			Nodes: []diagram.NodeSpec{{ID: "a"}, {ID: "b"}},
			Edges: []diagram.EdgeSpec{{ID: "e", Source: "a", Target: "b", Kind: tt.kind}},
		}
		_, edges := Adapt(d)
		if edges[0].Animated != tt.want {
			t.Errorf("kind %q: Animated = %v, want %v", tt.kind, edges[0].Animated, tt.want)
		}
	}
}
