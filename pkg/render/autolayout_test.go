package render

import (
	"context"
	"strings"
	"testing"

	"archcanvas/pkg/diagram"
)

func TestNeedsLayout(t *testing.T) {
	tests := []struct {
		name string
		d    diagram.Description
		want bool
	}{
		{"empty", diagram.Description{}, false},
		{"all at origin", diagram.Description{
			Nodes: []diagram.NodeSpec{{ID: "a"}, {ID: "b"}},
		}, true},
		{"one positioned", diagram.Description{
			Nodes: []diagram.NodeSpec{{ID: "a"}, {ID: "b", Position: diagram.Position{X: 10}}},
		}, false},
		{"all positioned", diagram.Description{
			Nodes: []diagram.NodeSpec{
				{ID: "a", Position: diagram.Position{X: 1, Y: 2}},
				{ID: "b", Position: diagram.Position{X: 3, Y: 4}},
			},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsLayout(tt.d); got != tt.want {
				t.Errorf("needsLayout = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAutoLayoutSkipsPositionedDiagram(t *testing.T) {
	d := threeNodeDescription()
	out, err := AutoLayout(context.Background(), d)
	if err != nil {
		t.Fatalf("AutoLayout: %v", err)
	}
	for i := range d.Nodes {
		if out.Nodes[i].Position != d.Nodes[i].Position {
			t.Errorf("node %s moved: %+v -> %+v", d.Nodes[i].ID, d.Nodes[i].Position, out.Nodes[i].Position)
		}
	}
}

func TestToDOT(t *testing.T) {
	dot := toDOT(diagram.Description{
		Nodes: []diagram.NodeSpec{
			{ID: "api", Label: "API Server"},
			{ID: "db"},
		},
		Edges: []diagram.EdgeSpec{{ID: "e1", Source: "api", Target: "db"}},
	})

	for _, want := range []string{
		"digraph G {",
		`"api" [label="API Server"];`,
		`"db" [label="db"];`, // falls back to the id
		`"api" -> "db";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("dot missing %q:\n%s", want, dot)
		}
	}
}

func TestExtractPositions(t *testing.T) {
	xdot := `digraph G {
	graph [bb="0,0,400,300"];
	node [shape=box];
	api	[height=1, label="API Server", pos="127.5,234", width=2.5];
	"load balancer"	[height=1, pos="60,120", width=2.5];
	db	[height=1, pos="127.5,18", width=2.5];
	api -> db	[pos="e,127.5,54.2 127.5,197.8 127.5,160 127.5,105 127.5,64.5"];
}`

	positions, maxY := extractPositions([]byte(xdot))

	if len(positions) != 3 {
		t.Fatalf("positions = %d, want 3: %v", len(positions), positions)
	}
	if p := positions["api"]; p.X != 127.5 || p.Y != 234 {
		t.Errorf("api = %+v", p)
	}
	if p, ok := positions["load balancer"]; !ok || p.X != 60 || p.Y != 120 {
		t.Errorf("quoted id = %+v (present %v)", p, ok)
	}
	if p := positions["db"]; p.X != 127.5 || p.Y != 18 {
		t.Errorf("db = %+v", p)
	}
	if maxY != 234 {
		t.Errorf("maxY = %v, want 234", maxY)
	}
}

func TestExtractPositionsIgnoresEdges(t *testing.T) {
	xdot := `digraph G {
	a -> b	[pos="e,10,20 30,40 50,60"];
}`
	positions, _ := extractPositions([]byte(xdot))
	if len(positions) != 0 {
		t.Errorf("edge statement matched as node: %v", positions)
	}
}

func TestUnescapeDOT(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{`with\"quote`, `with"quote`},
		{`back\\slash`, `back\slash`},
	}

	for _, tt := range tests {
		if got := unescapeDOT(tt.in); got != tt.want {
			t.Errorf("unescapeDOT(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
