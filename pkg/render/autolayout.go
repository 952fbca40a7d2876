package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"archcanvas/pkg/diagram"
)

// Graphviz emits positions in points with the origin at the bottom-left;
// the canvas uses pixels with the origin at the top-left.
const layoutScale = 1.6

// AutoLayout assigns canvas positions to a description using the Graphviz
// dot engine. It is used when a generator emits nodes without usable
// positions (all nodes at the origin); descriptions that already carry
// positions are returned unchanged.
//
// The returned description is a copy; the input is not mutated.
func AutoLayout(ctx context.Context, d diagram.Description) (diagram.Description, error) {
	if !needsLayout(d) {
		return d, nil
	}

	dot := toDOT(d)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return diagram.Description{}, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return diagram.Description{}, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return diagram.Description{}, fmt.Errorf("layout: %w", err)
	}

	positions, maxY := extractPositions(buf.Bytes())

	out := d
	out.Nodes = make([]diagram.NodeSpec, len(d.Nodes))
	copy(out.Nodes, d.Nodes)
	for i := range out.Nodes {
		if p, ok := positions[out.Nodes[i].ID]; ok {
			out.Nodes[i].Position = diagram.Position{
				X: p.X * layoutScale,
				// Flip the y axis so the graph reads top-down.
				Y: (maxY - p.Y) * layoutScale,
			}
		}
	}
	return out, nil
}

// needsLayout reports whether every node sits at the origin, which is how
// generators signal "no layout computed".
func needsLayout(d diagram.Description) bool {
	if len(d.Nodes) == 0 {
		return false
	}
	for _, n := range d.Nodes {
		if n.Position.X != 0 || n.Position.Y != 0 {
			return false
		}
	}
	return true
}

// toDOT converts a description to Graphviz DOT for layout purposes only.
// Labels approximate on-canvas node size so dot spaces nodes realistically.
func toDOT(d diagram.Description) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  node [shape=box, width=%.2f, height=%.2f, fixedsize=true];\n",
		NodeWidth/72.0, NodeHeight/72.0) // points → inches
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, n.DisplayLabel())
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodePosRe matches a node statement with its computed pos attribute in
// xdot output, e.g. `api [... pos="127.5,234", ...]`. Graphviz quotes ids
// only when they contain characters outside the bare-identifier set, so the
// pattern accepts both forms. Edge statements never match: their pos values
// start with the "e," endpoint prefix, not a number.
var nodePosRe = regexp.MustCompile(`(?m)^\s*("(?:[^"\\]|\\.)*"|[A-Za-z0-9_.]+)\s*\[[^\]]*?\bpos="(-?[0-9.]+),(-?[0-9.]+)"`)

func extractPositions(xdot []byte) (map[string]diagram.Position, float64) {
	positions := make(map[string]diagram.Position)
	var maxY float64

	for _, m := range nodePosRe.FindAllSubmatch(xdot, -1) {
		id := string(m[1])
		if len(id) >= 2 && id[0] == '"' {
			id = unescapeDOT(id[1 : len(id)-1])
		}
		x, errX := strconv.ParseFloat(string(m[2]), 64)
		y, errY := strconv.ParseFloat(string(m[3]), 64)
		if errX != nil || errY != nil {
			continue
		}
		positions[id] = diagram.Position{X: x, Y: y}
		if y > maxY {
			maxY = y
		}
	}
	return positions, maxY
}

func unescapeDOT(s string) string {
	if !bytes.ContainsRune([]byte(s), '\\') {
		return s
	}
	var out []byte
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		out = append(out, s[i])
	}
	return string(out)
}
