package render

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"slices"
)

// Canvas margins around the node bounding box.
const (
	marginX = 60.0
	marginY = 60.0
)

// Minimum frame size so tiny diagrams still render a usable canvas.
const (
	minFrameWidth  = 800.0
	minFrameHeight = 600.0
)

// typeColors maps node types to their fill colors. Unknown types fall back
// to defaultNodeColor.
var typeColors = map[string]string{
	"database":     "#3b82f6",
	"cache":        "#ef4444",
	"server":       "#10b981",
	"api":          "#8b5cf6",
	"loadbalancer": "#f59e0b",
	"queue":        "#ec4899",
	"cdn":          "#06b6d4",
	"gateway":      "#6366f1",
	"storage":      "#84cc16",
	"service":      "#64748b",
}

const defaultNodeColor = "#64748b"

const animatedEdgeCSS = `
    .edge { stroke: #94a3b8; stroke-width: 2; fill: none; }
    .edge.animated { stroke-dasharray: 8 4; animation: edge-flow 0.8s linear infinite; }
    @keyframes edge-flow { to { stroke-dashoffset: -12; } }
    .node { transition: filter 0.2s ease; }
    .node.hovered { filter: brightness(1.15); }`

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background        string
	identityTransform bool
}

// WithBackground fills the frame with an opaque background color.
// Without this option the background is transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithIdentityTransform renders the scene without applying the viewport's
// pan/zoom, so exported images are not skewed by the current view state.
func WithIdentityTransform() SVGOption {
	return func(r *svgRenderer) { r.identityTransform = true }
}

// RenderSVG renders the scene as an SVG document.
//
// Nodes draw as rounded rectangles colored by type, edges as lines between
// node centers with an optional animated dash style, and edge labels as text
// over a background pill. Edge-label decorations are omitted entirely when
// the scene has them hidden (scene.ShowEdgeLabels false).
//
// RenderSVG does not modify the scene and is safe to call concurrently.
func RenderSVG(scene Scene, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	if !scene.HasDiagram {
		return renderPlaceholder(r.background)
	}

	width, height := frameSize(scene.Nodes)

	nodes := slices.Clone(scene.Nodes)
	slices.SortFunc(nodes, func(a, b Node) int {
		return cmp.Compare(a.ID, b.ID)
	})

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", animatedEdgeCSS)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	transform := sceneTransform(scene.Viewport, r.identityTransform)
	fmt.Fprintf(&buf, "  <g%s>\n", transform)

	index := nodeIndex(nodes)
	for _, e := range scene.Edges {
		renderEdge(&buf, e, index, scene.ShowEdgeLabels)
	}
	for _, n := range nodes {
		renderNode(&buf, n)
	}

	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderPlaceholder draws the "no diagram yet" prompt. An absent description
// is a valid state, so this renders a hint rather than an error.
func renderPlaceholder(background string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		minFrameWidth, minFrameHeight, minFrameWidth, minFrameHeight)
	if background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", background)
	}
	fmt.Fprintf(&buf, `  <text x="%.0f" y="%.0f" text-anchor="middle" font-family="sans-serif" font-size="18" fill="#94a3b8">No diagram yet. Describe an architecture to get started.</text>`+"\n",
		minFrameWidth/2, minFrameHeight/2)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func frameSize(nodes []Node) (width, height float64) {
	width, height = minFrameWidth, minFrameHeight
	for _, n := range nodes {
		if w := n.Position.X + NodeWidth + marginX; w > width {
			width = w
		}
		if h := n.Position.Y + NodeHeight + marginY; h > height {
			height = h
		}
	}
	return width, height
}

func sceneTransform(v Viewport, identity bool) string {
	if identity {
		return ""
	}
	zoom := v.Zoom
	if zoom == 0 {
		zoom = 1
	}
	if v.TranslateX == 0 && v.TranslateY == 0 && zoom == 1 {
		return ""
	}
	return fmt.Sprintf(` transform="translate(%.1f,%.1f) scale(%.2f)"`, v.TranslateX, v.TranslateY, zoom)
}

func nodeIndex(nodes []Node) map[string]Node {
	index := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		index[n.ID] = n
	}
	return index
}

func renderNode(buf *bytes.Buffer, n Node) {
	color, ok := typeColors[n.Data.Type]
	if !ok {
		color = defaultNodeColor
	}

	class := "node"
	if n.Hovered {
		class = "node hovered"
	}

	fmt.Fprintf(buf, `    <g id="node-%s" class="%s">`+"\n", html.EscapeString(n.ID), class)
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.0f" height="%.0f" rx="10" fill="%s" stroke="#1e293b" stroke-width="1.5"/>`+"\n",
		n.Position.X, n.Position.Y, NodeWidth, NodeHeight, color)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="14" font-weight="600" fill="#ffffff">%s</text>`+"\n",
		n.Position.X+NodeWidth/2, n.Position.Y+NodeHeight/2-6, html.EscapeString(displayLabel(n)))
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="11" fill="#e2e8f0">%s</text>`+"\n",
		n.Position.X+NodeWidth/2, n.Position.Y+NodeHeight/2+14, html.EscapeString(n.Data.Type))
	buf.WriteString("    </g>\n")
}

func displayLabel(n Node) string {
	if n.Data.Label != "" {
		return n.Data.Label
	}
	return n.ID
}

func renderEdge(buf *bytes.Buffer, e Edge, index map[string]Node, showLabels bool) {
	src, okS := index[e.Source]
	dst, okD := index[e.Target]
	if !okS || !okD {
		return
	}

	x1, y1 := src.Position.X+NodeWidth/2, src.Position.Y+NodeHeight/2
	x2, y2 := dst.Position.X+NodeWidth/2, dst.Position.Y+NodeHeight/2

	class := "edge"
	if e.Animated {
		class = "edge animated"
	}
	fmt.Fprintf(buf, `    <line id="edge-%s" class="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
		html.EscapeString(e.ID), class, x1, y1, x2, y2)

	if e.Label != "" && showLabels {
		renderEdgeLabel(buf, e, (x1+x2)/2, (y1+y2)/2)
	}
}

// renderEdgeLabel draws the label text over a background pill. These are the
// decoration elements the capture unit hides before encoding.
func renderEdgeLabel(buf *bytes.Buffer, e Edge, cx, cy float64) {
	const charWidth = 7.2 // approximate width per character at font-size 12
	w := float64(len(e.Label))*charWidth + 16
	fmt.Fprintf(buf, `    <g class="edge-label" data-edge="%s">`+"\n", html.EscapeString(e.ID))
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="20" rx="4" fill="#f1f5f9" stroke="#cbd5e1" stroke-width="0.5"/>`+"\n",
		cx-w/2, cy-10, w)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="12" fill="#475569">%s</text>`+"\n",
		cx, cy+4, html.EscapeString(e.Label))
	buf.WriteString("    </g>\n")
}
