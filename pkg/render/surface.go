package render

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"archcanvas/pkg/diagram"
	"archcanvas/pkg/errors"
	"archcanvas/pkg/observability"
)

// tooltipOffset is the horizontal gap between a node's bounding box and its
// tooltip anchor.
const tooltipOffset = 16.0

// Callbacks are the contracts the surface uses to notify external
// collaborators. The surface is decoupled from its consumers: the detail
// panel, chat scoping, and the authoritative diagram owner are all injected
// here rather than reached directly.
type Callbacks struct {
	// OnNodeActivated receives the full node payload when a node is clicked.
	OnNodeActivated func(id string, data NodeData)

	// OnNodeDeleteRequested receives deletion intent. The surface never
	// deletes locally; the collaborator owns the authoritative diagram state.
	OnNodeDeleteRequested func(id string)
}

// Tooltip is a screen-anchored tooltip position for a hovered node,
// offset to the right of the node's bounding box.
type Tooltip struct {
	NodeID string   `json:"node_id"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Data   NodeData `json:"data"`
}

// Viewport is the pan/zoom state of the rendered canvas.
type Viewport struct {
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
	Zoom       float64 `json:"zoom"`
}

// identityViewport renders the scene without pan or zoom.
var identityViewport = Viewport{Zoom: 1}

// Surface maintains the currently displayed graph and reacts to two
// independent input streams: new diagram descriptions and user gestures.
//
// The surface exclusively owns the derived render state. When a new
// description arrives the state is rebuilt, not merged: hover state and any
// manual repositioning from drags are intentionally discarded. There is no
// merge/diff contract with the external generator, so replace-on-update is
// the documented behavior, not an oversight.
//
// A zero description ("no diagram yet") is a valid terminal state, not an
// error: Empty reports it and the renderer draws a placeholder prompt.
type Surface struct {
	mu         sync.Mutex
	nodes      []Node
	index      map[string]int // node id → position in nodes
	edges      []Edge
	hovered    string // id of the hovered node, or ""
	viewport   Viewport
	hideLabels bool // edge-label decorations suppressed (capture only)
	hasDiagram bool
	cb         Callbacks
	logger     *log.Logger
}

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithLogger sets the surface logger. Defaults to a discard logger.
func WithLogger(l *log.Logger) SurfaceOption {
	return func(s *Surface) { s.logger = l }
}

// NewSurface creates an empty surface with the given collaborator callbacks.
// Either callback may be nil, in which case the corresponding gesture is a
// local no-op beyond state updates.
func NewSurface(cb Callbacks, opts ...SurfaceOption) *Surface {
	s := &Surface{
		cb:       cb,
		index:    map[string]int{},
		viewport: identityViewport,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetDescription validates and ingests a new diagram description, replacing
// the current render state wholesale. Prior hover state, drag positions, and
// viewport are reset. Invalid descriptions leave the current state untouched.
func (s *Surface) SetDescription(ctx context.Context, d diagram.Description) error {
	if err := d.Validate(); err != nil {
		return err
	}

	nodes, edges := Adapt(d)

	s.mu.Lock()
	s.nodes = nodes
	s.edges = edges
	s.index = make(map[string]int, len(nodes))
	for i, n := range nodes {
		s.index[n.ID] = i
	}
	s.hovered = ""
	s.viewport = identityViewport
	s.hasDiagram = true
	s.mu.Unlock()

	s.logger.Debug("diagram replaced", "nodes", len(nodes), "edges", len(edges))
	observability.Surface().OnDiagramReplaced(ctx, len(nodes), len(edges))
	return nil
}

// Clear resets the surface to the "no diagram yet" state.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = nil
	s.edges = nil
	s.index = map[string]int{}
	s.hovered = ""
	s.viewport = identityViewport
	s.hasDiagram = false
}

// Empty reports whether no diagram has been ingested. This is a valid,
// user-visible state rendered as a prompt, not an error.
func (s *Surface) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.hasDiagram
}

// HoverEnter marks the node as hovered and returns the tooltip anchor,
// offset to the right of the node's bounding box. Exactly one node may be
// hovered at a time; entering a node displaces any previous hover.
func (s *Surface) HoverEnter(id string) (Tooltip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return Tooltip{}, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}

	if s.hovered != "" && s.hovered != id {
		if prev, ok := s.index[s.hovered]; ok {
			s.nodes[prev].Hovered = false
		}
	}
	s.hovered = id
	s.nodes[i].Hovered = true

	n := s.nodes[i]
	return Tooltip{
		NodeID: id,
		X:      n.Position.X + NodeWidth + tooltipOffset,
		Y:      n.Position.Y,
		Data:   copyData(n.Data),
	}, nil
}

// HoverLeave clears hover state for the node. Leaving a node that is not
// hovered is a no-op, so enter/leave pairs are idempotent.
func (s *Surface) HoverLeave(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hovered != id {
		return
	}
	if i, ok := s.index[id]; ok {
		s.nodes[i].Hovered = false
	}
	s.hovered = ""
}

// Hovered returns the id of the currently hovered node, if any.
func (s *Surface) Hovered() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hovered, s.hovered != ""
}

// Activate forwards the clicked node's full payload to the detail-panel
// collaborator. The surface holds no notion of "selected for editing".
func (s *Surface) Activate(ctx context.Context, id string) error {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	data := copyData(s.nodes[i].Data)
	cb := s.cb.OnNodeActivated
	s.mu.Unlock()

	observability.Surface().OnNodeActivated(ctx, id)
	if cb != nil {
		cb(id, data)
	}
	return nil
}

// RequestDelete forwards deletion intent to the diagram-state owner. The
// gesture is terminal: it never also fires activation, and the surface does
// not delete locally. The next description from the owner reflects the
// deletion.
func (s *Surface) RequestDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.index[id]
	cb := s.cb.OnNodeDeleteRequested
	s.mu.Unlock()

	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}

	observability.Surface().OnNodeDeleteRequested(ctx, id)
	if cb != nil {
		cb(id)
	}
	return nil
}

// DragTo repositions a node. The new position survives only until the next
// description replaces the render state.
func (s *Surface) DragTo(id string, pos diagram.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	s.nodes[i].Position = pos
	return nil
}

// Viewport returns the current pan/zoom state.
func (s *Surface) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// SetViewport updates the pan/zoom state. A zoom of 0 is normalized to 1.
func (s *Surface) SetViewport(v Viewport) {
	if v.Zoom == 0 {
		v.Zoom = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = v
}

// EdgeLabelsHidden reports whether edge-label decorations are currently
// suppressed. Only the capture unit toggles this, and only transiently.
func (s *Surface) EdgeLabelsHidden() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hideLabels
}

// SetEdgeLabelsHidden toggles edge-label decoration visibility and returns
// the previous value so the caller can restore it. The capture unit hides
// decorations before encoding and must restore them unconditionally.
func (s *Surface) SetEdgeLabelsHidden(hidden bool) (prev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev = s.hideLabels
	s.hideLabels = hidden
	return prev
}

// Nodes returns a copy of the current render nodes.
func (s *Surface) Nodes() []Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Edges returns a copy of the current render edges.
func (s *Surface) Edges() []Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// Scene is a consistent point-in-time copy of the surface state, suitable
// for rendering without holding the surface lock.
type Scene struct {
	Nodes          []Node
	Edges          []Edge
	Viewport       Viewport
	ShowEdgeLabels bool
	HasDiagram     bool
}

// Snapshot returns a consistent copy of the renderable state.
func (s *Surface) Snapshot() Scene {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodes := make([]Node, len(s.nodes))
	copy(nodes, s.nodes)
	edges := make([]Edge, len(s.edges))
	copy(edges, s.edges)

	return Scene{
		Nodes:          nodes,
		Edges:          edges,
		Viewport:       s.viewport,
		ShowEdgeLabels: !s.hideLabels,
		HasDiagram:     s.hasDiagram,
	}
}
