// Package diagram defines the description format for architecture diagrams.
//
// A Description is the abstract graph an external generator produces: nodes
// with stable ids, typed roles, and canvas positions, plus directed edges
// between them. It is the input to the rendering layer and the canonical
// serialization format for API requests and file import/export.
//
// Descriptions are immutable once ingested: a new Description replaces the
// previous one wholesale, it is never patched incrementally.
package diagram

import (
	"archcanvas/pkg/errors"
)

// Node types recognized by the visual layer. Unknown types are preserved
// verbatim and rendered with the default style.
const (
	TypeDatabase     = "database"
	TypeCache        = "cache"
	TypeServer       = "server"
	TypeAPI          = "api"
	TypeLoadBalancer = "loadbalancer"
	TypeQueue        = "queue"
	TypeCDN          = "cdn"
	TypeGateway      = "gateway"
	TypeStorage      = "storage"
	TypeService      = "service"
)

// Edge kinds.
const (
	// KindNormal renders as a static edge.
	KindNormal = "normal"

	// KindAnimated renders with a flowing dash animation.
	KindAnimated = "animated"
)

// Description is the abstract architecture graph produced by an external
// generator. It carries no interaction state; the rendering layer derives
// its own stateful copies from it.
type Description struct {
	Nodes []NodeSpec `json:"nodes"`
	Edges []EdgeSpec `json:"edges"`
}

// Position is a canvas coordinate in logical pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeSpec describes a single architecture component.
//
// The id must be unique within a Description and stable across updates so
// that successive descriptions can refer to the same logical component.
// Fields the visual layer does not render (Description, Inputs, Outputs,
// Metadata) are still carried through to the render model verbatim, since
// collaborators such as the tooltip and the detail panel read them.
type NodeSpec struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Type        string         `json:"type"`
	Position    Position       `json:"position"`
	Description string         `json:"description,omitempty"`
	Inputs      []string       `json:"inputs,omitempty"`
	Outputs     []string       `json:"outputs,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// EdgeSpec describes a directed connection between two nodes.
// Source and Target must reference ids present in the same Description.
type EdgeSpec struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// IsAnimated returns true if the edge should render with the animated style.
// Any kind other than exactly "animated" renders as static.
func (e *EdgeSpec) IsAnimated() bool { return e.Kind == KindAnimated }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *NodeSpec) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Validate checks the structural integrity of a description.
//
// Referential integrity is enforced at ingestion rather than at render time:
// an edge pointing at a missing node is a data error in the generator's
// output and is rejected here, never silently dropped or rendered dangling.
func (d *Description) Validate() error {
	ids := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return err
		}
		if _, dup := ids[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidDiagram, "duplicate node id %q", n.ID)
		}
		ids[n.ID] = struct{}{}
	}

	edgeIDs := make(map[string]struct{}, len(d.Edges))
	for _, e := range d.Edges {
		if e.ID == "" {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %s→%s has no id", e.Source, e.Target)
		}
		if _, dup := edgeIDs[e.ID]; dup {
			return errors.New(errors.ErrCodeInvalidEdge, "duplicate edge id %q", e.ID)
		}
		edgeIDs[e.ID] = struct{}{}

		if _, ok := ids[e.Source]; !ok {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %q references missing source node %q", e.ID, e.Source)
		}
		if _, ok := ids[e.Target]; !ok {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %q references missing target node %q", e.ID, e.Target)
		}
	}

	return nil
}

// Node returns the NodeSpec with the given id, if present.
func (d *Description) Node(id string) (NodeSpec, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeSpec{}, false
}
