package render

import (
	"maps"
	"slices"

	"archcanvas/pkg/diagram"
)

// Node dimensions in logical pixels. Every node renders at the same size;
// positions refer to the top-left corner of the node box.
const (
	NodeWidth  = 180.0
	NodeHeight = 72.0
)

// NodeData is the full payload carried by a render node. Fields the visual
// layer does not draw (Description, Inputs, Outputs, Metadata) are preserved
// verbatim for collaborators: the tooltip reads Description, the detail
// panel receives the whole payload on activation.
type NodeData struct {
	Label       string         `json:"label"`
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Inputs      []string       `json:"inputs,omitempty"`
	Outputs     []string       `json:"outputs,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Node is the surface's internal copy of a NodeSpec, augmented with
// interaction state the description does not carry.
type Node struct {
	ID       string           `json:"id"`
	Position diagram.Position `json:"position"`
	Data     NodeData         `json:"data"`
	Hovered  bool             `json:"hovered,omitempty"`
}

// Edge is the surface's internal copy of an EdgeSpec.
type Edge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Label    string `json:"label,omitempty"`
	Animated bool   `json:"animated,omitempty"`
}

// Adapt converts a description into render nodes and edges.
//
// Adapt is pure: structurally equal input yields structurally equal output,
// it performs no I/O and holds no state across calls. Metadata maps and
// input/output slices are cloned so the surface never aliases the caller's
// containers. The clone is one level deep: values inside Metadata are
// carried as-is and treated as opaque by the visual layer.
//
// Adapt performs no validation beyond the structural transform; referential
// integrity is enforced at ingestion by [diagram.Description.Validate].
func Adapt(d diagram.Description) ([]Node, []Edge) {
	nodes := make([]Node, len(d.Nodes))
	for i, spec := range d.Nodes {
		nodes[i] = Node{
			ID:       spec.ID,
			Position: spec.Position,
			Data: NodeData{
				Label:       spec.Label,
				Type:        spec.Type,
				Description: spec.Description,
				Inputs:      slices.Clone(spec.Inputs),
				Outputs:     slices.Clone(spec.Outputs),
				Metadata:    copyMetadata(spec.Metadata),
			},
		}
	}

	edges := make([]Edge, len(d.Edges))
	for i, spec := range d.Edges {
		edges[i] = Edge{
			ID:       spec.ID,
			Source:   spec.Source,
			Target:   spec.Target,
			Label:    spec.Label,
			Animated: spec.IsAnimated(),
		}
	}

	return nodes, edges
}

// copyMetadata creates a shallow copy of metadata to avoid mutation.
func copyMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

// copyData returns a deep copy of a node payload, safe to hand to external
// collaborators without exposing surface-owned memory.
func copyData(d NodeData) NodeData {
	d.Inputs = slices.Clone(d.Inputs)
	d.Outputs = slices.Clone(d.Outputs)
	d.Metadata = copyMetadata(d.Metadata)
	return d
}
