package cache

import (
	"context"
	"encoding/json"
	"time"

	"archcanvas/pkg/diagram"
)

// DefaultLayoutTTL bounds how long computed positions are kept. Layouts are
// deterministic for a given structure, so the TTL exists only to keep the
// cache directory from growing without bound.
const DefaultLayoutTTL = 30 * 24 * time.Hour

// Layouts memoizes computed node positions keyed by diagram structure.
type Layouts struct {
	cache Cache
	ttl   time.Duration
}

// NewLayouts creates a layout memoizer over the given cache.
func NewLayouts(c Cache) *Layouts {
	return &Layouts{cache: c, ttl: DefaultLayoutTTL}
}

// layoutKeyInput is the structural identity of a description for layout
// purposes. Labels participate because they influence node spacing; payload
// fields (descriptions, metadata) do not.
type layoutKeyInput struct {
	Nodes []layoutKeyNode `json:"nodes"`
	Edges [][2]string     `json:"edges"`
}

type layoutKeyNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Key derives the cache key for a description's layout.
func Key(d diagram.Description) string {
	in := layoutKeyInput{}
	for _, n := range d.Nodes {
		in.Nodes = append(in.Nodes, layoutKeyNode{ID: n.ID, Label: n.DisplayLabel()})
	}
	for _, e := range d.Edges {
		in.Edges = append(in.Edges, [2]string{e.Source, e.Target})
	}
	data, _ := json.Marshal(in)
	return "layout:" + Hash(data)
}

// Resolve returns the description with positions applied, computing them
// via compute on a cache miss. Cache failures fall through to compute; a
// broken cache never blocks layout.
func (l *Layouts) Resolve(ctx context.Context, d diagram.Description, compute func(context.Context, diagram.Description) (diagram.Description, error)) (diagram.Description, error) {
	// Descriptions that already carry positions keep them; cached positions
	// must never override explicit ones.
	if !needsPositions(d) {
		return d, nil
	}

	key := Key(d)

	if data, ok, err := l.cache.Get(ctx, key); err == nil && ok {
		var positions map[string]diagram.Position
		if json.Unmarshal(data, &positions) == nil {
			return applyPositions(d, positions), nil
		}
	}

	laid, err := compute(ctx, d)
	if err != nil {
		return diagram.Description{}, err
	}

	positions := make(map[string]diagram.Position, len(laid.Nodes))
	for _, n := range laid.Nodes {
		positions[n.ID] = n.Position
	}
	if data, err := json.Marshal(positions); err == nil {
		_ = l.cache.Set(ctx, key, data, l.ttl)
	}
	return laid, nil
}

// needsPositions reports whether every node sits at the origin, the
// generator convention for "no layout computed".
func needsPositions(d diagram.Description) bool {
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

func applyPositions(d diagram.Description, positions map[string]diagram.Position) diagram.Description {
	out := d
	out.Nodes = make([]diagram.NodeSpec, len(d.Nodes))
	copy(out.Nodes, d.Nodes)
	for i := range out.Nodes {
		if p, ok := positions[out.Nodes[i].ID]; ok {
			out.Nodes[i].Position = p
		}
	}
	return out
}
