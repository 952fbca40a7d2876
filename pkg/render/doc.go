// Package render provides the interactive diagram surface and its SVG output.
//
// # Overview
//
// This package holds everything between a validated diagram description and
// the pixels a client sees. It provides:
//
//   - Adaptation of descriptions into renderable scenes ([Adapt])
//   - The stateful interactive surface ([Surface])
//   - Deterministic SVG rendering ([Surface.RenderSVG])
//   - Automatic dot-engine layout for unpositioned diagrams ([AutoLayout])
//
// # The Surface
//
// [Surface] owns all transient presentation state: hover displacement,
// tooltips, drag positions, and the viewport transform. Replacing the
// description resets every piece of that state at once, so a surface is
// always consistent with exactly one description.
//
//	surface := render.NewSurface(render.Callbacks{
//	    OnNodeActivated: func(id string, data render.NodeData) { fmt.Println(id) },
//	})
//	err := surface.SetDescription(ctx, d)
//	svg := surface.RenderSVG()
//
// # Auto Layout
//
// [AutoLayout] runs the Graphviz dot engine (in-process, via WebAssembly)
// over descriptions that carry no positions, and leaves positioned
// descriptions untouched:
//
//	laid, err := render.AutoLayout(ctx, d)
package render
