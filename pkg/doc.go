// Package pkg provides the core libraries for the archcanvas diagram
// surface and export pipeline.
//
// # Overview
//
// archcanvas keeps an in-memory architecture diagram that callers can
// replace, manipulate, and export as distributable artifacts. The pkg
// directory is organized into five main areas:
//
//  1. [diagram] - Description types, validation, and file round trips
//  2. [render] - The interactive surface, SVG rendering, and auto layout
//  3. [capture] - Pixel-perfect PNG capture of the current viewport
//  4. [docgen] - Client for the documentation generation service
//  5. [export] - Orchestration of capture, generation, and delivery
//
// # Architecture
//
// The typical data flow through archcanvas:
//
//	Diagram Description (JSON)
//	         ↓
//	    [render] package (adapt + surface state + SVG)
//	         ↓
//	    [capture] package (clean-frame PNG)
//	         ↓
//	    [docgen] package (PDF / Markdown generation)
//	         ↓
//	    [export] package (deliver artifacts to disk)
//
// # Quick Start
//
// Load a description, lay it out, and capture a PNG:
//
//	import (
//	    "context"
//	    "archcanvas/pkg/capture"
//	    "archcanvas/pkg/diagram"
//	    "archcanvas/pkg/render"
//	)
//
//	// 1. Load and lay out the description
//	d, _ := diagram.ReadFile("diagram.json")
//	laid, _ := render.AutoLayout(context.Background(), d)
//
//	// 2. Mount it on a surface
//	surface := render.NewSurface(render.Callbacks{})
//	_ = surface.SetDescription(context.Background(), laid)
//
//	// 3. Capture the current frame
//	unit := capture.New(surface)
//	png, _ := unit.Capture(context.Background())
//
// # Supporting Packages
//
// [cache] memoizes Graphviz layouts on disk, [session] tracks the
// credentialed export session, [config] loads TOML configuration with
// environment overrides, and [errors], [httputil], and [observability]
// carry the cross-cutting plumbing the rest of the tree shares.
package pkg
