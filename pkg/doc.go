// Package pkg provides the core libraries for marquee rectangle selection.
//
// # Overview
//
// Marquee attaches drag-rectangle selection to force-graph surfaces: hold a
// modifier key, drag out a box, and every node whose hit circle falls inside
// is selected. The pkg directory is organized into four main areas:
//
//  1. [geom], [selection] - Selection engine (geometry kernel, state machine,
//     hit-testing, host surface contracts)
//  2. [graph], [layout] - Graph data model and Graphviz position assignment
//  3. [cache], [store] - Infrastructure (layout caching, graph persistence)
//  4. [pipeline] - Orchestration (load → layout → select)
//
// # Architecture
//
// The typical data flow for a headless selection run:
//
//	Graph file / store record
//	         ↓
//	    [layout] package (assign positions via Graphviz, cached)
//	         ↓
//	    [selection] package (broad-phase cull + narrow-phase hit test)
//	         ↓
//	    matched node IDs
//
// Interactive hosts instead attach a [selection.Tool] to a surface and
// receive the same hit-test results through the host's event channel.
//
// # Quick Start
//
// Load a graph, compute positions, and select a region:
//
//	import (
//	    "github.com/graphkit/marquee/pkg/geom"
//	    "github.com/graphkit/marquee/pkg/graph"
//	    "github.com/graphkit/marquee/pkg/layout"
//	    "github.com/graphkit/marquee/pkg/selection"
//	)
//
//	// 1. Load the graph
//	g, _ := graph.ReadFile("graph.json")
//
//	// 2. Assign positions (no-op if already positioned)
//	_ = layout.Compute(context.Background(), g, layout.Options{})
//
//	// 3. Hit-test a rectangle in graph coordinates
//	result := selection.HitTest(geom.NewRect(0, 0, 200, 150), g, selection.Options{})
//	fmt.Println(result.NodeIDs)
//
// # Main Packages
//
// ## Selection Engine
//
// [geom] - Rectangle and point primitives shared by every layer: corner
// normalization, containment, intersection, and circle-vs-rect tests.
//
// [selection] - The interactive marquee tool and the headless hit-test
// engine. [selection.Tool] binds pointer events from a [selection.Surface]
// to a drag state machine; [selection.HitTest] runs the two-phase
// (broad cull, narrow circle test) match over any node source.
//
// ## Graph and Layout
//
// [graph] - JSON node-link graph model with validation (unique node IDs,
// edges referencing known nodes) and file/stream serialization.
//
// [layout] - Position assignment via Graphviz (fdp, neato, dot, sfdp,
// circo, twopi). [layout.ComputeCached] keys results by graph content hash
// so repeated runs are free.
//
// ## Infrastructure
//
// [cache] - Layout cache with file, Redis, and null backends plus scoped
// and instrumented wrappers.
//
// [store] - Graph persistence with memory, file, and MongoDB backends
// behind a single Store interface.
//
// [pipeline] - The load → layout → select pipeline shared by the CLI and
// the HTTP API. Ensures consistent validation and defaults across entry
// points.
//
// Supporting packages: [errors] (coded errors with user-facing messages),
// [observability] (pluggable selection/cache/HTTP hooks), [buildinfo]
// (version stamping).
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/selection/...  # Specific package
//
// [geom]: https://pkg.go.dev/github.com/graphkit/marquee/pkg/geom
// [selection]: https://pkg.go.dev/github.com/graphkit/marquee/pkg/selection
// [graph]: https://pkg.go.dev/github.com/graphkit/marquee/pkg/graph
// [layout]: https://pkg.go.dev/github.com/graphkit/marquee/pkg/layout
// [cache]: https://pkg.go.dev/github.com/graphkit/marquee/pkg/cache
// [store]: https://pkg.go.dev/github.com/graphkit/marquee/pkg/store
// [pipeline]: https://pkg.go.dev/github.com/graphkit/marquee/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/graphkit/marquee/pkg/errors
// [observability]: https://pkg.go.dev/github.com/graphkit/marquee/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/graphkit/marquee/pkg/buildinfo
package pkg
