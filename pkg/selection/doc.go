// Package selection implements rectangular marquee selection for
// force-graph rendering surfaces.
//
// A user drags a pointer while holding a modifier key, a rectangle is
// tracked in both viewport (pixel) and graph (logical) coordinates, and the
// node identifiers intersecting the rectangle are reported through
// callbacks and a generic surface event.
//
// # Architecture
//
// The package is split into three pieces:
//
//   - Tool: the drag-lifecycle state machine (idle ↔ selecting). It owns
//     the per-instance State, gates drag starts on the configured modifier
//     key, disables the host camera for the duration of a drag, and drives
//     the overlay and hit-testing.
//   - HitTest: the broad-phase / narrow-phase scan over a NodeSource,
//     producing matched node IDs in source iteration order.
//   - Options: the immutable policy snapshot (modifier, containment
//     semantics, size scaling, live vs. release triggering, throttling,
//     overlay styling, callbacks).
//
// The rendering host is abstracted behind small interfaces (Camera,
// Projector, Overlay, NodeSource, Surface) so the state machine is fully
// testable against fakes; see tool_test.go.
//
// # Usage
//
// Attach a tool to a surface and tear it down when done:
//
//	tool := selection.New(surface, selection.Options{
//	    Modifier:      selection.ModifierShift,
//	    LiveSelection: true,
//	    OnSelectionComplete: func(ev selection.CompleteEvent) {
//	        highlight(ev.NodeIDs)
//	    },
//	})
//	defer tool.Teardown()
//
// All work happens synchronously inside the host's pointer-event
// callbacks; there is no background processing. The tool is not
// goroutine-safe and assumes events arrive in chronological order, which
// matches how rendering hosts deliver them.
package selection
