package selection

import "github.com/graphkit/marquee/pkg/geom"

// StartEvent is delivered once per drag, with the start point in both
// coordinate spaces.
type StartEvent struct {
	Viewport geom.Point
	Graph    geom.Point
}

// ChangeEvent is delivered on every processed move, with the current drag
// rectangle in both coordinate spaces and a snapshot of the state.
type ChangeEvent struct {
	Viewport geom.Rect
	Graph    geom.Rect
	State    State
}

// CompleteEvent is delivered once per finalized selection — on release in
// the default mode, or on every processed move in live mode — with the
// matched node IDs in node-source iteration order.
type CompleteEvent struct {
	NodeIDs []string
}
