package selection

import (
	"time"

	"github.com/graphkit/marquee/pkg/geom"
)

// State is the mutable drag state owned by a Tool. One instance lives for
// the lifetime of the tool; it is reset, not reallocated, at every
// selection start.
//
// While Active is true all four points hold real values recorded from
// pointer events, and only then are the Current points ever updated.
type State struct {
	// Active is true strictly between a valid drag start and its finalize.
	Active bool

	// Drag endpoints in viewport (pixel) coordinates.
	ViewportStart   geom.Point
	ViewportCurrent geom.Point

	// The same endpoints in graph (logical) coordinates, derived through
	// the projector at the moment each point was recorded.
	GraphStart   geom.Point
	GraphCurrent geom.Point

	// lastUpdate is the time of the last processed sample; only consulted
	// when throttling is enabled.
	lastUpdate time.Time
}

// reset starts a new drag from the given pointer sample.
func (s *State) reset(viewport, graph geom.Point, now time.Time) {
	s.Active = true
	s.ViewportStart = viewport
	s.ViewportCurrent = viewport
	s.GraphStart = graph
	s.GraphCurrent = graph
	s.lastUpdate = now
}

// ViewportRect returns the current drag rectangle in viewport space.
func (s *State) ViewportRect() geom.Rect {
	return geom.RectFromPoints(s.ViewportStart, s.ViewportCurrent)
}

// GraphRect returns the current drag rectangle in graph space. This is the
// true, unclamped rectangle hit-testing runs against.
func (s *State) GraphRect() geom.Rect {
	return geom.RectFromPoints(s.GraphStart, s.GraphCurrent)
}
