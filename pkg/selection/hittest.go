package selection

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/graphkit/marquee/pkg/geom"
)

// degenerateEps is the threshold below which a drag rectangle is treated
// as a plain click. A click must select nothing: permissive collision
// rules against a zero-size rectangle would otherwise match every node
// the pointer touches.
const degenerateEps = 1e-9

// HitTest scans src against a graph-space rectangle and returns the IDs of
// matching nodes in source iteration order.
//
// Nodes without a finite position are never matched. Each node's hit
// radius is its size attribute (DefaultNodeSize when unset) scaled by
// NodeSizeMultiplier. Unless DisableBroadPhase is set, nodes whose center
// lies outside the rectangle expanded by their radius are rejected before
// the exact collision test; the broad phase never changes the result set.
//
// A fault while evaluating a single node excludes that node and the scan
// continues. HitTest never fails as a whole.
func HitTest(rect geom.Rect, src NodeSource, opts Options) []string {
	opts = opts.withDefaults()

	if rect.IsDegenerate(degenerateEps) {
		return nil
	}

	var matched []string
	src.ForEachNode(func(id string, attrs NodeAttrs) bool {
		hit := evalNode(rect, attrs, opts, id, opts.Logger)
		if opts.Debug {
			opts.Logger.Debug("hit-test node", "id", id, "matched", hit)
		}
		if hit {
			matched = append(matched, id)
		}
		return true
	})
	return matched
}

// evalNode decides a single node in isolation. A panic while evaluating is
// contained here so one malformed node cannot abort the scan.
func evalNode(rect geom.Rect, attrs NodeAttrs, opts Options, id string, logger *log.Logger) (hit bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("hit-test: skipping node after fault", "id", id, "fault", r)
			hit = false
		}
	}()

	// Missing or non-numeric positions are excluded, never matched. Zero
	// is a valid coordinate.
	if !isFinite(attrs.X) || !isFinite(attrs.Y) {
		return false
	}

	size := attrs.Size
	if !(size > 0) {
		size = DefaultNodeSize
	}
	radius := size * opts.NodeSizeMultiplier
	center := geom.Point{X: attrs.X, Y: attrs.Y}

	// Broad phase: cheap bounding-box rejection. Correctness-neutral.
	if !opts.DisableBroadPhase && !rect.Expand(radius).ContainsPoint(center) {
		return false
	}

	circle := geom.Circle{X: attrs.X, Y: attrs.Y, R: radius}

	if opts.SelectOnlyComplete {
		return rect.ContainsCircle(circle)
	}
	return rect.ContainsPoint(center) || circle.IntersectsRect(rect)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
