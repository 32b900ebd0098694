package selection

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphkit/marquee/pkg/geom"
	"github.com/graphkit/marquee/pkg/observability"
)

// minOverlaySize is the cosmetic minimum overlay extent in pixels per
// axis, so the box stays visible at near-zero drag distance. It never
// affects hit-testing, which uses the true rectangle.
const minOverlaySize = 2.0

// Tool is the selection state machine. It cycles between idle and
// selecting for its lifetime; there is no terminal state short of
// Teardown.
//
// A Tool subscribes to its surface's press/move/release events at
// construction and processes them synchronously, one at a time. It is not
// goroutine-safe.
type Tool struct {
	surface Surface
	opts    Options
	logger  *log.Logger

	state    State
	unsubs   []Unsubscribe
	tornDown bool

	// now is the clock used for throttling; overridable in tests.
	now func() time.Time
}

// New attaches a selection tool to a surface. Options are merged over the
// documented defaults and frozen; the tool starts idle.
func New(surface Surface, opts Options) *Tool {
	opts = opts.withDefaults()
	t := &Tool{
		surface: surface,
		opts:    opts,
		logger:  opts.Logger,
		now:     time.Now,
	}
	t.unsubs = []Unsubscribe{
		surface.OnPress(t.handlePress),
		surface.OnMove(t.handleMove),
		surface.OnRelease(t.handleRelease),
		surface.OnDestroy(t.Teardown),
	}
	return t
}

// State returns a snapshot of the current drag state.
func (t *Tool) State() State { return t.state }

// Options returns the frozen policy snapshot the tool runs with.
func (t *Tool) Options() Options { return t.opts }

// handlePress starts a drag when the configured modifier is held. Presses
// without the modifier, presses while already selecting, and presses after
// teardown are ignored.
func (t *Tool) handlePress(ev PointerEvent) {
	if t.tornDown || t.state.Active {
		return
	}
	if !modifierSatisfied(t.opts.Modifier, ev.Mods) {
		return
	}

	graph := t.surface.Projector().ViewportToGraph(ev.Pos)
	t.state.reset(ev.Pos, graph, t.now())

	t.surface.Camera().Disable()
	overlay := t.surface.Overlay()
	overlay.Show(t.opts.overlayStyle())
	overlay.SetRect(clampOverlay(t.state.ViewportRect()))

	t.debug("selection start", "viewport", ev.Pos, "graph", graph)
	observability.Selection().OnSelectStart()

	if t.opts.OnSelectionStart != nil {
		t.opts.OnSelectionStart(StartEvent{Viewport: ev.Pos, Graph: graph})
	}
}

// handleMove advances an active drag. Samples inside the throttle window
// are dropped whole: no state mutation, no overlay update, no callbacks.
func (t *Tool) handleMove(ev PointerEvent) {
	if t.tornDown || !t.state.Active {
		return
	}

	now := t.now()
	if t.opts.Throttle > 0 && now.Sub(t.state.lastUpdate) < t.opts.Throttle {
		return
	}

	t.state.ViewportCurrent = ev.Pos
	t.state.GraphCurrent = t.surface.Projector().ViewportToGraph(ev.Pos)
	t.state.lastUpdate = now

	viewportRect := t.state.ViewportRect()
	graphRect := t.state.GraphRect()
	t.surface.Overlay().SetRect(clampOverlay(viewportRect))

	t.debug("selection change", "viewportRect", viewportRect, "graphRect", graphRect)

	if t.opts.OnSelectionChange != nil {
		t.opts.OnSelectionChange(ChangeEvent{
			Viewport: viewportRect,
			Graph:    graphRect,
			State:    t.state,
		})
	}

	if t.opts.LiveSelection {
		t.complete(graphRect)
	}
}

// handleRelease finalizes an active drag: the camera is re-enabled, the
// overlay hidden, and in the default (on-release) mode hit-testing runs
// against the final rectangle.
func (t *Tool) handleRelease(PointerEvent) {
	if t.tornDown || !t.state.Active {
		return
	}

	t.state.Active = false
	t.surface.Camera().Enable()
	t.surface.Overlay().Hide()

	if !t.opts.LiveSelection {
		t.complete(t.state.GraphRect())
	}
}

// complete runs hit-testing against rect and emits the completion
// notifications.
func (t *Tool) complete(rect geom.Rect) {
	start := t.now()
	ids := HitTest(rect, t.surface.Nodes(), t.opts)

	t.debug("selection complete", "graphRect", rect, "matched", len(ids))
	observability.Selection().OnSelectComplete(len(ids), time.Since(start))

	if t.opts.OnSelectionComplete != nil {
		t.opts.OnSelectionComplete(CompleteEvent{NodeIDs: ids})
	}
	t.surface.Emit(EventSelectNodes, ids)
}

// Teardown detaches all event subscriptions and removes the overlay. It
// is idempotent and safe to call from the surface's own destroy
// notification. A teardown mid-drag re-enables the camera so the host is
// never left with pan/zoom stuck off.
func (t *Tool) Teardown() {
	if t.tornDown {
		return
	}
	t.tornDown = true

	if t.state.Active {
		t.state.Active = false
		t.surface.Camera().Enable()
	}

	for _, unsub := range t.unsubs {
		unsub()
	}
	t.unsubs = nil

	overlay := t.surface.Overlay()
	overlay.Hide()
	overlay.Remove()

	t.debug("selection tool torn down")
}

// clampOverlay applies the cosmetic minimum size to the overlay rectangle.
func clampOverlay(r geom.Rect) geom.Rect {
	if r.W < minOverlaySize {
		r.W = minOverlaySize
	}
	if r.H < minOverlaySize {
		r.H = minOverlaySize
	}
	return r
}

func (t *Tool) debug(msg string, kv ...any) {
	if !t.opts.Debug {
		return
	}
	t.logger.Debug(msg, kv...)
}
