package selection

import (
	"reflect"
	"testing"
	"time"

	"github.com/graphkit/marquee/pkg/geom"
)

// =============================================================================
// Fake host surface
// =============================================================================

type fakeCamera struct {
	disabled int
	enabled  int
}

func (c *fakeCamera) Disable() { c.disabled++ }
func (c *fakeCamera) Enable()  { c.enabled++ }

type fakeOverlay struct {
	shows   int
	hides   int
	removes int
	style   OverlayStyle
	rects   []geom.Rect
}

func (o *fakeOverlay) Show(s OverlayStyle) { o.shows++; o.style = s }
func (o *fakeOverlay) SetRect(r geom.Rect) { o.rects = append(o.rects, r) }
func (o *fakeOverlay) Hide()               { o.hides++ }
func (o *fakeOverlay) Remove()             { o.removes++ }

// scaleProjector maps graph = viewport / 2, a stand-in for a zoomed camera.
type scaleProjector struct{}

func (scaleProjector) ViewportToGraph(p geom.Point) geom.Point {
	return geom.Point{X: p.X / 2, Y: p.Y / 2}
}

func (scaleProjector) GraphToViewport(p geom.Point) geom.Point {
	return geom.Point{X: p.X * 2, Y: p.Y * 2}
}

type emission struct {
	event   string
	payload any
}

type fakeSurface struct {
	camera    fakeCamera
	overlay   fakeOverlay
	nodes     nodeList
	emissions []emission

	press   []func(PointerEvent)
	move    []func(PointerEvent)
	release []func(PointerEvent)
	destroy []func()

	unsubCalls int
}

func (s *fakeSurface) Camera() Camera       { return &s.camera }
func (s *fakeSurface) Projector() Projector { return scaleProjector{} }
func (s *fakeSurface) Overlay() Overlay     { return &s.overlay }
func (s *fakeSurface) Nodes() NodeSource    { return s.nodes }

func (s *fakeSurface) OnPress(fn func(PointerEvent)) Unsubscribe {
	s.press = append(s.press, fn)
	return func() { s.unsubCalls++ }
}

func (s *fakeSurface) OnMove(fn func(PointerEvent)) Unsubscribe {
	s.move = append(s.move, fn)
	return func() { s.unsubCalls++ }
}

func (s *fakeSurface) OnRelease(fn func(PointerEvent)) Unsubscribe {
	s.release = append(s.release, fn)
	return func() { s.unsubCalls++ }
}

func (s *fakeSurface) OnDestroy(fn func()) Unsubscribe {
	s.destroy = append(s.destroy, fn)
	return func() { s.unsubCalls++ }
}

func (s *fakeSurface) Emit(event string, payload any) {
	s.emissions = append(s.emissions, emission{event, payload})
}

func (s *fakeSurface) firePress(ev PointerEvent) {
	for _, fn := range s.press {
		fn(ev)
	}
}

func (s *fakeSurface) fireMove(ev PointerEvent) {
	for _, fn := range s.move {
		fn(ev)
	}
}

func (s *fakeSurface) fireRelease(ev PointerEvent) {
	for _, fn := range s.release {
		fn(ev)
	}
}

func (s *fakeSurface) fireDestroy() {
	for _, fn := range s.destroy {
		fn()
	}
}

func shiftAt(x, y float64) PointerEvent {
	return PointerEvent{Pos: geom.Point{X: x, Y: y}, Mods: Modifiers{Shift: true}}
}

func plainAt(x, y float64) PointerEvent {
	return PointerEvent{Pos: geom.Point{X: x, Y: y}}
}

// =============================================================================
// Drag lifecycle
// =============================================================================

func TestPressWithoutModifierIsIgnored(t *testing.T) {
	surface := &fakeSurface{}
	started := false
	New(surface, Options{OnSelectionStart: func(StartEvent) { started = true }})

	surface.firePress(plainAt(10, 10))

	if started {
		t.Error("OnSelectionStart fired without the modifier held")
	}
	if surface.overlay.shows != 0 {
		t.Error("overlay shown without a drag start")
	}
	if surface.camera.disabled != 0 {
		t.Error("camera disabled without a drag start")
	}
}

func TestPressStartsDragAndRecordsBothSpaces(t *testing.T) {
	surface := &fakeSurface{}
	var start StartEvent
	tool := New(surface, Options{OnSelectionStart: func(ev StartEvent) { start = ev }})

	surface.firePress(shiftAt(20, 40))

	st := tool.State()
	if !st.Active {
		t.Fatal("tool should be selecting after a valid press")
	}
	if st.ViewportStart != (geom.Point{X: 20, Y: 40}) || st.ViewportCurrent != st.ViewportStart {
		t.Errorf("viewport points = %v / %v", st.ViewportStart, st.ViewportCurrent)
	}
	// The projector halves viewport coordinates.
	if st.GraphStart != (geom.Point{X: 10, Y: 20}) || st.GraphCurrent != st.GraphStart {
		t.Errorf("graph points = %v / %v", st.GraphStart, st.GraphCurrent)
	}
	if start.Viewport != st.ViewportStart || start.Graph != st.GraphStart {
		t.Errorf("start event = %+v", start)
	}
	if surface.camera.disabled != 1 {
		t.Errorf("camera.disabled = %d, want 1", surface.camera.disabled)
	}
	if surface.overlay.shows != 1 {
		t.Errorf("overlay.shows = %d, want 1", surface.overlay.shows)
	}
}

func TestMoveAndReleaseRunHitTestOnRelease(t *testing.T) {
	surface := &fakeSurface{
		nodes: nodeList{
			{"inside", NodeAttrs{X: 10, Y: 10, Size: 1}},
			{"outside", NodeAttrs{X: 500, Y: 500, Size: 1}},
		},
	}
	var completes []CompleteEvent
	tool := New(surface, Options{
		OnSelectionComplete: func(ev CompleteEvent) { completes = append(completes, ev) },
	})

	surface.firePress(shiftAt(0, 0))
	surface.fireMove(plainAt(40, 40)) // graph rect (0,0)-(20,20)

	if len(completes) != 0 {
		t.Fatal("hit-test ran before release in on-release mode")
	}

	surface.fireRelease(plainAt(40, 40))

	if tool.State().Active {
		t.Error("tool still selecting after release")
	}
	if len(completes) != 1 || !reflect.DeepEqual(completes[0].NodeIDs, []string{"inside"}) {
		t.Errorf("completes = %+v, want one event with [inside]", completes)
	}
	if surface.camera.enabled != 1 {
		t.Errorf("camera.enabled = %d, want 1", surface.camera.enabled)
	}
	if surface.overlay.hides != 1 {
		t.Errorf("overlay.hides = %d, want 1", surface.overlay.hides)
	}

	// The surface's generic channel carries the same IDs.
	if len(surface.emissions) != 1 || surface.emissions[0].event != EventSelectNodes {
		t.Fatalf("emissions = %+v", surface.emissions)
	}
	if ids, ok := surface.emissions[0].payload.([]string); !ok || !reflect.DeepEqual(ids, []string{"inside"}) {
		t.Errorf("emitted payload = %v", surface.emissions[0].payload)
	}
}

func TestLiveSelectionFiresOnMove(t *testing.T) {
	surface := &fakeSurface{
		nodes: nodeList{{"n", NodeAttrs{X: 10, Y: 10, Size: 1}}},
	}
	var completes []CompleteEvent
	New(surface, Options{
		LiveSelection:       true,
		OnSelectionComplete: func(ev CompleteEvent) { completes = append(completes, ev) },
	})

	surface.firePress(shiftAt(0, 0))
	surface.fireMove(plainAt(40, 40))

	if len(completes) != 1 || !reflect.DeepEqual(completes[0].NodeIDs, []string{"n"}) {
		t.Fatalf("completes after move = %+v, want the node before release", completes)
	}

	// Release must not fire a second completion in live mode.
	surface.fireRelease(plainAt(40, 40))
	if len(completes) != 1 {
		t.Errorf("completes after release = %d, want 1", len(completes))
	}
}

func TestMoveAndReleaseIgnoredWhileIdle(t *testing.T) {
	surface := &fakeSurface{}
	changed := false
	New(surface, Options{OnSelectionChange: func(ChangeEvent) { changed = true }})

	surface.fireMove(plainAt(10, 10))
	surface.fireRelease(plainAt(10, 10))

	if changed {
		t.Error("change fired without an active drag")
	}
	if surface.camera.enabled != 0 || len(surface.overlay.rects) != 0 {
		t.Error("idle move/release had side effects")
	}
}

func TestPressWhileSelectingIsIgnored(t *testing.T) {
	surface := &fakeSurface{}
	starts := 0
	New(surface, Options{OnSelectionStart: func(StartEvent) { starts++ }})

	surface.firePress(shiftAt(0, 0))
	surface.firePress(shiftAt(50, 50))

	if starts != 1 {
		t.Errorf("starts = %d, want 1", starts)
	}
	if surface.camera.disabled != 1 {
		t.Errorf("camera.disabled = %d, want 1", surface.camera.disabled)
	}
}

// =============================================================================
// Overlay geometry
// =============================================================================

func TestOverlayMinimumSizeIsCosmeticOnly(t *testing.T) {
	surface := &fakeSurface{
		// Node far outside a 1x1 viewport-pixel rectangle; the 2px cosmetic
		// minimum must not pull it in.
		nodes: nodeList{{"n", NodeAttrs{X: 0.9, Y: 0.9, Size: 0.01}}},
	}
	var complete CompleteEvent
	New(surface, Options{
		NodeSizeMultiplier: 0.001,
		OnSelectionComplete: func(ev CompleteEvent) { complete = ev },
	})

	surface.firePress(shiftAt(0, 0))
	surface.fireMove(plainAt(1, 1))

	last := surface.overlay.rects[len(surface.overlay.rects)-1]
	if last.W != minOverlaySize || last.H != minOverlaySize {
		t.Errorf("overlay rect = %v, want clamped to %v per axis", last, minOverlaySize)
	}

	surface.fireRelease(plainAt(1, 1))
	// True graph rect is (0,0)-(0.5,0.5); the node at (0.9,0.9) with a tiny
	// radius is out of reach even though the overlay was inflated.
	if len(complete.NodeIDs) != 0 {
		t.Errorf("matched %v via the cosmetic overlay minimum", complete.NodeIDs)
	}
}

func TestChangeEventCarriesTrueRects(t *testing.T) {
	surface := &fakeSurface{}
	var change ChangeEvent
	New(surface, Options{OnSelectionChange: func(ev ChangeEvent) { change = ev }})

	surface.firePress(shiftAt(40, 40))
	surface.fireMove(plainAt(10, 20))

	wantViewport := geom.Rect{X: 10, Y: 20, W: 30, H: 20}
	wantGraph := geom.Rect{X: 5, Y: 10, W: 15, H: 10}
	if change.Viewport != wantViewport {
		t.Errorf("viewport rect = %v, want %v", change.Viewport, wantViewport)
	}
	if change.Graph != wantGraph {
		t.Errorf("graph rect = %v, want %v", change.Graph, wantGraph)
	}
	if !change.State.Active || change.State.ViewportCurrent != (geom.Point{X: 10, Y: 20}) {
		t.Errorf("state snapshot = %+v", change.State)
	}
}

// =============================================================================
// Modifier policies
// =============================================================================

func TestModifierPolicies(t *testing.T) {
	tests := []struct {
		name     string
		modifier ModifierKey
		mods     Modifiers
		starts   bool
	}{
		{"ShiftRequiredAndHeld", ModifierShift, Modifiers{Shift: true}, true},
		{"ShiftRequiredNotHeld", ModifierShift, Modifiers{Ctrl: true}, false},
		{"CtrlAcceptsCtrl", ModifierCtrl, Modifiers{Ctrl: true}, true},
		{"CtrlAcceptsMeta", ModifierCtrl, Modifiers{Meta: true}, true},
		{"CtrlRejectsShift", ModifierCtrl, Modifiers{Shift: true}, false},
		{"AltRequiredAndHeld", ModifierAlt, Modifiers{Alt: true}, true},
		{"NoneAlwaysStarts", ModifierNone, Modifiers{}, true},
		{"UnknownDefaultsToAlwaysStart", ModifierKey("hyper"), Modifiers{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface := &fakeSurface{}
			tool := New(surface, Options{Modifier: tt.modifier})
			surface.firePress(PointerEvent{Pos: geom.Point{X: 1, Y: 1}, Mods: tt.mods})
			if got := tool.State().Active; got != tt.starts {
				t.Errorf("Active = %v, want %v", got, tt.starts)
			}
		})
	}
}

// =============================================================================
// Throttling
// =============================================================================

func TestThrottleDropsSamplesInsideWindow(t *testing.T) {
	surface := &fakeSurface{}
	var changes []ChangeEvent
	tool := New(surface, Options{
		Throttle:          50 * time.Millisecond,
		OnSelectionChange: func(ev ChangeEvent) { changes = append(changes, ev) },
	})

	clock := time.Unix(1000, 0)
	tool.now = func() time.Time { return clock }

	surface.firePress(shiftAt(0, 0))

	// A burst inside the window: every sample dropped, including the last
	// one before the boundary.
	for _, ms := range []int64{10, 20, 49} {
		clock = time.Unix(1000, ms*int64(time.Millisecond))
		surface.fireMove(plainAt(float64(ms), float64(ms)))
	}
	if len(changes) != 0 {
		t.Fatalf("processed %d samples inside the throttle window, want 0", len(changes))
	}
	if got := tool.State().ViewportCurrent; got != (geom.Point{X: 0, Y: 0}) {
		t.Errorf("dropped samples mutated state: current = %v", got)
	}

	// First sample at the window boundary is applied.
	clock = time.Unix(1000, 50*int64(time.Millisecond))
	surface.fireMove(plainAt(50, 50))
	if len(changes) != 1 {
		t.Fatalf("boundary sample not processed")
	}
	if got := tool.State().ViewportCurrent; got != (geom.Point{X: 50, Y: 50}) {
		t.Errorf("current = %v, want (50,50)", got)
	}

	// The window restarts from the processed sample.
	clock = time.Unix(1000, 80*int64(time.Millisecond))
	surface.fireMove(plainAt(80, 80))
	if len(changes) != 1 {
		t.Errorf("sample inside the new window was processed")
	}
	clock = time.Unix(1000, 100*int64(time.Millisecond))
	surface.fireMove(plainAt(100, 100))
	if len(changes) != 2 {
		t.Errorf("sample at the new boundary was dropped")
	}
}

func TestZeroThrottleProcessesEverySample(t *testing.T) {
	surface := &fakeSurface{}
	changes := 0
	tool := New(surface, Options{OnSelectionChange: func(ChangeEvent) { changes++ }})

	clock := time.Unix(1000, 0)
	tool.now = func() time.Time { return clock }

	surface.firePress(shiftAt(0, 0))
	for i := 0; i < 5; i++ {
		surface.fireMove(plainAt(float64(i), float64(i)))
	}
	if changes != 5 {
		t.Errorf("changes = %d, want 5", changes)
	}
}

// =============================================================================
// Teardown
// =============================================================================

func TestTeardownIsIdempotent(t *testing.T) {
	surface := &fakeSurface{}
	tool := New(surface, Options{})

	tool.Teardown()
	tool.Teardown()

	if surface.overlay.removes != 1 {
		t.Errorf("overlay.removes = %d, want 1", surface.overlay.removes)
	}
	if surface.unsubCalls != 4 {
		t.Errorf("unsubCalls = %d, want 4 (press, move, release, destroy)", surface.unsubCalls)
	}
}

func TestTeardownMidDragReenablesCamera(t *testing.T) {
	surface := &fakeSurface{}
	tool := New(surface, Options{})

	surface.firePress(shiftAt(0, 0))
	if surface.camera.disabled != 1 {
		t.Fatal("camera not disabled on drag start")
	}

	tool.Teardown()

	if surface.camera.enabled != 1 {
		t.Error("teardown mid-drag left the camera disabled")
	}
	if tool.State().Active {
		t.Error("teardown left the tool selecting")
	}
	if surface.overlay.hides == 0 || surface.overlay.removes != 1 {
		t.Errorf("overlay hides=%d removes=%d", surface.overlay.hides, surface.overlay.removes)
	}
}

func TestSurfaceDestroyTriggersTeardown(t *testing.T) {
	surface := &fakeSurface{}
	tool := New(surface, Options{})

	surface.firePress(shiftAt(0, 0))
	surface.fireDestroy()

	if surface.camera.enabled != 1 {
		t.Error("destroy notification did not re-enable the camera")
	}
	if surface.overlay.removes != 1 {
		t.Error("destroy notification did not remove the overlay")
	}

	// Events after teardown are ignored.
	surface.firePress(shiftAt(5, 5))
	if tool.State().Active {
		t.Error("press after teardown started a drag")
	}
}

func TestOverlayStyleFromOptions(t *testing.T) {
	surface := &fakeSurface{}
	New(surface, Options{BorderStyle: "2px solid red", Background: "none", ZIndex: 42})

	surface.firePress(shiftAt(0, 0))

	want := OverlayStyle{BorderStyle: "2px solid red", Background: "none", ZIndex: 42}
	if surface.overlay.style != want {
		t.Errorf("style = %+v, want %+v", surface.overlay.style, want)
	}
}
