package selection

import "github.com/graphkit/marquee/pkg/geom"

// Modifiers describes the keyboard modifiers held during a pointer event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Meta  bool
	Alt   bool
}

// PointerEvent is a pointer sample in viewport coordinates, relative to
// the hosting container.
type PointerEvent struct {
	Pos  geom.Point
	Mods Modifiers
}

// Unsubscribe detaches an event subscription. Implementations must be safe
// to call more than once.
type Unsubscribe func()

// Camera controls the host's pan/zoom handling. The tool disables the
// camera for the duration of a drag so its own rectangle tracking cannot
// compete with camera movement, and re-enables it on every transition back
// to idle, teardown included.
type Camera interface {
	Disable()
	Enable()
}

// Projector converts between viewport and graph coordinates. The tool
// calls it at the time of each pointer sample; results are never cached
// across samples because the camera may have moved between drags.
type Projector interface {
	ViewportToGraph(geom.Point) geom.Point
	GraphToViewport(geom.Point) geom.Point
}

// OverlayStyle is the cosmetic styling for the selection rectangle.
type OverlayStyle struct {
	BorderStyle string
	Background  string
	ZIndex      int
}

// Overlay is the visual rectangle mirror owned by the host. SetRect
// receives viewport-space geometry with a small cosmetic minimum size
// already applied; the true rectangle used for hit-testing is unclamped.
type Overlay interface {
	Show(OverlayStyle)
	SetRect(geom.Rect)
	Hide()
	Remove()
}

// NodeAttrs is the subset of node attributes hit-testing reads. X and Y
// are NaN when the node has no usable position; such nodes are never
// matched. Size zero or negative falls back to DefaultNodeSize.
type NodeAttrs struct {
	X    float64
	Y    float64
	Size float64
}

// NodeSource iterates the node set in a stable order. The callback
// returns false to stop early. Matched IDs are reported in iteration
// order.
type NodeSource interface {
	ForEachNode(fn func(id string, attrs NodeAttrs) bool)
}

// NodeSourceFunc adapts a plain function to a NodeSource.
type NodeSourceFunc func(fn func(id string, attrs NodeAttrs) bool)

// ForEachNode implements NodeSource.
func (f NodeSourceFunc) ForEachNode(fn func(id string, attrs NodeAttrs) bool) { f(fn) }

// Surface is the rendering host the tool attaches to. Press subscriptions
// must fire for presses on empty canvas and on nodes alike; both start the
// same drag logic. OnDestroy fires when the host surface is torn down, at
// which point the tool runs its own teardown.
type Surface interface {
	Camera() Camera
	Projector() Projector
	Overlay() Overlay
	Nodes() NodeSource

	OnPress(func(PointerEvent)) Unsubscribe
	OnMove(func(PointerEvent)) Unsubscribe
	OnRelease(func(PointerEvent)) Unsubscribe
	OnDestroy(func()) Unsubscribe

	// Emit publishes a named event on the host's generic channel for
	// external listeners. The tool emits EventSelectNodes with the matched
	// node IDs after every completed selection.
	Emit(event string, payload any)
}

// EventSelectNodes is the event name emitted on the surface's generic
// channel with a []string of matched node IDs.
const EventSelectNodes = "selectNodes"
