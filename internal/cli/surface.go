package cli

import (
	"github.com/graphkit/marquee/pkg/geom"
	"github.com/graphkit/marquee/pkg/selection"
)

// teaSurface adapts the bubbletea demo canvas to the selection tool's host
// interfaces. The terminal grid is the viewport; graph space is whatever
// the loaded graph uses, mapped through a fitted projector.
type teaSurface struct {
	camera  demoCamera
	overlay demoOverlay
	proj    demoProjector
	nodes   selection.NodeSource

	nextID   int
	press    map[int]func(selection.PointerEvent)
	move     map[int]func(selection.PointerEvent)
	release  map[int]func(selection.PointerEvent)
	destroy  map[int]func()
	onSelect func(ids []string)
}

func newTeaSurface(nodes selection.NodeSource) *teaSurface {
	return &teaSurface{
		nodes:   nodes,
		press:   make(map[int]func(selection.PointerEvent)),
		move:    make(map[int]func(selection.PointerEvent)),
		release: make(map[int]func(selection.PointerEvent)),
		destroy: make(map[int]func()),
	}
}

func (s *teaSurface) Camera() selection.Camera       { return &s.camera }
func (s *teaSurface) Projector() selection.Projector { return &s.proj }
func (s *teaSurface) Overlay() selection.Overlay     { return &s.overlay }
func (s *teaSurface) Nodes() selection.NodeSource    { return s.nodes }

func (s *teaSurface) OnPress(fn func(selection.PointerEvent)) selection.Unsubscribe {
	return subscribe(s, s.press, fn)
}

func (s *teaSurface) OnMove(fn func(selection.PointerEvent)) selection.Unsubscribe {
	return subscribe(s, s.move, fn)
}

func (s *teaSurface) OnRelease(fn func(selection.PointerEvent)) selection.Unsubscribe {
	return subscribe(s, s.release, fn)
}

func (s *teaSurface) OnDestroy(fn func()) selection.Unsubscribe {
	return subscribe(s, s.destroy, fn)
}

func subscribe[T any](s *teaSurface, m map[int]T, fn T) selection.Unsubscribe {
	id := s.nextID
	s.nextID++
	m[id] = fn
	return func() { delete(m, id) }
}

func (s *teaSurface) Emit(event string, payload any) {
	if event != selection.EventSelectNodes || s.onSelect == nil {
		return
	}
	if ids, ok := payload.([]string); ok {
		s.onSelect(ids)
	}
}

func (s *teaSurface) firePress(ev selection.PointerEvent) {
	for _, fn := range s.press {
		fn(ev)
	}
}

func (s *teaSurface) fireMove(ev selection.PointerEvent) {
	for _, fn := range s.move {
		fn(ev)
	}
}

func (s *teaSurface) fireRelease(ev selection.PointerEvent) {
	for _, fn := range s.release {
		fn(ev)
	}
}

// demoCamera tracks whether the host may pan. The demo has no real
// camera; the flag only shows up in the status line.
type demoCamera struct {
	disabled bool
}

func (c *demoCamera) Disable() { c.disabled = true }
func (c *demoCamera) Enable()  { c.disabled = false }

// demoOverlay mirrors the selection rectangle for the View pass.
type demoOverlay struct {
	visible bool
	rect    geom.Rect
	style   selection.OverlayStyle
}

func (o *demoOverlay) Show(style selection.OverlayStyle) {
	o.visible = true
	o.style = style
}

func (o *demoOverlay) SetRect(r geom.Rect) { o.rect = r }
func (o *demoOverlay) Hide()               { o.visible = false }
func (o *demoOverlay) Remove()             { *o = demoOverlay{} }

// demoProjector maps terminal cells to graph coordinates with a linear
// fit of the graph bounds into the canvas. Terminal cells are roughly
// twice as tall as wide, which the per-axis scales absorb.
type demoProjector struct {
	bounds         geom.Rect
	width, height  int
	scaleX, scaleY float64
}

// fit recomputes the mapping for a canvas of w×h cells.
func (p *demoProjector) fit(bounds geom.Rect, w, h int) {
	p.bounds = bounds
	p.width = w
	p.height = h

	p.scaleX = 1
	if bounds.W > 0 && w > 1 {
		p.scaleX = bounds.W / float64(w-1)
	}
	p.scaleY = 1
	if bounds.H > 0 && h > 1 {
		p.scaleY = bounds.H / float64(h-1)
	}
}

func (p *demoProjector) ViewportToGraph(v geom.Point) geom.Point {
	return geom.Point{
		X: p.bounds.X + v.X*p.scaleX,
		Y: p.bounds.Y + v.Y*p.scaleY,
	}
}

func (p *demoProjector) GraphToViewport(g geom.Point) geom.Point {
	return geom.Point{
		X: (g.X - p.bounds.X) / p.scaleX,
		Y: (g.Y - p.bounds.Y) / p.scaleY,
	}
}

// Interface checks.
var (
	_ selection.Surface   = (*teaSurface)(nil)
	_ selection.Camera    = (*demoCamera)(nil)
	_ selection.Overlay   = (*demoOverlay)(nil)
	_ selection.Projector = (*demoProjector)(nil)
)
