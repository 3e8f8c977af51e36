package document

import (
	"image"

	"lamina/pkg/css"
	"lamina/pkg/layer"
	"lamina/pkg/render"
	"lamina/pkg/surface"
)

// Document owns a render tree, its layer tree and the frame state. It is
// the layer.Host of everything below it: mutations schedule work here and
// UpdateFrame runs it.
type Document struct {
	width  int
	height int

	factory func() layer.Surface

	root      *render.Box
	rootLayer *layer.Layer

	// Window scroll. Applied during hit testing; fixed-position content is
	// immune to it.
	scrollX float64
	scrollY float64

	needsGraphicsUpdate bool
	needsRepaint        bool
	painted             bool
}

var _ layer.Host = (*Document)(nil)

// New creates an empty document with a viewport-sized root box. factory
// produces the graphics surfaces layers paint onto; see surface.NewBitmapFactory
// for the rasterizing one.
func New(width, height int, factory func() layer.Surface) *Document {
	assertThat(width > 0 && height > 0, "document needs a positive viewport, got %dx%d", width, height)
	assertThat(factory != nil, "document needs a surface factory")
	d := &Document{width: width, height: height, factory: factory}
	d.root = render.NewBox("root", css.Rect{Width: float64(width), Height: float64(height)})
	rl, err := d.root.AttachRoot(d)
	assertThat(err == nil, "rooting an empty box failed: %v", err)
	d.rootLayer = rl
	return d
}

func (d *Document) NewSurface() layer.Surface { return d.factory() }
func (d *Document) ScheduleGraphicsUpdate()   { d.needsGraphicsUpdate = true }
func (d *Document) ScheduleRepaint()          { d.needsRepaint = true }

// Root returns the document's root box. Content is built by appending
// children to it.
func (d *Document) Root() *render.Box { return d.root }

// RootLayer returns the root of the layer tree.
func (d *Document) RootLayer() *layer.Layer { return d.rootLayer }

// RootSurface returns the root paint target, nil before the first frame.
func (d *Document) RootSurface() layer.Surface { return d.rootLayer.Surface() }

// Size returns the viewport size in pixels.
func (d *Document) Size() (int, int) { return d.width, d.height }

// NeedsFrame reports whether UpdateFrame has pending work.
func (d *Document) NeedsFrame() bool {
	return !d.painted || d.needsGraphicsUpdate || d.needsRepaint
}

// UpdateFrame runs the pending frame work: surface ownership first, then
// painting. The first call always does both, later calls only what
// mutations scheduled.
func (d *Document) UpdateFrame() {
	first := !d.painted
	d.painted = true
	if first || d.needsGraphicsUpdate {
		d.needsGraphicsUpdate = false
		tracer().Debugf("frame: updating graphics contexts")
		d.rootLayer.UpdateGraphicsContext(false)
	}
	if first || d.needsRepaint {
		d.needsRepaint = false
		tracer().Debugf("frame: painting %dx%d", d.width, d.height)
		d.rootLayer.Render(d.width, d.height)
	}
}

// Resize changes the viewport. A root box still sized to the old viewport
// follows along; a root the embedder sized independently keeps its bounds
// and only the bitmaps are redone.
func (d *Document) Resize(width, height int) {
	assertThat(width > 0 && height > 0, "resize to %dx%d", width, height)
	old := css.Rect{Width: float64(d.width), Height: float64(d.height)}
	d.width, d.height = width, height
	if d.root.GlobalBounds() == old {
		d.root.SetBounds(css.Rect{Width: float64(width), Height: float64(height)})
	} else {
		d.rootLayer.InvalidateRendering()
	}
}

// SetScroll sets the window scroll position.
func (d *Document) SetScroll(x, y float64) {
	d.scrollX, d.scrollY = x, y
}

// Scroll returns the window scroll position.
func (d *Document) Scroll() (float64, float64) {
	return d.scrollX, d.scrollY
}

// HitTest returns the topmost visible element at the viewport point
// (x, y), nil when nothing is there. The window scroll is applied; fixed
// content answers at its unscrolled position.
func (d *Document) HitTest(x, y float64) layer.Element {
	return d.rootLayer.TopMostElementAtPoint(css.Point{X: x, Y: y}, d.scrollX, d.scrollY)
}

// ElementsAt returns every element at the viewport point, bottom to top.
func (d *Document) ElementsAt(x, y float64) []layer.Element {
	return d.rootLayer.ElementsAtPoint(css.Point{X: x, Y: y}, d.scrollX, d.scrollY)
}

// BoxAt is HitTest for callers that know the tree holds render boxes.
func (d *Document) BoxAt(x, y float64) *render.Box {
	el := d.HitTest(x, y)
	if el == nil {
		return nil
	}
	b, ok := el.(*render.Box)
	assertThat(ok, "document tree holds a %T element", el)
	return b
}

// Snapshot runs any pending frame and rasterizes the surface tree into a
// single image. It fails with surface.ErrCannotRasterize when the document
// runs on a non-rasterizing backend.
func (d *Document) Snapshot() (*image.RGBA, error) {
	d.UpdateFrame()
	return surface.Compose(d.rootLayer.Surface(), d.width, d.height)
}

// Dump renders the layer tree as an indented text sketch, for debugging.
func (d *Document) Dump() string {
	return d.rootLayer.Dump()
}
