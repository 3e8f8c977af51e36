package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"lamina/pkg/css"
	"lamina/pkg/layer"
	"lamina/pkg/surface"
)

type boxHost struct {
	factory          func() layer.Surface
	graphicsRequests int
	repaintRequests  int
}

func (h *boxHost) NewSurface() layer.Surface { return h.factory() }
func (h *boxHost) ScheduleGraphicsUpdate()   { h.graphicsRequests++ }
func (h *boxHost) ScheduleRepaint()          { h.repaintRequests++ }

func newBoxTree(t *testing.T) (*Box, *layer.Layer, *surface.OpLog, *boxHost) {
	t.Helper()
	log := surface.NewOpLog()
	host := &boxHost{factory: surface.Factory(log)}
	root := NewBox("root", css.Rect{Width: 800, Height: 600})
	rl, err := root.AttachRoot(host)
	if err != nil {
		t.Fatalf("attach root: %v", err)
	}
	return root, rl, log, host
}

func mustAppend(t *testing.T, parent, child *Box) {
	t.Helper()
	if err := parent.AppendChild(child); err != nil {
		t.Fatalf("append %s to %s: %v", child.Name(), parent.Name(), err)
	}
}

// renderFrame settles surfaces, then records just the paint traversal.
func renderFrame(rl *layer.Layer, log *surface.OpLog) {
	rl.UpdateGraphicsContext(false)
	log.Reset()
	rl.Render(800, 600)
}

// fillIndex returns the position of the first fill op covering r, -1 if
// the rectangle was never filled.
func fillIndex(log *surface.OpLog, r css.Rect) int {
	for i, op := range log.Ops {
		if strings.HasPrefix(op, "fill ") && strings.Contains(op, r.String()) {
			return i
		}
	}
	return -1
}

func TestCreatesOwnLayer(t *testing.T) {
	root, _, _, _ := newBoxTree(t)
	cases := map[string]struct {
		mutate func(b *Box)
		want   bool
	}{
		"static":      {func(b *Box) {}, false},
		"z-auto":      {func(b *Box) { b.zIndex = css.Auto() }, false},
		"z-zero":      {func(b *Box) { b.zIndex = css.Z(0) }, true},
		"z-negative":  {func(b *Box) { b.zIndex = css.Z(-1) }, true},
		"translucent": {func(b *Box) { b.opacity = css.OpacityNumber(0.5) }, true},
		"transformed": {func(b *Box) { b.transform, b.transformed = css.Translation(1, 0), true }, true},
		"scrollable":  {func(b *Box) { b.scrollable = true }, true},
		"fixed":       {func(b *Box) { b.position = css.PositionFixed }, true},
		"compositing": {func(b *Box) { b.compositing = true }, true},
	}
	for name, tc := range cases {
		b := NewBox(name, css.Rect{Width: 10, Height: 10})
		b.parent = root
		tc.mutate(b)
		if got := b.CreatesOwnLayer(); got != tc.want {
			t.Errorf("%s: CreatesOwnLayer() = %v, want %v", name, got, tc.want)
		}
	}
	if !root.CreatesOwnLayer() {
		t.Error("the document root must own a layer")
	}
}

func TestLayerAttribution(t *testing.T) {
	root, rl, _, _ := newBoxTree(t)
	div := NewBox("div", css.Rect{Width: 100, Height: 100})
	span := NewBox("span", css.Rect{Width: 50, Height: 20})
	stacked := NewBox("stacked", css.Rect{Width: 60, Height: 60})
	stacked.zIndex = css.Z(5)

	mustAppend(t, root, div)
	mustAppend(t, div, span)
	mustAppend(t, div, stacked)

	if div.layer != nil {
		t.Error("a plain box must not own a layer")
	}
	if div.Layer() != rl {
		t.Error("plain box must paint into the root layer")
	}
	if span.Layer() != rl {
		t.Error("nested plain box must paint into the root layer")
	}
	if stacked.layer == nil {
		t.Fatal("a box with numeric z-index must own a layer")
	}
	if stacked.Layer() != stacked.layer {
		t.Error("an owning box must report its own layer")
	}
}

func TestAppendDelegatesAcrossNonStackingLayers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lamina.render")
	defer teardown()

	root, rl, _, _ := newBoxTree(t)
	scroll := NewBox("scroll", css.Rect{Width: 200, Height: 200})
	scroll.scrollable = true
	inner := NewBox("inner", css.Rect{Width: 50, Height: 50})
	inner.zIndex = css.Z(5)

	mustAppend(t, root, scroll)
	mustAppend(t, scroll, inner)

	if scroll.layer == nil || inner.layer == nil {
		t.Fatal("both boxes must own layers")
	}
	if scroll.layer.EstablishesStackingContext() {
		t.Error("a scroll layer alone must not establish a stacking context")
	}
	if scroll.layer.Parent() != rl {
		t.Error("scroll layer must hang off the root layer")
	}
	if inner.layer.Parent() != rl {
		t.Error("stacked child must delegate past the scroll layer to the root")
	}
}

func TestRemoveChildDetachesDelegatedLayers(t *testing.T) {
	root, _, _, _ := newBoxTree(t)
	scroll := NewBox("scroll", css.Rect{Width: 200, Height: 200})
	scroll.scrollable = true
	inner := NewBox("inner", css.Rect{Width: 50, Height: 50})
	inner.zIndex = css.Z(5)
	mustAppend(t, root, scroll)
	mustAppend(t, scroll, inner)

	root.RemoveChild(scroll)

	if scroll.layer != nil || inner.layer != nil {
		t.Error("removal must detach every layer of the subtree")
	}
	if scroll.Layer() != nil || inner.Layer() != nil {
		t.Error("a detached subtree has no layer attribution")
	}
	if scroll.parent != nil {
		t.Error("removed box must be unlinked")
	}
}

func TestSetZIndexReordersPaint(t *testing.T) {
	root, rl, log, _ := newBoxTree(t)
	a := NewBox("a", css.Rect{X: 10, Width: 10, Height: 10})
	a.zIndex = css.Z(1)
	b := NewBox("b", css.Rect{X: 20, Width: 10, Height: 10})
	b.zIndex = css.Z(2)
	mustAppend(t, root, a)
	mustAppend(t, root, b)

	renderFrame(rl, log)
	ia, ib := fillIndex(log, a.bounds), fillIndex(log, b.bounds)
	if ia < 0 || ib < 0 || ia > ib {
		t.Fatalf("expected a before b, got a=%d b=%d", ia, ib)
	}

	if err := a.SetZIndex(css.Z(3)); err != nil {
		t.Fatalf("SetZIndex: %v", err)
	}
	renderFrame(rl, log)
	ia, ib = fillIndex(log, a.bounds), fillIndex(log, b.bounds)
	if ia < 0 || ib < 0 || ib > ia {
		t.Fatalf("expected b before a after restyle, got a=%d b=%d", ia, ib)
	}
}

func TestSetZIndexRejectsUnset(t *testing.T) {
	root, _, _, _ := newBoxTree(t)
	b := NewBox("b", css.Rect{Width: 10, Height: 10})
	mustAppend(t, root, b)

	err := b.SetZIndex(css.ZIndex{})
	if !errors.Is(err, layer.ErrInvalidStyleValue) {
		t.Fatalf("want ErrInvalidStyleValue, got %v", err)
	}
	if !b.ZIndex().IsAuto() {
		t.Error("failed mutation must leave the box unchanged")
	}
}

func TestAppendChildRollsBackOnInvalidZIndex(t *testing.T) {
	root, _, _, _ := newBoxTree(t)
	bad := &Box{name: "bad", bounds: css.Rect{Width: 10, Height: 10}, visible: true, opacity: css.Opaque(), scrollable: true}

	err := root.AppendChild(bad)
	if !errors.Is(err, layer.ErrInvalidStyleValue) {
		t.Fatalf("want ErrInvalidStyleValue, got %v", err)
	}
	if len(root.Children()) != 0 {
		t.Error("failed append must leave the parent unchanged")
	}
	if bad.parent != nil || bad.layer != nil {
		t.Error("failed append must leave the child detached")
	}
}

func TestOpacityTogglesLayerOwnership(t *testing.T) {
	root, _, _, _ := newBoxTree(t)
	b := NewBox("b", css.Rect{Width: 10, Height: 10})
	mustAppend(t, root, b)
	if b.layer != nil {
		t.Fatal("opaque plain box must not own a layer")
	}

	b.SetOpacity(css.OpacityNumber(0.5))
	if b.layer == nil {
		t.Fatal("translucent box must own a layer")
	}
	if !b.layer.EstablishesStackingContext() {
		t.Error("translucent box must establish a stacking context")
	}

	b.SetOpacity(css.Opaque())
	if b.layer != nil {
		t.Error("restoring full opacity must drop the layer again")
	}
}

func TestRenderPaintsSameLayerSubtreeOnly(t *testing.T) {
	root, _, log, _ := newBoxTree(t)
	root.background = css.Color{R: 255, G: 255, B: 255, A: 1}
	c1 := NewBox("c1", css.Rect{X: 10, Width: 10, Height: 10})
	c1.background = css.Color{R: 255, A: 1}
	c2 := NewBox("c2", css.Rect{X: 20, Width: 10, Height: 10})
	c2.background = css.Color{G: 255, A: 1}
	stacked := NewBox("stacked", css.Rect{X: 30, Width: 10, Height: 10})
	stacked.background = css.Color{B: 255, A: 1}
	stacked.zIndex = css.Z(1)
	mustAppend(t, root, c1)
	mustAppend(t, c1, c2)
	mustAppend(t, root, stacked)

	probe := surface.NewRecorder(log, "probe")
	root.Render(probe)

	iroot := fillIndex(log, root.bounds)
	i1 := fillIndex(log, c1.bounds)
	i2 := fillIndex(log, c2.bounds)
	if iroot < 0 || i1 < 0 || i2 < 0 {
		t.Fatalf("same-layer content missing: root=%d c1=%d c2=%d\n%v", iroot, i1, i2, log.Ops)
	}
	if !(iroot < i1 && i1 < i2) {
		t.Errorf("document order violated: root=%d c1=%d c2=%d", iroot, i1, i2)
	}
	if fillIndex(log, stacked.bounds) >= 0 {
		t.Error("a child owning a layer must not paint during the parent's Render")
	}
}

func TestRenderAppliesScrollDisplacement(t *testing.T) {
	root, _, log, _ := newBoxTree(t)
	scroll := NewBox("scroll", css.Rect{X: 10, Y: 10, Width: 100, Height: 100})
	scroll.scrollable = true
	scroll.background = css.Color{R: 255, A: 1}
	content := NewBox("content", css.Rect{X: 10, Y: 60, Width: 20, Height: 20})
	content.background = css.Color{G: 255, A: 1}
	mustAppend(t, root, scroll)
	mustAppend(t, scroll, content)
	scroll.SetScroll(5, 30)

	probe := surface.NewRecorder(log, "probe")
	scroll.Render(probe)

	if fillIndex(log, scroll.bounds) < 0 {
		t.Error("the container itself must not move with its scroll position")
	}
	moved := css.Rect{X: 5, Y: 30, Width: 20, Height: 20}
	if fillIndex(log, moved) < 0 {
		t.Errorf("content must paint displaced by the scroll position\n%v", log.Ops)
	}
}

func TestRenderScrollBars(t *testing.T) {
	root, _, log, _ := newBoxTree(t)
	scroll := NewBox("scroll", css.Rect{Width: 100, Height: 100})
	scroll.scrollable = true
	plain := NewBox("plain", css.Rect{Width: 50, Height: 50})
	mustAppend(t, root, scroll)
	mustAppend(t, root, plain)

	probe := surface.NewRecorder(log, "probe")
	scroll.RenderScrollBars(probe, 800, 600)
	if fillIndex(log, css.Rect{X: 88, Y: 0, Width: 12, Height: 100}) < 0 {
		t.Errorf("missing vertical bar\n%v", log.Ops)
	}
	if fillIndex(log, css.Rect{X: 0, Y: 88, Width: 88, Height: 12}) < 0 {
		t.Errorf("missing horizontal bar\n%v", log.Ops)
	}

	log.Reset()
	plain.RenderScrollBars(probe, 800, 600)
	if len(log.Ops) != 0 {
		t.Errorf("non-scrolling box painted scroll bars: %v", log.Ops)
	}

	log.Reset()
	root.scrollable = true
	root.RenderScrollBars(probe, 800, 600)
	if fillIndex(log, css.Rect{X: 788, Y: 0, Width: 12, Height: 600}) < 0 {
		t.Errorf("root scroll bars must hug the viewport\n%v", log.Ops)
	}
}

func TestHiddenBoxPaintsChildrenOnly(t *testing.T) {
	root, _, log, _ := newBoxTree(t)
	hidden := NewBox("hidden", css.Rect{X: 10, Width: 30, Height: 30})
	hidden.background = css.Color{R: 255, A: 1}
	hidden.visible = false
	child := NewBox("child", css.Rect{X: 15, Width: 10, Height: 10})
	child.background = css.Color{G: 255, A: 1}
	mustAppend(t, root, hidden)
	mustAppend(t, hidden, child)

	probe := surface.NewRecorder(log, "probe")
	root.Render(probe)

	if fillIndex(log, hidden.bounds) >= 0 {
		t.Error("hidden box must not paint its background")
	}
	if fillIndex(log, child.bounds) < 0 {
		t.Error("children of a hidden box still paint")
	}
}

func TestApplyStyleResolvesProperties(t *testing.T) {
	style := css.ParseInlineStyle("position: relative; z-index: 3; opacity: 0.5; background-color: red; left: 4px; top: 6px")
	b := NewBoxFromStyle("styled", css.Rect{Width: 10, Height: 10}, style)

	if b.Position() != css.PositionRelative {
		t.Errorf("position = %v", b.Position())
	}
	if n, ok := b.ZIndex().Num(); !ok || n != 3 {
		t.Errorf("z-index = %v", b.ZIndex())
	}
	if !b.Opacity().Translucent() {
		t.Errorf("opacity = %v", b.Opacity())
	}
	if b.RelativeOffset() != (css.Point{X: 4, Y: 6}) {
		t.Errorf("relative offset = %v", b.RelativeOffset())
	}
	if b.Background() != (css.Color{R: 255, A: 1}) {
		t.Errorf("background = %v", b.Background())
	}
}

func TestMutationSchedulesHostWork(t *testing.T) {
	root, _, _, host := newBoxTree(t)
	b := NewBox("b", css.Rect{Width: 10, Height: 10})
	b.zIndex = css.Z(1)
	mustAppend(t, root, b)
	if host.graphicsRequests == 0 {
		t.Error("inserting a layer-owning box must schedule a graphics update")
	}

	host.repaintRequests = 0
	b.SetBackground(css.Color{R: 1, A: 1})
	if host.repaintRequests == 0 {
		t.Error("a paint-affecting mutation must schedule a repaint")
	}
}
