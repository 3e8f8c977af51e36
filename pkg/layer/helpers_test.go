package layer

import (
	"fmt"
	"strings"

	"lamina/pkg/css"
)

// testNode is a minimal render node for driving the layer tree in tests.
// Paint and scrollbar calls append to the shared op log, so tests can
// assert global call order across all surfaces.
type testNode struct {
	name        string
	bounds      css.Rect
	rel         css.Point
	scrollL     float64
	scrollT     float64
	hidden      bool
	position    css.PositionType
	zindex      css.ZIndex
	opacity     css.Opacity
	transform   css.Matrix
	transformed bool
	scrollable  bool
	compositing bool

	children []*testNode
	layer    *Layer
	log      *oplog
}

func (n *testNode) GlobalBounds() css.Rect        { return n.bounds }
func (n *testNode) RelativeOffset() css.Point     { return n.rel }
func (n *testNode) ScrollLeft() float64           { return n.scrollL }
func (n *testNode) ScrollTop() float64            { return n.scrollT }
func (n *testNode) Visible() bool                 { return !n.hidden }
func (n *testNode) Position() css.PositionType    { return n.position }
func (n *testNode) ZIndex() css.ZIndex            { return n.zindex }
func (n *testNode) Opacity() css.Opacity          { return n.opacity }
func (n *testNode) Transformed() bool             { return n.transformed }
func (n *testNode) TransformMatrix() css.Matrix   { return n.transform }
func (n *testNode) Scrollable() bool              { return n.scrollable }
func (n *testNode) Compositing() bool             { return n.compositing }
func (n *testNode) Layer() *Layer                 { return n.layer }
func (n *testNode) String() string                { return n.name }

func (n *testNode) ChildNodes() []Element {
	els := make([]Element, len(n.children))
	for i, c := range n.children {
		els[i] = c
	}
	return els
}

func (n *testNode) Render(s Surface) {
	n.log.add("paint " + n.name)
	for _, c := range n.children {
		if c.layer == n.layer {
			c.Render(s)
		}
	}
}

func (n *testNode) RenderScrollBars(s Surface, w, h float64) {
	if n.scrollable {
		n.log.add("scrollbars " + n.name)
	}
}

// node builds a test node with sensible defaults: visible, opaque, static.
func node(name string, z css.ZIndex, bounds css.Rect) *testNode {
	return &testNode{
		name:    name,
		bounds:  bounds,
		zindex:  z,
		opacity: css.Opaque(),
	}
}

// oplog is the shared call record of a test tree.
type oplog struct {
	ops []string
}

func (g *oplog) add(op string) {
	g.ops = append(g.ops, op)
}

func (g *oplog) reset() {
	g.ops = nil
}

// indexOf returns the position of the first op with the given prefix, -1
// if absent.
func (g *oplog) indexOf(prefix string) int {
	for i, op := range g.ops {
		if strings.HasPrefix(op, prefix) {
			return i
		}
	}
	return -1
}

func (g *oplog) count(prefix string) int {
	n := 0
	for _, op := range g.ops {
		if strings.HasPrefix(op, prefix) {
			n++
		}
	}
	return n
}

// testSurface records the surface lifecycle instead of rasterizing.
type testSurface struct {
	id       string
	log      *oplog
	children []*testSurface
	matrix   css.Matrix
	disposed bool
}

func (s *testSurface) InitBitmapData(w, h int) {
	s.log.add(fmt.Sprintf("init %s %dx%d", s.id, w, h))
}

func (s *testSurface) Clear() {
	s.log.add("clear " + s.id)
}

func (s *testSurface) BeginTransparency(alpha float64) {
	s.log.add(fmt.Sprintf("begin-alpha %.2f", alpha))
}

func (s *testSurface) EndTransparency() {
	s.log.add("end-alpha")
}

func (s *testSurface) Transform(m css.Matrix) {
	s.matrix = m
	s.log.add("transform " + s.id)
}

func (s *testSurface) AppendChild(child Surface) {
	c := child.(*testSurface)
	s.children = append(s.children, c)
	s.log.add(fmt.Sprintf("append %s<-%s", s.id, c.id))
}

func (s *testSurface) RemoveChild(child Surface) {
	c := child.(*testSurface)
	for i, cc := range s.children {
		if cc == c {
			s.children = append(s.children[:i], s.children[i+1:]...)
			break
		}
	}
	s.log.add(fmt.Sprintf("remove %s<-%s", s.id, c.id))
}

func (s *testSurface) Dispose() {
	s.disposed = true
	s.log.add("dispose " + s.id)
}

// testHost hands out testSurfaces and counts scheduling calls.
type testHost struct {
	log              *oplog
	allocated        int
	graphicsRequests int
	repaintRequests  int
}

func (h *testHost) NewSurface() Surface {
	h.allocated++
	return &testSurface{id: fmt.Sprintf("s%d", h.allocated), log: h.log}
}

func (h *testHost) ScheduleGraphicsUpdate() { h.graphicsRequests++ }
func (h *testHost) ScheduleRepaint()        { h.repaintRequests++ }

// newTestTree builds a host plus a root node/layer pair covering the
// given viewport.
func newTestTree(width, height float64) (*testHost, *testNode, *Layer) {
	log := &oplog{}
	host := &testHost{log: log}
	root := node("root", css.Auto(), css.Rect{Width: width, Height: height})
	root.log = log
	rl := NewRoot(root, host)
	root.layer = rl
	return host, root, rl
}

// addChild hangs n under parent in the render tree, wiring the log and,
// when the node calls for it, a fresh child layer appended under
// parentLayer. Returns the layer the node's content belongs to.
func addChild(parent *testNode, parentLayer *Layer, n *testNode, ownLayer bool) (*Layer, error) {
	n.log = parent.log
	parent.children = append(parent.children, n)
	if !ownLayer {
		n.layer = parentLayer
		return parentLayer, nil
	}
	l := New(n, parentLayer.Host())
	n.layer = l
	if err := parentLayer.AppendChild(l); err != nil {
		parent.children = parent.children[:len(parent.children)-1]
		n.layer = nil
		return nil, err
	}
	return l, nil
}

// mustAddChild is addChild for tests where the insert must succeed.
func mustAddChild(parent *testNode, parentLayer *Layer, n *testNode, ownLayer bool) *Layer {
	l, err := addChild(parent, parentLayer, n, ownLayer)
	if err != nil {
		panic(err)
	}
	return l
}

// zSequence extracts the owner z-indexes of the concatenated child groups.
func zSequence(l *Layer) []string {
	var zs []string
	for _, c := range l.childrenInPaintOrder() {
		zs = append(zs, c.owner.ZIndex().String())
	}
	return zs
}
