package render

import (
	"fmt"

	"lamina/pkg/css"
	"lamina/pkg/layer"
)

// Box is a rectangle of content in the render tree. Geometry is stored in
// global document coordinates, the way a layout pass would leave it, and
// style values are stored resolved.
type Box struct {
	name string

	bounds css.Rect
	rel    css.Point

	visible     bool
	position    css.PositionType
	zIndex      css.ZIndex
	opacity     css.Opacity
	transform   css.Matrix
	transformed bool

	background  css.Color
	borderColor css.Color
	borderWidth float64

	scrollable  bool
	scrollLeft  float64
	scrollTop   float64
	compositing bool

	parent   *Box
	children []*Box

	// layer is non-nil iff this box owns a Layer in a rooted tree.
	layer *layer.Layer
}

var _ layer.Element = (*Box)(nil)

// NewBox creates a visible static box with the given global bounds. The
// zero style is position static, z-index auto, fully opaque, no transform.
func NewBox(name string, bounds css.Rect) *Box {
	return &Box{
		name:      name,
		bounds:    bounds,
		visible:   true,
		position:  css.PositionStatic,
		zIndex:    css.Auto(),
		opacity:   css.Opaque(),
		transform: css.Identity(),
	}
}

// NewBoxFromStyle creates a box and applies s to it in one go.
func NewBoxFromStyle(name string, bounds css.Rect, s *css.Style) *Box {
	b := NewBox(name, bounds)
	b.ApplyStyle(s)
	return b
}

func (b *Box) Name() string   { return b.name }
func (b *Box) String() string { return b.name }

func (b *Box) Parent() *Box          { return b.parent }
func (b *Box) Children() []*Box      { return b.children }
func (b *Box) Background() css.Color { return b.background }

func (b *Box) GlobalBounds() css.Rect      { return b.bounds }
func (b *Box) RelativeOffset() css.Point   { return b.rel }
func (b *Box) ScrollLeft() float64         { return b.scrollLeft }
func (b *Box) ScrollTop() float64          { return b.scrollTop }
func (b *Box) Visible() bool               { return b.visible }
func (b *Box) Position() css.PositionType  { return b.position }
func (b *Box) ZIndex() css.ZIndex          { return b.zIndex }
func (b *Box) Opacity() css.Opacity        { return b.opacity }
func (b *Box) Transformed() bool           { return b.transformed }
func (b *Box) TransformMatrix() css.Matrix { return b.transform }
func (b *Box) Scrollable() bool            { return b.scrollable }
func (b *Box) Compositing() bool           { return b.compositing }

func (b *Box) ChildNodes() []layer.Element {
	nodes := make([]layer.Element, len(b.children))
	for i, c := range b.children {
		nodes[i] = c
	}
	return nodes
}

// Layer returns the layer this box's content paints into: the box's own
// layer when it has one, otherwise the nearest ancestor's. nil while the
// box is not part of a rooted tree.
func (b *Box) Layer() *layer.Layer {
	if b.layer != nil {
		return b.layer
	}
	if b.parent != nil {
		return b.parent.Layer()
	}
	return nil
}

// CreatesOwnLayer reports whether this box owns a Layer once rooted:
// boxes establishing stacking contexts (numeric z-index, opacity below
// one, transformed) plus scrolling containers, fixed-position boxes and
// forced-compositing content.
func (b *Box) CreatesOwnLayer() bool {
	if b.parent == nil {
		return true
	}
	if _, numeric := b.zIndex.Num(); numeric {
		return true
	}
	return b.opacity.Translucent() || b.transformed || b.scrollable ||
		b.position == css.PositionFixed || b.compositing
}

// AttachRoot makes b the root of a document by creating the root layer on
// host, then attaches layers for any boxes already below b.
func (b *Box) AttachRoot(host layer.Host) (*layer.Layer, error) {
	assertThat(b.parent == nil, "root box %s has a parent", b.name)
	assertThat(b.layer == nil, "box %s is already rooted", b.name)
	b.layer = layer.NewRoot(b, host)
	for _, c := range b.children {
		if err := c.attachLayers(); err != nil {
			b.detachChildLayers()
			b.layer = nil
			return nil, err
		}
	}
	return b.layer, nil
}

// AppendChild links child as the last render child of b. In a rooted tree
// the layers of the child's subtree are attached as well; if that fails
// the box tree is left unchanged.
func (b *Box) AppendChild(child *Box) error {
	assertThat(child != nil, "append of a nil box")
	assertThat(child.parent == nil, "box %s is already in a tree", child.name)
	tracer().Debugf("append box %s to %s", child.name, b.name)
	child.parent = b
	b.children = append(b.children, child)
	containing := b.Layer()
	if containing == nil {
		return nil
	}
	if err := child.attachLayers(); err != nil {
		child.detachLayers()
		b.children = b.children[:len(b.children)-1]
		child.parent = nil
		return fmt.Errorf("append box %s: %w", child.name, err)
	}
	containing.InvalidateRendering()
	return nil
}

// RemoveChild unlinks child from b, detaching every layer in its subtree.
func (b *Box) RemoveChild(child *Box) {
	assertThat(child != nil, "remove of a nil box")
	assertThat(child.parent == b, "box %s is not a child of %s", child.name, b.name)
	tracer().Debugf("remove box %s from %s", child.name, b.name)
	containing := b.Layer()
	child.detachLayers()
	for i, c := range b.children {
		if c == child {
			b.children = append(b.children[:i], b.children[i+1:]...)
			break
		}
	}
	child.parent = nil
	if containing != nil {
		containing.InvalidateRendering()
	}
}

// attachLayers walks b's subtree in document order creating and inserting
// a layer for every box that owns one.
func (b *Box) attachLayers() error {
	if b.layer == nil && b.CreatesOwnLayer() {
		parent := b.parent.Layer()
		assertThat(parent != nil, "attach of %s without a rooted ancestor layer", b.name)
		l := layer.New(b, parent.Host())
		if err := parent.AppendChild(l); err != nil {
			return err
		}
		b.layer = l
	}
	for _, c := range b.children {
		if err := c.attachLayers(); err != nil {
			return err
		}
	}
	return nil
}

// detachLayers removes the layers of b's subtree from the layer tree,
// children before parents.
func (b *Box) detachLayers() {
	b.detachChildLayers()
	if b.layer != nil {
		err := b.layer.Parent().RemoveChild(b.layer)
		assertThat(err == nil, "detach of %s failed: %v", b.name, err)
		b.layer = nil
	}
}

func (b *Box) detachChildLayers() {
	for i := len(b.children) - 1; i >= 0; i-- {
		b.children[i].detachLayers()
	}
}

// invalidateContent marks the box's content stale. The repaint mark must
// land on the layer owning the shared surface: only the owner's repaint
// clears the surface, so marking a sharing layer alone would leave stale
// pixels behind.
func (b *Box) invalidateContent() {
	l := b.Layer()
	if l == nil {
		return
	}
	for l.Parent() != nil && l.Surface() != nil && !l.HasOwnSurface() {
		l = l.Parent()
	}
	l.InvalidateRendering()
}

// restyle applies a mutation that can change which boxes own layers or
// where those layers sit in their stacking context. The subtree's layers
// are rebuilt around the mutation so grouping, ordering and delegation are
// settled against the new style.
func (b *Box) restyle(mutate func()) {
	if b.layer != nil && b.layer.IsRoot() {
		mutate()
		b.layer.InvalidateRendering()
		b.layer.InvalidateGraphicsContext(false)
		return
	}
	if b.Layer() == nil {
		mutate()
		return
	}
	// The box's own layer may not survive the rebuild; the parent's layer
	// does, so that is where the repaint lands.
	containing := b.parent.Layer()
	b.detachLayers()
	mutate()
	err := b.attachLayers()
	assertThat(err == nil, "restyle of %s could not reattach layers: %v", b.name, err)
	containing.InvalidateRendering()
}

// SetBounds moves or resizes the box.
func (b *Box) SetBounds(r css.Rect) {
	b.bounds = r
	b.invalidateContent()
}

// SetRelativeOffset sets the displacement applied to a relatively
// positioned box.
func (b *Box) SetRelativeOffset(p css.Point) {
	b.rel = p
	b.invalidateContent()
}

func (b *Box) SetVisible(v bool) {
	b.visible = v
	b.invalidateContent()
}

func (b *Box) SetBackground(c css.Color) {
	b.background = c
	b.invalidateContent()
}

func (b *Box) SetBorder(c css.Color, width float64) {
	b.borderColor, b.borderWidth = c, width
	b.invalidateContent()
}

// SetScroll sets the scroll position of a scrolling container's content.
func (b *Box) SetScroll(left, top float64) {
	b.scrollLeft, b.scrollTop = left, top
	b.invalidateContent()
}

// SetZIndex changes the box's z-index. An unset value is rejected with
// ErrInvalidStyleValue and leaves the box untouched.
func (b *Box) SetZIndex(z css.ZIndex) error {
	if !z.IsSet() {
		return fmt.Errorf("z-index of %s: %w", b.name, layer.ErrInvalidStyleValue)
	}
	b.restyle(func() { b.zIndex = z })
	return nil
}

func (b *Box) SetOpacity(o css.Opacity) {
	b.restyle(func() { b.opacity = o })
}

func (b *Box) SetTransform(m css.Matrix) {
	b.restyle(func() { b.transform, b.transformed = m, true })
}

func (b *Box) ClearTransform() {
	b.restyle(func() { b.transform, b.transformed = css.Identity(), false })
}

func (b *Box) SetPosition(p css.PositionType) {
	b.restyle(func() { b.position = p })
}

func (b *Box) SetScrollable(scrollable bool) {
	b.restyle(func() { b.scrollable = scrollable })
}

func (b *Box) SetCompositing(compositing bool) {
	b.restyle(func() { b.compositing = compositing })
}

// ApplyStyle resolves the box-level properties out of s and applies them
// as a single restyle.
func (b *Box) ApplyStyle(s *css.Style) {
	b.restyle(func() {
		b.position = s.GetPosition()
		b.zIndex = s.GetZIndex()
		b.opacity = s.GetOpacity()
		if m, ok := s.GetTransform(); ok {
			b.transform, b.transformed = m, true
		} else {
			b.transform, b.transformed = css.Identity(), false
		}
		b.visible = s.GetVisible()
		b.scrollable = s.GetScrollable()
		b.background = s.GetColor("background-color", b.background)
		b.borderColor = s.GetColor("border-color", b.borderColor)
		if w, ok := s.GetLength("border-width"); ok {
			b.borderWidth = w
		}
		if b.position == css.PositionRelative {
			left, _ := s.GetLength("left")
			top, _ := s.GetLength("top")
			b.rel = css.Point{X: left, Y: top}
		} else {
			b.rel = css.Point{}
		}
	})
}

// Render paints the box and, in document order, its descendants that share
// the box's layer. Descendants owning a layer of their own are painted by
// the layer traversal instead.
func (b *Box) Render(s layer.Surface) {
	canvas, ok := s.(layer.Canvas)
	if !ok {
		return
	}
	b.renderContent(canvas, 0, 0)
}

// renderContent paints b shifted by (dx, dy), the accumulated scroll
// displacement of the boxes entered so far in this layer's subtree.
// Invisible boxes paint nothing themselves but their children still can.
func (b *Box) renderContent(canvas layer.Canvas, dx, dy float64) {
	if b.visible {
		r := b.bounds.Translate(dx, dy)
		if !b.background.Transparent() {
			canvas.FillRect(r, b.background)
		}
		if b.borderWidth > 0 && !b.borderColor.Transparent() {
			canvas.StrokeRect(r, b.borderColor, b.borderWidth)
		}
	}
	cdx, cdy := dx-b.scrollLeft, dy-b.scrollTop
	for _, c := range b.children {
		if c.layer != nil {
			continue
		}
		c.renderContent(canvas, cdx, cdy)
	}
}

// RenderScrollBars paints plain indicator bars along the right and bottom
// edges of a scrolling container. The root box sizes them to the viewport.
func (b *Box) RenderScrollBars(s layer.Surface, width, height float64) {
	if !b.scrollable {
		return
	}
	canvas, ok := s.(layer.Canvas)
	if !ok {
		return
	}
	area := b.bounds
	if b.parent == nil {
		area = css.Rect{Width: width, Height: height}
	}
	const barSize = 12.0
	barColor := css.Color{R: 200, G: 200, B: 200, A: 1}
	canvas.FillRect(css.Rect{
		X: area.X + area.Width - barSize, Y: area.Y,
		Width: barSize, Height: area.Height,
	}, barColor)
	canvas.FillRect(css.Rect{
		X: area.X, Y: area.Y + area.Height - barSize,
		Width: area.Width - barSize, Height: barSize,
	}, barColor)
}
