package layer

import "lamina/pkg/css"

// Element is the render-tree node a Layer paints for. The layer tree never
// reaches into render-node internals; everything it needs to order, paint
// and hit-test a node comes through this interface.
//
// Style accessors return resolved values. ZIndex in particular must return
// a value that IsSet for any element whose Layer gets inserted into the
// tree; an unset z-index makes the insertion fail with
// ErrInvalidStyleValue.
type Element interface {
	// GlobalBounds returns the border box in global document coordinates.
	GlobalBounds() css.Rect
	// RelativeOffset returns the displacement a relatively positioned
	// element is shifted by, zero for everything else.
	RelativeOffset() css.Point
	// ScrollLeft and ScrollTop return the current scroll position of the
	// element's content, zero for non-scrolling elements.
	ScrollLeft() float64
	ScrollTop() float64

	Visible() bool
	Position() css.PositionType
	ZIndex() css.ZIndex
	Opacity() css.Opacity

	// Transformed reports whether the element declares a transform; the
	// matrix itself is returned by TransformMatrix.
	Transformed() bool
	TransformMatrix() css.Matrix

	// Scrollable reports whether the element clips and scrolls overflow.
	Scrollable() bool
	// Compositing reports whether the element forces its own surface
	// (video, plugins and the like).
	Compositing() bool

	// ChildNodes returns the render children in document order.
	ChildNodes() []Element
	// Layer returns the Layer this element's content paints into: the
	// element's own Layer if it has one, otherwise the nearest ancestor's.
	Layer() *Layer

	// Render paints onto the surface: the element's own content plus, in
	// document order, the content of descendants attributed to the same
	// Layer. Descendants with a Layer of their own are painted by that
	// layer instead, not here.
	Render(Surface)
	// RenderScrollBars paints scroll indicators, if any, for the given
	// viewport size. Called every frame, after the element's subtree.
	RenderScrollBars(s Surface, width, height float64)
}

// Transparent reports whether el's content paints through a transparency
// group, i.e. its opacity resolves below full coverage.
func Transparent(el Element) bool {
	return el.Opacity().Translucent()
}
