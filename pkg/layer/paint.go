package layer

import "lamina/pkg/css"

// Render paints the layer and its subtree for the given viewport size.
//
// The traversal keeps one strict order per layer: resize the backing
// bitmap if stale, clear, open the owner's transparency scope, paint
// negative children, paint own content, paint zero/auto and positive
// children, close the transparency scope, paint scrollbar decorations,
// apply the owner's transform, clear the dirty flag. The transparency
// scope deliberately spans all three child groups plus the own content;
// negative children belong inside it.
func (l *Layer) Render(width, height int) {
	stale := l.needsBitmapResize ||
		(l.hasOwnSurface && (width != l.lastWidth || height != l.lastHeight))
	if stale {
		if l.hasOwnSurface {
			tracer().Debugf("layer %s resizes surface to %dx%d", describe(l.owner), width, height)
			l.surface.InitBitmapData(width, height)
			l.needsPaint = true
			l.markSharedDescendantsForPaint()
		}
		l.needsBitmapResize = false
	}
	l.lastWidth, l.lastHeight = width, height

	if l.needsPaint && l.hasOwnSurface {
		l.surface.Clear()
	}

	transparent := Transparent(l.owner)
	if transparent {
		l.surface.BeginTransparency(l.owner.Opacity().Alpha())
	}

	for _, c := range l.negative {
		c.Render(width, height)
	}

	// A layer sharing its surface always repaints along with the surface
	// owner; its content was wiped by the owner's clear.
	if l.needsPaint || !l.hasOwnSurface {
		l.owner.Render(l.surface)
	}

	for _, c := range l.zeroAndAuto {
		c.Render(width, height)
	}
	for _, c := range l.positive {
		c.Render(width, height)
	}

	if transparent {
		l.surface.EndTransparency()
	}

	l.owner.RenderScrollBars(l.surface, float64(width), float64(height))

	if l.owner.Transformed() && (l.needsPaint || l.hasOwnSurface) {
		l.surface.Transform(l.transformationMatrix())
	}

	l.needsPaint = false
}

// transformationMatrix builds the surface transform for the owner: move
// the origin to the owner's global position including its relative
// displacement, apply the owner's transform there, move back, then shift
// by the relative displacement once more. Relative positioning shifts the
// painted content independently of the transform value.
func (l *Layer) transformationMatrix() css.Matrix {
	bounds := l.owner.GlobalBounds()
	rel := l.owner.RelativeOffset()
	ox := bounds.X + rel.X
	oy := bounds.Y + rel.Y

	m := css.Translation(ox, oy)
	m = m.Mul(l.owner.TransformMatrix())
	m = m.Mul(css.Translation(-ox, -oy))
	m = m.Mul(css.Translation(rel.X, rel.Y))
	return m
}
