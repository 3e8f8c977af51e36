/*
Package layer maintains the tree of compositing layers for a document.

The layer tree mirrors the stacking-context structure of the render tree:
every render node that establishes a stacking context, plus a handful of
node kinds that need their own compositing treatment (scrolling containers,
fixed-position nodes, forced-compositing content such as video), owns a
Layer. All other render nodes borrow the Layer of their nearest such
ancestor.

Each Layer keeps its child layers in three groups, matching the paint
order CSS 2.1 appendix E prescribes: negative z-index children first, then
the zero/auto group in insertion order, then positive z-index children.
Within the signed groups children stay sorted by z-index, ties resolved by
insertion order.

A Layer may own a graphics surface or share the surface of an ancestor.
Ownership is decided per frame from the compositing state of the tree (see
Layer.needsOwnSurface) and surfaces are attached, resized, painted and torn
down by the Layer lifecycle: UpdateGraphicsContext settles ownership,
Render runs the paint traversal, Detach releases surfaces children-first.

Painting and hit testing both walk the groups in the same order, which is
what keeps "what you see" and "what you click" consistent.
*/
package layer

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lamina.layer'.
func tracer() tracing.Trace {
	return tracing.Select("lamina.layer")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("lamina.layer: "+msg, msgargs...)
		panic(msg)
	}
}
