package layer

import "lamina/pkg/css"

// HitResult collects the elements whose boxes contain a query point, in
// paint order. The topmost match is the last entry, and the full stack
// stays available for consumers that need more than the winner, pointer
// capture resolution for one.
type HitResult struct {
	elements []Element
}

func (r *HitResult) add(el Element) {
	r.elements = append(r.elements, el)
}

// Elements returns every hit, bottom to top.
func (r *HitResult) Elements() []Element {
	return r.elements
}

// Top returns the topmost hit, or nil when nothing matched.
func (r *HitResult) Top() Element {
	if len(r.elements) == 0 {
		return nil
	}
	return r.elements[len(r.elements)-1]
}

// TopMostElementAtPoint returns the topmost visible element at the query
// point, topmost under the same z-order the paint traversal uses. scrollX
// and scrollY carry the scroll position already applied at this layer's
// level, the document scroll when called on the root.
func (l *Layer) TopMostElementAtPoint(pt css.Point, scrollX, scrollY float64) Element {
	res := &HitResult{}
	l.HitTest(res, pt, scrollX, scrollY)
	return res.Top()
}

// ElementsAtPoint returns the full hit stack at the query point, bottom to
// top.
func (l *Layer) ElementsAtPoint(pt css.Point, scrollX, scrollY float64) []Element {
	res := &HitResult{}
	l.HitTest(res, pt, scrollX, scrollY)
	return res.Elements()
}

// HitTest walks this layer's stacking subtree in paint order and adds
// every visible element containing the scrolled query point to res.
//
// The order mirrors Render: negative child layers first, then the owner's
// render subtree, then the zero/auto group, then positive child layers.
// During the subtree walk only z-index-0 child layers are entered in
// place; negative ones were already visited, positive ones wait for their
// group pass, and auto ones are picked up by the zero/auto group pass
// (entering them in the walk as well would visit them twice).
func (l *Layer) HitTest(res *HitResult, pt css.Point, scrollX, scrollY float64) {
	for _, c := range l.negative {
		c.hitTestFromParent(res, pt, scrollX, scrollY)
	}
	l.hitTestSubtree(res, l.owner, pt, scrollX, scrollY)
	for _, c := range l.zeroAndAuto {
		if c.owner.ZIndex().IsAuto() {
			c.hitTestFromParent(res, pt, scrollX, scrollY)
		}
	}
	for _, c := range l.positive {
		c.hitTestFromParent(res, pt, scrollX, scrollY)
	}
}

// hitTestFromParent enters a child layer from its parent's traversal.
// A child layer owned by a scrollable or fixed-position box re-bases the
// scroll offset instead of accumulating the parent chain's: fixed content
// ignores ancestor scrolling, scrolling containers apply only their own
// scroll to their content.
func (l *Layer) hitTestFromParent(res *HitResult, pt css.Point, scrollX, scrollY float64) {
	if l.owner.Position() == css.PositionFixed || l.owner.Scrollable() {
		scrollX, scrollY = 0, 0
	}
	l.HitTest(res, pt, scrollX, scrollY)
}

// hitTestSubtree tests el and its same-layer descendants in document
// order. Entering an element adds its own scroll offset to the offset its
// descendants are tested with.
func (l *Layer) hitTestSubtree(res *HitResult, el Element, pt css.Point, scrollX, scrollY float64) {
	if el.Visible() && el.GlobalBounds().Contains(pt.X+scrollX, pt.Y+scrollY) {
		res.add(el)
	}
	sx := scrollX + el.ScrollLeft()
	sy := scrollY + el.ScrollTop()
	for _, child := range el.ChildNodes() {
		cl := child.Layer()
		if cl == l {
			l.hitTestSubtree(res, child, pt, sx, sy)
			continue
		}
		if cl == nil {
			continue
		}
		if n, numeric := child.ZIndex().Num(); numeric && n == 0 {
			cl.hitTestFromParent(res, pt, sx, sy)
		}
	}
}
