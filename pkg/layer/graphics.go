package layer

// needsOwnSurface decides whether this layer must paint onto a surface of
// its own. The decision is recomputed from current tree state on every
// update pass, never cached across passes: compositing state elsewhere in
// the tree changes it without any mutation in this layer's subtree.
//
// A layer owns its surface when it is the root, when its owner forces
// compositing, when any descendant layer forces compositing (the layer's
// content must stay below that descendant's surface), or when a sibling
// painting before it forces compositing (this layer's content must stay
// above that sibling's surface). Everything else paints onto the nearest
// owning ancestor's surface.
func (l *Layer) needsOwnSurface() bool {
	if l.isRoot || l.owner.Compositing() {
		return true
	}
	if l.hasCompositingDescendant() {
		return true
	}
	return l.parent != nil && l.parent.hasCompositingChildBefore(l)
}

func (l *Layer) hasCompositingDescendant() bool {
	for _, c := range l.childrenInPaintOrder() {
		if c.owner.Compositing() || c.hasCompositingDescendant() {
			return true
		}
	}
	return false
}

// hasCompositingChildBefore reports whether a child painting before the
// given one is itself a forced-compositing layer. The comparison runs over
// the real paint order of the groups.
func (l *Layer) hasCompositingChildBefore(child *Layer) bool {
	for _, c := range l.childrenInPaintOrder() {
		if c == child {
			return false
		}
		if c.owner.Compositing() {
			return true
		}
	}
	assertThat(false, "layer %s is not a child of %s", describe(child.owner), describe(l.owner))
	return false
}

// UpdateGraphicsContext settles surface ownership for this layer and its
// subtree. Where the fresh decision disagrees with the current state the
// layer detaches and re-attaches, rebuilding the subtree's surfaces; in
// all other cases the pass recurses into children unconditionally, since
// their decisions can change even when this layer's does not.
func (l *Layer) UpdateGraphicsContext(force bool) {
	if l.surface == nil {
		// Freshly inserted subtree, never attached.
		l.Attach()
		return
	}
	if l.needsSurfaceUpdate || force {
		if l.needsOwnSurface() != l.hasOwnSurface || l.childOrderDirty {
			tracer().Debugf("surface ownership of %s flips to %v, reattaching",
				describe(l.owner), !l.hasOwnSurface)
			l.Detach()
			l.Attach()
			return
		}
		l.needsSurfaceUpdate = false
	}
	for _, c := range l.childrenInPaintOrder() {
		c.UpdateGraphicsContext(force)
	}
}

// Attach gives the layer a paint target and recurses into children in
// paint order. Self before children: a child needs its surface parent (or
// the shared ancestor surface) valid before it runs. Appending child
// surfaces in paint order is also what keeps surface compositing order
// aligned with layer order.
func (l *Layer) Attach() {
	l.attachSurface()
	l.childOrderDirty = false
	for _, c := range l.childrenInPaintOrder() {
		c.Attach()
	}
}

func (l *Layer) attachSurface() {
	if l.needsOwnSurface() {
		l.surface = l.host.NewSurface()
		l.hasOwnSurface = true
		l.needsBitmapResize = true
		if ps := l.parentSurface(); ps != nil {
			ps.AppendChild(l.surface)
		}
		tracer().Debugf("layer %s attached own surface", describe(l.owner))
	} else {
		ps := l.parentSurface()
		assertThat(ps != nil, "shared layer %s has no attached ancestor surface", describe(l.owner))
		l.surface = ps
		l.hasOwnSurface = false
	}
	l.needsPaint = true
	l.needsSurfaceUpdate = false
}

// parentSurface returns the surface this layer's surface nests in, or the
// surface to share: the parent layer's paint target. nil for the root.
func (l *Layer) parentSurface() Surface {
	if l.parent == nil {
		return nil
	}
	return l.parent.surface
}

// Detach releases the subtree's surfaces, children before self, so no
// child ever holds a reference to an already-disposed parent surface.
func (l *Layer) Detach() {
	for _, c := range l.childrenInPaintOrder() {
		c.Detach()
	}
	if l.hasOwnSurface && l.surface != nil {
		if ps := l.parentSurface(); ps != nil {
			ps.RemoveChild(l.surface)
		}
		l.surface.Dispose()
		tracer().Debugf("layer %s released its surface", describe(l.owner))
	}
	l.surface = nil
	l.hasOwnSurface = false
}
