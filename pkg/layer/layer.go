package layer

// Layer is one node of the layer tree. It paints the content of its owner
// element plus the content of every descendant element that borrows it,
// and it orders its child layers by stacking rules.
type Layer struct {
	owner Element
	host  Host

	parent *Layer
	isRoot bool

	// Child layers, grouped by z-index. negative and positive stay sorted
	// ascending, ties in insertion order; zeroAndAuto is insertion order.
	negative    []*Layer
	zeroAndAuto []*Layer
	positive    []*Layer

	// surface is the paint target: an owned surface, or the surface of the
	// nearest owning ancestor when hasOwnSurface is false. nil until the
	// layer is attached.
	surface       Surface
	hasOwnSurface bool

	needsPaint         bool
	needsSurfaceUpdate bool
	needsBitmapResize  bool
	// childOrderDirty is set when an insertion may have left child surfaces
	// composited out of paint order; the next update pass then rebuilds the
	// subtree's surfaces.
	childOrderDirty bool

	lastWidth  int
	lastHeight int
}

// New creates a detached Layer for the given owner element. The layer has
// no surface until it is inserted into a tree and a graphics update runs.
func New(owner Element, host Host) *Layer {
	assertThat(owner != nil, "layer requires an owner element")
	assertThat(host != nil, "layer requires a host")
	return &Layer{owner: owner, host: host}
}

// NewRoot creates the root Layer of a document. The root always
// establishes a stacking context and always owns a surface.
func NewRoot(owner Element, host Host) *Layer {
	l := New(owner, host)
	l.isRoot = true
	return l
}

func (l *Layer) Owner() Element { return l.owner }
func (l *Layer) Parent() *Layer { return l.parent }
func (l *Layer) Host() Host     { return l.host }
func (l *Layer) IsRoot() bool   { return l.isRoot }

// Root returns the topmost layer of the tree this layer belongs to.
func (l *Layer) Root() *Layer {
	n := l
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Surface returns the layer's current paint target, nil while detached.
func (l *Layer) Surface() Surface { return l.surface }

// HasOwnSurface reports whether the layer owns its surface rather than
// sharing an ancestor's.
func (l *Layer) HasOwnSurface() bool { return l.hasOwnSurface }

// EstablishesStackingContext reports whether this layer is a stacking
// context root. Only stacking roots hold child layers; any other layer
// delegates child bookkeeping to its enclosing stacking root.
func (l *Layer) EstablishesStackingContext() bool {
	if l.isRoot {
		return true
	}
	if _, numeric := l.owner.ZIndex().Num(); numeric {
		return true
	}
	return Transparent(l.owner) || l.owner.Transformed()
}

// stackingRoot returns the layer holding this layer's children: the layer
// itself if it establishes a stacking context, otherwise the nearest
// ancestor that does.
func (l *Layer) stackingRoot() *Layer {
	n := l
	for !n.EstablishesStackingContext() {
		assertThat(n.parent != nil, "layer tree has no stacking root above %v", n)
		n = n.parent
	}
	return n
}

// childrenInPaintOrder returns all child layers in the order they paint:
// negative group, zero/auto group, positive group.
func (l *Layer) childrenInPaintOrder() []*Layer {
	children := make([]*Layer, 0, len(l.negative)+len(l.zeroAndAuto)+len(l.positive))
	children = append(children, l.negative...)
	children = append(children, l.zeroAndAuto...)
	children = append(children, l.positive...)
	return children
}

// InvalidateRendering marks the layer's content stale. If the layer owns
// its surface the mark spreads to every descendant sharing that surface,
// since a repaint of the surface redraws all of them.
func (l *Layer) InvalidateRendering() {
	l.needsPaint = true
	if l.hasOwnSurface {
		l.markSharedDescendantsForPaint()
	}
	l.host.ScheduleRepaint()
}

// markSharedDescendantsForPaint sets needsPaint on descendants sharing this
// layer's surface, stopping at descendants that own their own surface.
func (l *Layer) markSharedDescendantsForPaint() {
	for _, c := range l.childrenInPaintOrder() {
		if c.hasOwnSurface {
			continue
		}
		c.needsPaint = true
		c.markSharedDescendantsForPaint()
	}
}

// InvalidateGraphicsContext requests that surface ownership be settled
// again before the next frame. With force, every layer in the subtree
// re-decides even if nothing was marked.
func (l *Layer) InvalidateGraphicsContext(force bool) {
	if force {
		l.markSubtreeForSurfaceUpdate()
	} else {
		l.needsSurfaceUpdate = true
	}
	l.host.ScheduleGraphicsUpdate()
}

func (l *Layer) markSubtreeForSurfaceUpdate() {
	l.needsSurfaceUpdate = true
	for _, c := range l.childrenInPaintOrder() {
		c.markSubtreeForSurfaceUpdate()
	}
}

// markAncestorsForSurfaceUpdate walks toward the root marking every layer,
// this one included. Mutations call this: inserting or removing a subtree
// can flip the ownership decision anywhere up the chain.
func (l *Layer) markAncestorsForSurfaceUpdate() {
	for n := l; n != nil; n = n.parent {
		n.needsSurfaceUpdate = true
	}
}
