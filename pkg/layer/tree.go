package layer

import (
	"errors"
	"fmt"
)

// ErrInvalidStyleValue is returned when a mutation meets a resolved style
// value that must not occur there, such as a layer whose owner carries an
// unset z-index.
var ErrInvalidStyleValue = errors.New("invalid style value")

// AppendChild inserts child into this layer's child groups. If this layer
// does not establish a stacking context the call delegates to the nearest
// ancestor that does, so callers may hand children to the layer they
// naturally reach, stacking rules notwithstanding.
//
// The child lands in the group its z-index selects: negative and positive
// groups stay sorted ascending with ties kept in insertion order, zero and
// auto children append to the middle group in insertion order.
func (l *Layer) AppendChild(child *Layer) error {
	root := l.stackingRoot()
	assertThat(child.parent == nil, "child layer is already attached")

	z := child.owner.ZIndex()
	if !z.IsSet() {
		return fmt.Errorf("append layer %s: z-index unset: %w",
			describe(child.owner), ErrInvalidStyleValue)
	}
	switch n, numeric := z.Num(); {
	case !numeric: // auto
		root.zeroAndAuto = append(root.zeroAndAuto, child)
	case n < 0:
		root.negative = insertByZIndex(root.negative, child, n)
	case n > 0:
		root.positive = insertByZIndex(root.positive, child, n)
	default:
		root.zeroAndAuto = append(root.zeroAndAuto, child)
	}
	child.parent = root
	tracer().Debugf("appended layer %s (z=%s) under %s",
		describe(child.owner), z, describe(root.owner))

	root.childOrderDirty = true
	root.markSubtreeForSurfaceUpdate()
	root.markAncestorsForSurfaceUpdate()
	root.host.ScheduleGraphicsUpdate()
	return nil
}

// RemoveChild takes child out of this layer's child groups, tearing down
// the child's surfaces first so the teardown still sees the attached
// parent surface. Like AppendChild, the call delegates to the enclosing
// stacking context root. The groups are probed negative first, then
// positive, then zero/auto.
func (l *Layer) RemoveChild(child *Layer) error {
	root := l.stackingRoot()
	assertThat(child.parent == root, "layer %s is not attached here", describe(child.owner))

	child.Detach()

	var found bool
	if root.negative, found = removeLayer(root.negative, child); !found {
		if root.positive, found = removeLayer(root.positive, child); !found {
			root.zeroAndAuto, found = removeLayer(root.zeroAndAuto, child)
		}
	}
	assertThat(found, "layer %s is missing from all child groups", describe(child.owner))
	child.parent = nil
	tracer().Debugf("removed layer %s from %s", describe(child.owner), describe(root.owner))

	root.markSubtreeForSurfaceUpdate()
	root.markAncestorsForSurfaceUpdate()
	root.host.ScheduleGraphicsUpdate()
	return nil
}

// insertByZIndex places child into a signed group, keeping the group
// sorted ascending by z-index. Equal z-indexes paint in insertion order,
// so the child goes after all members with the same value.
func insertByZIndex(group []*Layer, child *Layer, z int) []*Layer {
	at := len(group)
	for i, c := range group {
		cz, numeric := c.owner.ZIndex().Num()
		assertThat(numeric, "signed group member %s without numeric z-index", describe(c.owner))
		if cz > z {
			at = i
			break
		}
	}
	group = append(group, nil)
	copy(group[at+1:], group[at:])
	group[at] = child
	return group
}

func removeLayer(group []*Layer, child *Layer) ([]*Layer, bool) {
	for i, c := range group {
		if c == child {
			copy(group[i:], group[i+1:])
			group[len(group)-1] = nil
			return group[:len(group)-1], true
		}
	}
	return group, false
}
