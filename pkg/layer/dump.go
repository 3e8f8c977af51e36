package layer

import (
	"fmt"
	"strings"

	tp "github.com/xlab/treeprint"
)

// describe returns a short name for an element, for traces and errors.
// Elements that implement fmt.Stringer name themselves.
func describe(el Element) string {
	if el == nil {
		return "<nil>"
	}
	if s, ok := el.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", el)
}

// Dump renders the layer subtree as an indented tree, one line per layer
// with its z-index, group sizes and surface state. Meant for debugging and
// the dump CLI command, not for machine consumption.
func (l *Layer) Dump() string {
	p := tp.New()
	p.SetValue(l.label())
	l.dumpChildren(p)
	return p.String()
}

func (l *Layer) dumpChildren(p tp.Tree) {
	for _, c := range l.childrenInPaintOrder() {
		if len(c.negative)+len(c.zeroAndAuto)+len(c.positive) == 0 {
			p.AddNode(c.label())
			continue
		}
		branch := p.AddBranch(c.label())
		c.dumpChildren(branch)
	}
}

func (l *Layer) label() string {
	var flags []string
	if l.isRoot {
		flags = append(flags, "root")
	}
	if l.hasOwnSurface {
		flags = append(flags, "surface")
	}
	if l.owner.Compositing() {
		flags = append(flags, "compositing")
	}
	if Transparent(l.owner) {
		flags = append(flags, fmt.Sprintf("alpha=%.2f", l.owner.Opacity().Alpha()))
	}
	if l.owner.Transformed() {
		flags = append(flags, "transformed")
	}
	if l.needsPaint {
		flags = append(flags, "dirty")
	}
	label := fmt.Sprintf("%s z=%s", describe(l.owner), l.owner.ZIndex())
	if len(flags) > 0 {
		label += " [" + strings.Join(flags, " ") + "]"
	}
	return label
}
