package scene

import (
	"fmt"
	"os"

	"github.com/dop251/goja"

	"lamina/pkg/css"
	"lamina/pkg/document"
	"lamina/pkg/layer"
	"lamina/pkg/render"
)

// node is the script-side representation of a box: a name, raw property
// values and children. Validation waits until the tree is materialized.
type node struct {
	name     string
	props    map[string]interface{}
	children []*node
}

// Builder holds the goja runtime and the scene state a script left behind.
type Builder struct {
	vm *goja.Runtime

	width  int
	height int

	rootProps map[string]interface{}
	top       []*node
}

// NewBuilder creates a builder with the scene globals registered on a
// fresh goja runtime. The viewport defaults to 800x600 until the script
// says otherwise.
func NewBuilder() *Builder {
	vm := goja.New()
	b := &Builder{vm: vm, width: 800, height: 600}

	c := &consoleAPI{}
	c.register(vm)
	b.register()

	return b
}

// register sets up the viewport, box and scene globals.
func (b *Builder) register() {
	vm := b.vm

	vm.Set("viewport", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("viewport(width, height) requires two arguments"))
		}
		w := int(call.Arguments[0].ToInteger())
		h := int(call.Arguments[1].ToInteger())
		if w <= 0 || h <= 0 {
			panic(vm.NewTypeError("viewport size must be positive, got %dx%d", w, h))
		}
		b.width, b.height = w, h
		return goja.Undefined()
	})

	vm.Set("box", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("box(name, props, ...children) requires a name"))
		}
		n := &node{name: call.Arguments[0].String()}
		rest := call.Arguments[1:]
		if len(rest) > 0 {
			if props, ok := rest[0].Export().(map[string]interface{}); ok {
				n.props = props
				rest = rest[1:]
			}
		}
		for _, arg := range rest {
			child, ok := arg.Export().(*node)
			if !ok {
				panic(vm.NewTypeError("box %q: children must be box(...) values", n.name))
			}
			n.children = append(n.children, child)
		}
		return vm.ToValue(n)
	})

	vm.Set("scene", func(call goja.FunctionCall) goja.Value {
		args := call.Arguments
		b.rootProps = nil
		b.top = nil
		if len(args) > 0 {
			if props, ok := args[0].Export().(map[string]interface{}); ok {
				b.rootProps = props
				args = args[1:]
			}
		}
		for _, arg := range args {
			n, ok := arg.Export().(*node)
			if !ok {
				panic(vm.NewTypeError("scene: arguments must be box(...) values"))
			}
			b.top = append(b.top, n)
		}
		return goja.Undefined()
	})
}

// Run evaluates a scene script. It can be called more than once; later
// scripts see the state earlier ones left.
func (b *Builder) Run(src string) error {
	if _, err := b.vm.RunString(src); err != nil {
		return fmt.Errorf("scene script: %w", err)
	}
	return nil
}

// Document materializes the scene into a document on the given surface
// backend.
func (b *Builder) Document(factory func() layer.Surface) (*document.Document, error) {
	doc := document.New(b.width, b.height, factory)
	if err := applyProps(doc.Root(), b.rootProps); err != nil {
		return nil, err
	}
	for _, n := range b.top {
		if err := attachNode(doc.Root(), n); err != nil {
			return nil, err
		}
	}
	tracer().Infof("scene: built %dx%d document with %d top-level boxes", b.width, b.height, len(b.top))
	return doc, nil
}

// Load evaluates src and materializes the document it describes.
func Load(src string, factory func() layer.Surface) (*document.Document, error) {
	b := NewBuilder()
	if err := b.Run(src); err != nil {
		return nil, err
	}
	return b.Document(factory)
}

// LoadFile reads a scene script from disk and loads it.
func LoadFile(path string, factory func() layer.Surface) (*document.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	doc, err := Load(string(src), factory)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return doc, nil
}

// attachNode materializes n under parent, parent before children so the
// layer tree grows the same way an incrementally built document would.
func attachNode(parent *render.Box, n *node) error {
	box := render.NewBox(n.name, css.Rect{})
	if err := applyProps(box, n.props); err != nil {
		return err
	}
	if err := parent.AppendChild(box); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := attachNode(box, c); err != nil {
			return err
		}
	}
	return nil
}

// applyProps writes the script's raw property values onto a box,
// validating as it goes. An inline style property applies first so
// explicit properties override it.
func applyProps(box *render.Box, props map[string]interface{}) error {
	if props == nil {
		return nil
	}
	if v, ok := props["style"]; ok {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("box %s: style must be a string", box.Name())
		}
		box.ApplyStyle(css.ParseInlineStyle(s))
	}

	bounds := box.GlobalBounds()
	boundsSet := false
	rel := box.RelativeOffset()
	relSet := false
	borderColor, borderWidth := css.Color{}, 0.0
	borderSet := false
	scrollLeft, scrollTop := box.ScrollLeft(), box.ScrollTop()
	scrollSet := false

	for key, v := range props {
		switch key {
		case "style":
			// applied above
		case "x", "y", "w", "h":
			f, ok := toFloat(v)
			if !ok {
				return fmt.Errorf("box %s: %s must be a number", box.Name(), key)
			}
			switch key {
			case "x":
				bounds.X = f
			case "y":
				bounds.Y = f
			case "w":
				bounds.Width = f
			case "h":
				bounds.Height = f
			}
			boundsSet = true
		case "relX", "relY":
			f, ok := toFloat(v)
			if !ok {
				return fmt.Errorf("box %s: %s must be a number", box.Name(), key)
			}
			if key == "relX" {
				rel.X = f
			} else {
				rel.Y = f
			}
			relSet = true
		case "zIndex":
			z, err := toZIndex(v)
			if err != nil {
				return fmt.Errorf("box %s: %w", box.Name(), err)
			}
			if err := box.SetZIndex(z); err != nil {
				return err
			}
		case "opacity":
			f, ok := toFloat(v)
			if !ok {
				return fmt.Errorf("box %s: opacity must be a number", box.Name())
			}
			box.SetOpacity(css.OpacityNumber(f))
		case "position":
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("box %s: position must be a string", box.Name())
			}
			box.SetPosition(css.ParsePosition(s))
		case "transform":
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("box %s: transform must be a string", box.Name())
			}
			m, ok := css.ParseTransform(s)
			if !ok {
				return fmt.Errorf("box %s: transform %q: %w", box.Name(), s, layer.ErrInvalidStyleValue)
			}
			box.SetTransform(m)
		case "background":
			c, err := toColor(v)
			if err != nil {
				return fmt.Errorf("box %s: background: %w", box.Name(), err)
			}
			box.SetBackground(c)
		case "border":
			c, err := toColor(v)
			if err != nil {
				return fmt.Errorf("box %s: border: %w", box.Name(), err)
			}
			borderColor = c
			borderSet = true
		case "borderWidth":
			f, ok := toFloat(v)
			if !ok {
				return fmt.Errorf("box %s: borderWidth must be a number", box.Name())
			}
			borderWidth = f
			borderSet = true
		case "visible":
			bv, ok := v.(bool)
			if !ok {
				return fmt.Errorf("box %s: visible must be a boolean", box.Name())
			}
			box.SetVisible(bv)
		case "scrollable":
			bv, ok := v.(bool)
			if !ok {
				return fmt.Errorf("box %s: scrollable must be a boolean", box.Name())
			}
			box.SetScrollable(bv)
		case "compositing":
			bv, ok := v.(bool)
			if !ok {
				return fmt.Errorf("box %s: compositing must be a boolean", box.Name())
			}
			box.SetCompositing(bv)
		case "scrollLeft", "scrollTop":
			f, ok := toFloat(v)
			if !ok {
				return fmt.Errorf("box %s: %s must be a number", box.Name(), key)
			}
			if key == "scrollLeft" {
				scrollLeft = f
			} else {
				scrollTop = f
			}
			scrollSet = true
		default:
			return fmt.Errorf("box %s: unknown property %q", box.Name(), key)
		}
	}

	if boundsSet {
		box.SetBounds(bounds)
	}
	if relSet {
		box.SetRelativeOffset(rel)
	}
	if borderSet {
		if borderWidth == 0 {
			borderWidth = 1
		}
		box.SetBorder(borderColor, borderWidth)
	}
	if scrollSet {
		box.SetScroll(scrollLeft, scrollTop)
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toZIndex(v interface{}) (css.ZIndex, error) {
	if f, ok := toFloat(v); ok {
		return css.Z(int(f)), nil
	}
	if s, ok := v.(string); ok {
		if z, ok := css.ParseZIndex(s); ok {
			return z, nil
		}
		return css.ZIndex{}, fmt.Errorf("z-index %q: %w", s, layer.ErrInvalidStyleValue)
	}
	return css.ZIndex{}, fmt.Errorf("z-index must be a number or 'auto': %w", layer.ErrInvalidStyleValue)
}

func toColor(v interface{}) (css.Color, error) {
	s, ok := v.(string)
	if !ok {
		return css.Color{}, fmt.Errorf("color must be a string: %w", layer.ErrInvalidStyleValue)
	}
	c, ok := css.ParseColor(s)
	if !ok {
		return css.Color{}, fmt.Errorf("color %q: %w", s, layer.ErrInvalidStyleValue)
	}
	return c, nil
}
