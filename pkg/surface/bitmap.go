package surface

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"lamina/pkg/css"
	"lamina/pkg/layer"
)

// ErrCannotRasterize is returned when composition is asked of a surface
// backend without raster output.
var ErrCannotRasterize = errors.New("surface backend cannot rasterize")

// Bitmap is a raster surface drawn with a gg context. All bitmaps of one
// document share the viewport size and global coordinates; compositing a
// child into its parent is therefore an aligned overlay, adjusted only by
// the child's transform.
type Bitmap struct {
	dc     *gg.Context
	width  int
	height int
	matrix css.Matrix

	parent   *Bitmap
	children []*Bitmap

	// groups holds suspended contexts while transparency groups paint
	// onto scratch contexts, innermost last.
	groups   []groupFrame
	disposed bool
}

type groupFrame struct {
	dc    *gg.Context
	alpha float64
}

var _ layer.Surface = (*Bitmap)(nil)
var _ layer.Canvas = (*Bitmap)(nil)

func NewBitmap() *Bitmap {
	return &Bitmap{matrix: css.Identity()}
}

// NewBitmapFactory returns a surface factory for layer hosts painting
// onto bitmaps.
func NewBitmapFactory() func() layer.Surface {
	return func() layer.Surface {
		return NewBitmap()
	}
}

func (b *Bitmap) InitBitmapData(w, h int) {
	assertThat(!b.disposed, "init on a disposed surface")
	b.width, b.height = w, h
	b.dc = gg.NewContext(w, h)
	b.groups = nil
	tracer().Debugf("bitmap surface sized to %dx%d", w, h)
}

func (b *Bitmap) Clear() {
	if b.dc == nil {
		return
	}
	b.dc.SetColor(color.Transparent)
	b.dc.Clear()
}

func (b *Bitmap) BeginTransparency(alpha float64) {
	assertThat(b.dc != nil, "transparency group needs sized bitmap data")
	b.groups = append(b.groups, groupFrame{dc: b.dc, alpha: alpha})
	b.dc = gg.NewContext(b.width, b.height)
}

func (b *Bitmap) EndTransparency() {
	assertThat(len(b.groups) > 0, "unbalanced transparency group")
	frame := b.groups[len(b.groups)-1]
	b.groups = b.groups[:len(b.groups)-1]

	group := b.dc.Image()
	b.dc = frame.dc
	alpha := frame.alpha
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	mask := image.NewUniform(color.Alpha{A: uint8(alpha*255 + 0.5)})
	dst := b.dc.Image().(draw.Image)
	draw.DrawMask(dst, dst.Bounds(), group, image.Point{}, mask, image.Point{}, draw.Over)
}

func (b *Bitmap) Transform(m css.Matrix) {
	b.matrix = m
}

func (b *Bitmap) AppendChild(child layer.Surface) {
	c, ok := child.(*Bitmap)
	assertThat(ok, "bitmap surfaces cannot contain %T children", child)
	c.parent = b
	b.children = append(b.children, c)
}

func (b *Bitmap) RemoveChild(child layer.Surface) {
	c, ok := child.(*Bitmap)
	assertThat(ok, "bitmap surfaces cannot contain %T children", child)
	for i, cc := range b.children {
		if cc == c {
			b.children = append(b.children[:i], b.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

func (b *Bitmap) Dispose() {
	b.dc = nil
	b.groups = nil
	b.children = nil
	b.disposed = true
}

// FillRect paints a filled rectangle in global coordinates.
func (b *Bitmap) FillRect(r css.Rect, c css.Color) {
	if b.dc == nil || c.Transparent() {
		return
	}
	b.dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, c.A)
	b.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	b.dc.Fill()
}

// StrokeRect outlines a rectangle in global coordinates.
func (b *Bitmap) StrokeRect(r css.Rect, c css.Color, lineWidth float64) {
	if b.dc == nil || c.Transparent() || lineWidth <= 0 {
		return
	}
	b.dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, c.A)
	b.dc.SetLineWidth(lineWidth)
	b.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	b.dc.Stroke()
}

// Size returns the current bitmap dimensions.
func (b *Bitmap) Size() (int, int) {
	return b.width, b.height
}

// Image returns the surface's own raster content, children not included.
func (b *Bitmap) Image() image.Image {
	if b.dc == nil {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	return b.dc.Image()
}

// Flatten composites the surface and its children bottom-up into a single
// image: own content first, then the children in compositing order, each
// drawn through the accumulated transform chain.
func (b *Bitmap) Flatten() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	b.composeOnto(out, css.Identity())
	return out
}

func (b *Bitmap) composeOnto(dst *image.RGBA, outer css.Matrix) {
	m := outer.Mul(b.matrix)
	if b.dc != nil {
		src := b.dc.Image()
		if m.IsIdentity() {
			draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Over)
		} else {
			aff := f64.Aff3{m.XX, m.XY, m.X0, m.YX, m.YY, m.Y0}
			xdraw.BiLinear.Transform(dst, aff, src, src.Bounds(), xdraw.Over, nil)
		}
	}
	for _, c := range b.children {
		c.composeOnto(dst, m)
	}
}

// Compose flattens a surface tree over a white page background. It fails
// for backends that cannot rasterize, the recorder among them.
func Compose(root layer.Surface, width, height int) (*image.RGBA, error) {
	rb, ok := root.(*Bitmap)
	if !ok {
		return nil, ErrCannotRasterize
	}
	page := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(page, page.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	rb.composeOnto(page, css.Identity())
	return page, nil
}
