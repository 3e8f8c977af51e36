package css

import "fmt"

// Point is a position in global (document) coordinates.
type Point struct {
	X, Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle in global coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Edges count as inside on the top/left and outside on the bottom/right,
// so adjacent rectangles never both claim a shared border pixel.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Translate returns the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}
