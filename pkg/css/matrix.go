package css

import (
	"math"
	"strconv"
	"strings"
)

// Matrix is a 2D affine transformation,
//
//	| XX XY X0 |
//	| YX YY Y0 |
//	|  0  0  1 |
//
// applied to column points: x' = XX*x + XY*y + X0, y' = YX*x + YY*y + Y0.
type Matrix struct {
	XX, YX, XY, YY, X0, Y0 float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{XX: 1, YY: 1}
}

// Translation returns a transform moving points by (x, y).
func Translation(x, y float64) Matrix {
	return Matrix{XX: 1, YY: 1, X0: x, Y0: y}
}

// Scaling returns a transform scaling points by (sx, sy) about the origin.
func Scaling(sx, sy float64) Matrix {
	return Matrix{XX: sx, YY: sy}
}

// Rotation returns a transform rotating points by angle radians about the
// origin, positive angles turning clockwise in screen coordinates.
func Rotation(angle float64) Matrix {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Matrix{XX: c, YX: s, XY: -s, YY: c}
}

// NewMatrix builds a transform from the six CSS matrix() entries
// matrix(a, b, c, d, e, f).
func NewMatrix(a, b, c, d, e, f float64) Matrix {
	return Matrix{XX: a, YX: b, XY: c, YY: d, X0: e, Y0: f}
}

// Mul returns the product m·o, the transform applying o first and then m.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		XX: m.XX*o.XX + m.XY*o.YX,
		YX: m.YX*o.XX + m.YY*o.YX,
		XY: m.XX*o.XY + m.XY*o.YY,
		YY: m.YX*o.XY + m.YY*o.YY,
		X0: m.XX*o.X0 + m.XY*o.Y0 + m.X0,
		Y0: m.YX*o.X0 + m.YY*o.Y0 + m.Y0,
	}
}

// TransformPoint applies the transform to the point (x, y).
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.XX*x + m.XY*y + m.X0, m.YX*x + m.YY*y + m.Y0
}

// IsIdentity reports whether the transform leaves all points in place.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// ParseTransform parses a transform property value. Supported forms are
// "none", "matrix(a,b,c,d,e,f)", "translate(x[,y])", "scale(s[,sy])" and
// "rotate(<angle>deg)". A chain of space-separated functions composes left
// to right, the way CSS applies them.
func ParseTransform(val string) (Matrix, bool) {
	val = strings.TrimSpace(strings.ToLower(val))
	if val == "" || val == "none" {
		return Identity(), true
	}
	m := Identity()
	rest := val
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		close := strings.IndexByte(rest, ')')
		if open < 0 || close < open {
			return Identity(), false
		}
		name := strings.TrimSpace(rest[:open])
		args, ok := parseTransformArgs(rest[open+1 : close])
		if !ok {
			return Identity(), false
		}
		fm, ok := transformFunction(name, args)
		if !ok {
			return Identity(), false
		}
		m = m.Mul(fm)
		rest = strings.TrimSpace(rest[close+1:])
	}
	return m, true
}

func parseTransformArgs(argList string) ([]float64, bool) {
	var args []float64
	for _, raw := range strings.Split(argList, ",") {
		raw = strings.TrimSpace(raw)
		raw = strings.TrimSuffix(raw, "px")
		deg := false
		if strings.HasSuffix(raw, "deg") {
			raw = strings.TrimSuffix(raw, "deg")
			deg = true
		}
		num, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		if deg {
			num = num * math.Pi / 180
		}
		args = append(args, num)
	}
	return args, true
}

func transformFunction(name string, args []float64) (Matrix, bool) {
	switch name {
	case "matrix":
		if len(args) != 6 {
			return Identity(), false
		}
		return NewMatrix(args[0], args[1], args[2], args[3], args[4], args[5]), true
	case "translate":
		switch len(args) {
		case 1:
			return Translation(args[0], 0), true
		case 2:
			return Translation(args[0], args[1]), true
		}
	case "scale":
		switch len(args) {
		case 1:
			return Scaling(args[0], args[0]), true
		case 2:
			return Scaling(args[0], args[1]), true
		}
	case "rotate":
		if len(args) == 1 {
			return Rotation(args[0]), true
		}
	}
	return Identity(), false
}
