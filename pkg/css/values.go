package css

import (
	"fmt"
	"strconv"
	"strings"
)

// Position type constants
type PositionType string

const (
	PositionStatic   PositionType = "static"
	PositionRelative PositionType = "relative"
	PositionAbsolute PositionType = "absolute"
	PositionFixed    PositionType = "fixed"
)

// ParsePosition returns the position type for a property value (default: static).
func ParsePosition(val string) PositionType {
	switch strings.TrimSpace(strings.ToLower(val)) {
	case "relative":
		return PositionRelative
	case "absolute":
		return PositionAbsolute
	case "fixed":
		return PositionFixed
	}
	return PositionStatic
}

// ZIndex is a resolved z-index value. It distinguishes the keyword `auto`
// from a numeric value, and both from the unset zero value: a ZIndex that
// was never assigned is invalid and is rejected when a layer carrying it is
// inserted into the layer tree. Use Auto or Z to construct valid values.
type ZIndex struct {
	kind zindexKind
	num  int
}

type zindexKind uint8

const (
	zindexUnset zindexKind = iota
	zindexAuto
	zindexNumber
)

// Auto returns the z-index keyword value `auto`.
func Auto() ZIndex {
	return ZIndex{kind: zindexAuto}
}

// Z returns a numeric z-index.
func Z(n int) ZIndex {
	return ZIndex{kind: zindexNumber, num: n}
}

// IsSet reports whether the value carries either `auto` or a number.
func (z ZIndex) IsSet() bool {
	return z.kind != zindexUnset
}

// IsAuto reports whether the value is the keyword `auto`.
func (z ZIndex) IsAuto() bool {
	return z.kind == zindexAuto
}

// Num returns the numeric value and whether the z-index is numeric at all.
func (z ZIndex) Num() (int, bool) {
	return z.num, z.kind == zindexNumber
}

func (z ZIndex) String() string {
	switch z.kind {
	case zindexAuto:
		return "auto"
	case zindexNumber:
		return strconv.Itoa(z.num)
	}
	return "<unset>"
}

// ParseZIndex parses a z-index property value ("auto" or an integer).
func ParseZIndex(val string) (ZIndex, bool) {
	val = strings.TrimSpace(strings.ToLower(val))
	if val == "auto" {
		return Auto(), true
	}
	var n int
	if _, err := fmt.Sscanf(val, "%d", &n); err == nil {
		return Z(n), true
	}
	return ZIndex{}, false
}

// Opacity is a resolved opacity value. CSS allows several value forms here;
// a plain number and an absolute length both map to an alpha coverage, every
// other form renders fully opaque. The zero value is fully opaque.
type Opacity struct {
	kind opacityKind
	val  float64
}

type opacityKind uint8

const (
	opacityOther opacityKind = iota
	opacityNumber
	opacityLength
)

// Opaque returns the fully opaque opacity.
func Opaque() Opacity {
	return Opacity{kind: opacityNumber, val: 1}
}

// OpacityNumber returns an opacity from a plain number value.
func OpacityNumber(v float64) Opacity {
	return Opacity{kind: opacityNumber, val: v}
}

// OpacityLength returns an opacity from an absolute length value.
func OpacityLength(v float64) Opacity {
	return Opacity{kind: opacityLength, val: v}
}

// Alpha returns the alpha coverage in [0, 1] for this opacity.
func (o Opacity) Alpha() float64 {
	switch o.kind {
	case opacityNumber, opacityLength:
		if o.val < 0 {
			return 0
		}
		if o.val > 1 {
			return 1
		}
		return o.val
	}
	return 1
}

// Translucent reports whether painting through this opacity needs a
// transparency group, i.e. the alpha coverage is below 1.
func (o Opacity) Translucent() bool {
	return o.Alpha() < 1
}

func (o Opacity) String() string {
	switch o.kind {
	case opacityNumber:
		return strconv.FormatFloat(o.val, 'g', -1, 64)
	case opacityLength:
		return strconv.FormatFloat(o.val, 'g', -1, 64) + "px"
	}
	return "opaque"
}

// ParseOpacity parses an opacity property value. Numbers and pixel lengths
// carry their value through, anything else is fully opaque.
func ParseOpacity(val string) Opacity {
	val = strings.TrimSpace(strings.ToLower(val))
	if strings.HasSuffix(val, "px") {
		if num, err := strconv.ParseFloat(strings.TrimSuffix(val, "px"), 64); err == nil {
			return OpacityLength(num)
		}
		return Opacity{}
	}
	if num, err := strconv.ParseFloat(val, 64); err == nil {
		return OpacityNumber(num)
	}
	return Opacity{}
}

// ParseLength parses a length value (e.g., "100px" or "100")
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

type Color struct {
	R, G, B uint8
	A       float64
}

// Transparent reports whether the color paints nothing.
func (c Color) Transparent() bool {
	return c.A <= 0
}

func namedColor(name string) (Color, bool) {
	namedColors := map[string]Color{
		"red":     {255, 0, 0, 1},
		"green":   {0, 128, 0, 1},
		"blue":    {0, 0, 255, 1},
		"yellow":  {255, 255, 0, 1},
		"cyan":    {0, 255, 255, 1},
		"magenta": {255, 0, 255, 1},
		"white":   {255, 255, 255, 1},
		"black":   {0, 0, 0, 1},
		"gray":    {128, 128, 128, 1},
		"orange":  {255, 165, 0, 1},
		"purple":  {128, 0, 128, 1},
		"pink":    {255, 192, 203, 1},
		"brown":   {165, 42, 42, 1},
		"lime":    {0, 255, 0, 1},
		"navy":    {0, 0, 128, 1},
		"teal":    {0, 128, 128, 1},
		"silver":  {192, 192, 192, 1},
	}
	c, ok := namedColors[name]
	return c, ok
}

// ParseColor parses a named color, "#rgb" or "#rrggbb" hex value, or the
// keyword "transparent".
func ParseColor(colorStr string) (Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if colorStr == "transparent" {
		return Color{}, true
	}
	if strings.HasPrefix(colorStr, "#") {
		return parseHexColor(colorStr[1:])
	}
	return namedColor(colorStr)
}

func parseHexColor(hex string) (Color, bool) {
	switch len(hex) {
	case 3:
		var r, g, b uint8
		for i, dst := range []*uint8{&r, &g, &b} {
			n, err := strconv.ParseUint(hex[i:i+1], 16, 8)
			if err != nil {
				return Color{}, false
			}
			*dst = uint8(n * 17)
		}
		return Color{r, g, b, 1}, true
	case 6:
		var r, g, b uint8
		for i, dst := range []*uint8{&r, &g, &b} {
			n, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
			if err != nil {
				return Color{}, false
			}
			*dst = uint8(n)
		}
		return Color{r, g, b, 1}, true
	}
	return Color{}, false
}
