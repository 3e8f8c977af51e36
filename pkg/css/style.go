package css

import (
	"strings"
)

// Style is a bag of declared property values, keyed by property name.
// Values stay raw strings; the typed getters resolve them on demand.
type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// GetPosition returns the position type (default: static)
func (s *Style) GetPosition() PositionType {
	if pos, ok := s.Get("position"); ok {
		return ParsePosition(pos)
	}
	return PositionStatic
}

// GetZIndex returns the z-index value (default: auto)
func (s *Style) GetZIndex() ZIndex {
	if val, ok := s.Get("z-index"); ok {
		if z, ok := ParseZIndex(val); ok {
			return z
		}
	}
	return Auto()
}

// GetOpacity returns the opacity value (default: opaque)
func (s *Style) GetOpacity() Opacity {
	if val, ok := s.Get("opacity"); ok {
		return ParseOpacity(val)
	}
	return Opaque()
}

// GetTransform returns the transform value and whether one is declared.
// A declared "none" counts as not transformed.
func (s *Style) GetTransform() (Matrix, bool) {
	val, ok := s.Get("transform")
	if !ok || strings.TrimSpace(strings.ToLower(val)) == "none" {
		return Identity(), false
	}
	m, ok := ParseTransform(val)
	if !ok {
		return Identity(), false
	}
	return m, true
}

// GetVisible returns whether the visibility property keeps the element
// visible (default: true).
func (s *Style) GetVisible() bool {
	if val, ok := s.Get("visibility"); ok {
		return strings.TrimSpace(strings.ToLower(val)) != "hidden"
	}
	return true
}

// GetScrollable returns whether the overflow property clips and scrolls
// content (default: false).
func (s *Style) GetScrollable() bool {
	if val, ok := s.Get("overflow"); ok {
		switch strings.TrimSpace(strings.ToLower(val)) {
		case "scroll", "auto", "hidden":
			return true
		}
	}
	return false
}

// GetColor returns the color declared for the property, or the fallback.
func (s *Style) GetColor(property string, fallback Color) Color {
	if val, ok := s.Get(property); ok {
		if c, ok := ParseColor(val); ok {
			return c
		}
	}
	return fallback
}

func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	declarations := strings.Split(styleAttr, ";")
	for _, decl := range declarations {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		property := strings.TrimSpace(strings.ToLower(parts[0]))
		value := strings.TrimSpace(parts[1])

		expandShorthand(style, property, value)
	}
	return style
}

// expandShorthand expands shorthand CSS properties into individual properties
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "border":
		// border: 1px solid black -> border-width/style/color
		expandBorderProperty(style, value)
	default:
		// Regular property
		style.Set(property, value)
	}
}

// expandBorderProperty expands border shorthand
// Format: "1px solid black" or "2px dotted #FF0000"
func expandBorderProperty(style *Style, value string) {
	parts := strings.Fields(value)

	for _, part := range parts {
		if strings.HasSuffix(part, "px") {
			style.Set("border-width", part)
		} else if part == "solid" || part == "dotted" || part == "dashed" || part == "double" {
			style.Set("border-style", part)
		} else {
			style.Set("border-color", part)
		}
	}
}
