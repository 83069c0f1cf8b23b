// Package style provides the visual value types the annotation engine
// emits: colors, text attributes, and the sheet of concrete styles
// derived from user configuration.
package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute represents text attributes applied to a decorated span.
type Attribute uint16

// Attribute flags.
const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrDim                 // Faint text, used for blur fallback
	AttrItalic              // Italic text
	AttrUnderline           // Underlined text
	AttrReverse             // Reverse video
	AttrHidden              // Hidden/invisible text
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Color is an RGB color value. The zero value is the host default color.
type Color struct {
	R, G, B uint8

	// Set distinguishes an explicit black from the default color.
	Set bool
}

// ColorDefault is the host's default color.
var ColorDefault = Color{}

// RGB creates a color from components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Set: true}
}

// ParseHex creates a color from a "#RRGGBB" or "#RGB" string.
func ParseHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")

	switch len(hex) {
	case 3:
		var c [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(string(hex[i])+string(hex[i]), 16, 8)
			if err != nil {
				return Color{}, fmt.Errorf("invalid hex color %q", hex)
			}
			c[i] = uint8(v)
		}
		return RGB(c[0], c[1], c[2]), nil
	case 6:
		var c [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
			if err != nil {
				return Color{}, fmt.Errorf("invalid hex color %q", hex)
			}
			c[i] = uint8(v)
		}
		return RGB(c[0], c[1], c[2]), nil
	default:
		return Color{}, fmt.Errorf("invalid hex color length %q", hex)
	}
}

// IsDefault returns true if this is the host default color.
func (c Color) IsDefault() bool {
	return !c.Set
}

// Hex returns the "#RRGGBB" form, or "default".
func (c Color) Hex() string {
	if !c.Set {
		return "default"
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Darken returns a darker version of the color.
func (c Color) Darken(amount float64) Color {
	if !c.Set {
		return c
	}
	return RGB(
		uint8(float64(c.R)*(1-amount)),
		uint8(float64(c.G)*(1-amount)),
		uint8(float64(c.B)*(1-amount)),
	)
}

// Style is the visual style of a decorated span.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the host default style.
func DefaultStyle() Style {
	return Style{}
}

// WithForeground returns a copy with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a copy with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// Dim returns a copy with the dim attribute added.
func (s Style) Dim() Style {
	s.Attributes |= AttrDim
	return s
}

// Merge lays an overlay style over a base style. Set colors in the
// overlay win; attributes accumulate.
func Merge(base, overlay Style) Style {
	result := base
	if overlay.Foreground.Set {
		result.Foreground = overlay.Foreground
	}
	if overlay.Background.Set {
		result.Background = overlay.Background
	}
	result.Attributes |= overlay.Attributes
	return result
}
