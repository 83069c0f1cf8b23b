// Package config holds the engine's user-facing settings: the four
// visual knobs, TOML persistence, live reload, and change notification.
// Settings live for the engine's activation lifetime and are mutated
// only through the settings surface; the style layer re-derives its
// sheet synchronously on every applied change.
package config

import (
	"errors"
	"fmt"

	"github.com/dshills/sidenote/internal/style"
)

// Validation errors.
var (
	ErrInvalidColor  = errors.New("config: invalid color")
	ErrInvalidRadius = errors.New("config: blur radius out of range")
)

// Config is the flat settings value object.
type Config struct {
	// HighlightColor is the comment highlight color, "#RRGGBB".
	HighlightColor string `toml:"highlight_color"`

	// MaskBlurRadius is the mask blur radius in pixels.
	MaskBlurRadius int `toml:"mask_blur_radius"`

	// TooltipBackground is the tooltip background color, "#RRGGBB".
	TooltipBackground string `toml:"tooltip_background"`

	// TooltipText is the tooltip text color, "#RRGGBB".
	TooltipText string `toml:"tooltip_text"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		HighlightColor:    "#FFD866",
		MaskBlurRadius:    4,
		TooltipBackground: "#2D2A2E",
		TooltipText:       "#FCFCFA",
	}
}

// Validate checks every field, wrapping the first failure.
func (c Config) Validate() error {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"highlight_color", c.HighlightColor},
		{"tooltip_background", c.TooltipBackground},
		{"tooltip_text", c.TooltipText},
	} {
		if _, err := style.ParseHex(field.value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidColor, field.name, err)
		}
	}

	if c.MaskBlurRadius < 0 || c.MaskBlurRadius > 64 {
		return fmt.Errorf("%w: %d", ErrInvalidRadius, c.MaskBlurRadius)
	}
	return nil
}

// Sheet derives the style sheet from the settings. Must only be called
// on a validated config.
func (c Config) Sheet() style.Sheet {
	highlight, _ := style.ParseHex(c.HighlightColor)
	ttBg, _ := style.ParseHex(c.TooltipBackground)
	ttText, _ := style.ParseHex(c.TooltipText)
	return style.NewSheet(highlight, ttBg, ttText, c.MaskBlurRadius)
}
