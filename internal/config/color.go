package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an opaque RGB background color.
type Color struct {
	R, G, B uint8
}

// NRGBA returns c as a fully opaque color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// String formats c as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText encodes c as "#rrggbb".
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts anything ParseColor does.
func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseColor accepts "#rrggbb", "rrggbb", "#rgb" or a background preset name.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if c, ok := LookupBackground(s); ok {
		return c.Color, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: expected #rrggbb or a preset name", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
