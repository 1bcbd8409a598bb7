package host

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a screen coordinate.
type Point struct {
	X float32
	Y float32
}

// Rect is a screen rectangle anchored at its top-left corner.
type Rect struct {
	X float32
	Y float32
	W float32
	H float32
}

// Color is RGBA, 8 bits per channel.
type Color struct {
	R, G, B, A uint8
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA". Alpha defaults to 255.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// String formats the color as #RRGGBBAA.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
