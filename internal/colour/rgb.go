// Package colour provides colour parsing, brightness and accent adjustment.
package colour

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidHex is returned when a colour string is not a 3 or 6 digit hex value.
var ErrInvalidHex = errors.New("invalid hex colour")

// RGB represents a colour in RGB format.
type RGB struct {
	R uint8 `json:"r" toml:"r"`
	G uint8 `json:"g" toml:"g"`
	B uint8 `json:"b" toml:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Channels returns the comma-joined channel triple (e.g., "26, 43, 60").
func (rgb RGB) Channels() string {
	return fmt.Sprintf("%d, %d, %d", rgb.R, rgb.G, rgb.B)
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// ParseHex parses a 3 or 6 digit hex colour, with or without a leading '#'.
// Shorthand values are expanded by duplicating each digit ("#abc" -> "#aabbcc").
func ParseHex(s string) (RGB, error) {
	hex := strings.TrimPrefix(s, "#")

	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return RGB{}, fmt.Errorf("%w: %q (expected 3 or 6 hex digits)", ErrInvalidHex, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

var (
	// Black is used as the foreground on bright accents.
	Black = RGB{}

	// White is used as the foreground on dark accents.
	White = RGB{R: 255, G: 255, B: 255}
)
