package colour

import "fmt"

const (
	// LightMaxBrightness is the brightest an accent may be on a light background.
	LightMaxBrightness = 150.0

	// DarkMinBrightness is the dimmest an accent may be on a dark background.
	DarkMinBrightness = 80.0

	// ForegroundThreshold selects black text above it and white text at or below it.
	ForegroundThreshold = 128.0

	// HoverDarkenThreshold is the brightness above which the hover overlay is darkened.
	HoverDarkenThreshold = 200.0
)

// Overlay is a translucent colour.
type Overlay struct {
	RGB
	Alpha float64 `json:"alpha" toml:"alpha"`
}

// String returns the overlay as "rgba(r, g, b, a)".
func (o Overlay) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", o.R, o.G, o.B, o.Alpha)
}

// Palette is the set of colours derived from one raw accent for one mode.
// It is never cached: the cache holds the raw colour and a Palette is
// recomputed on every publish.
type Palette struct {
	Accent     RGB     `json:"accent"`
	Foreground RGB     `json:"foreground"`
	Hover      Overlay `json:"hover"`
	Brightness float64 `json:"brightness"`
	Mode       Mode    `json:"-"`
}

// Brightness returns the perceived brightness of a colour on a 0-255 scale
// using the 299/587/114 luma weights.
func Brightness(c RGB) float64 {
	return float64(299*int(c.R)+587*int(c.G)+114*int(c.B)) / 1000
}

// Adjust makes a raw accent legible against the given mode and derives its
// foreground and hover colours.
func Adjust(c RGB, mode Mode) Palette {
	var adjusted RGB
	switch mode {
	case ModeLight:
		adjusted, _ = darken(c)
	default:
		adjusted, _ = brighten(c)
	}

	b := Brightness(adjusted)

	fg := White
	if b > ForegroundThreshold {
		fg = Black
	}

	hover := Overlay{RGB: adjusted, Alpha: 0.15}
	if b > HoverDarkenThreshold {
		hover = Overlay{RGB: scale(adjusted, 85), Alpha: 0.25}
	}

	return Palette{
		Accent:     adjusted,
		Foreground: fg,
		Hover:      hover,
		Brightness: b,
		Mode:       mode,
	}
}

// AdjustHex parses a hex colour and adjusts it. Malformed input is an error.
func AdjustHex(hex string, mode Mode) (Palette, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return Palette{}, err
	}
	return Adjust(c, mode), nil
}

// darken scales every channel by 90% until brightness is at most
// LightMaxBrightness. Each pass strictly lowers a non-zero channel, so it
// terminates. Returns the result and the number of passes.
func darken(c RGB) (RGB, int) {
	steps := 0
	for Brightness(c) > LightMaxBrightness {
		c = scale(c, 90)
		steps++
	}
	return c, steps
}

// brighten raises every channel by at least one (or 15%, whichever is
// larger, capped at 255) until brightness reaches DarkMinBrightness or the
// colour is white. Best effort: white is the escape.
func brighten(c RGB) (RGB, int) {
	steps := 0
	for Brightness(c) < DarkMinBrightness {
		c = RGB{R: lift(c.R), G: lift(c.G), B: lift(c.B)}
		steps++
		if c == White {
			break
		}
	}
	return c, steps
}

// scale multiplies each channel by pct/100, flooring.
func scale(c RGB, pct int) RGB {
	return RGB{
		R: uint8(int(c.R) * pct / 100),
		G: uint8(int(c.G) * pct / 100),
		B: uint8(int(c.B) * pct / 100),
	}
}

func lift(v uint8) uint8 {
	n := max(int(v)+1, int(v)*115/100)
	return uint8(min(255, n))
}
