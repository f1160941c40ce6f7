package palette

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque 8-bit-per-channel color. It implements color.Color.
type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	return r, g, b, 0xffff
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// fromUnit converts [0,1] channel values to 8-bit, clamping out-of-range input.
func fromUnit(r, g, b float64) RGB {
	return RGB{R: unitTo8(r), G: unitTo8(g), B: unitTo8(b)}
}

func unitTo8(v float64) uint8 {
	return uint8(max(0, min(255, math.Round(v*255))))
}

func fromColorful(c colorful.Color) RGB {
	return fromUnit(c.R, c.G, c.B)
}
