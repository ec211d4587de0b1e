package quadtree

import (
	"fmt"
	"image/color"
	"math"
)

// Color is an additive RGB color. Channels are plain ints so that sums over
// large regions never overflow before they are divided back into range.
type Color struct {
	R, G, B int
}

// RGB builds a Color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color{R: int(r), G: int(g), B: int(b)}
}

// Magnitude returns the Euclidean length of the color vector.
func (c Color) Magnitude() float64 {
	return math.Sqrt(float64(c.R*c.R + c.G*c.G + c.B*c.B))
}

// Shade returns the truncated unweighted mean of the three channels.
func (c Color) Shade() int {
	return (c.R + c.G + c.B) / 3
}

// Grey returns the greyscale color (shade, shade, shade).
func (c Color) Grey() Color {
	s := c.Shade()
	return Color{R: s, G: s, B: s}
}

// RGBA converts to an opaque color.RGBA, clamping each channel to [0, 255].
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: clamp8(c.R), G: clamp8(c.G), B: clamp8(c.B), A: 0xff}
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clamp8(c.R), clamp8(c.G), clamp8(c.B))
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.Hex() }

// Diff returns |magnitude(a) - magnitude(b)|.
func Diff(a, b Color) float64 {
	return math.Abs(a.Magnitude() - b.Magnitude())
}

func clamp8(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
