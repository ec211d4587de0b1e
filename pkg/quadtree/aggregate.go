package quadtree

import (
	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/raster"
)

// Quad is a region together with its averaged color.
type Quad struct {
	Rect  Rect  `json:"rect"`
	Color Color `json:"color"`
	// Shade is the truncated mean of Color's three channels.
	Shade int `json:"shade"`
	// Grey is Color rendered in greyscale: (Shade, Shade, Shade).
	Grey Color `json:"grey"`
}

// NewQuad derives shade and greyscale for c.
func NewQuad(r Rect, c Color) Quad {
	return Quad{Rect: r, Color: c, Shade: c.Shade(), Grey: c.Grey()}
}

// Aggregate returns the mean color of src over r.
// Each channel is averaged with integer truncation, not rounding.
// An empty region or one reaching outside src yields an INVALID_REGION error.
func Aggregate(src raster.Source, r Rect) (Quad, error) {
	if r.Empty() {
		return Quad{}, errors.New(errors.ErrCodeInvalidRegion, "empty region %s", r)
	}
	if !r.In(R(0, 0, src.Width(), src.Height())) {
		return Quad{}, errors.New(errors.ErrCodeInvalidRegion, "region %s outside %dx%d image", r, src.Width(), src.Height())
	}
	return aggregate(src, r), nil
}

// aggregate assumes r is non-empty and inside src.
func aggregate(src raster.Source, r Rect) Quad {
	var sum Color
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			red, green, blue := src.RGB(x, y)
			sum.R += int(red)
			sum.G += int(green)
			sum.B += int(blue)
		}
	}
	n := r.Area()
	return NewQuad(r, Color{R: sum.R / n, G: sum.G / n, B: sum.B / n})
}
