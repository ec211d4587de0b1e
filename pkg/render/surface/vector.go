package surface

import (
	"image"
	"io"

	"github.com/gogpu/gg"

	"github.com/matzehuels/boxypic/pkg/quadtree"
	"github.com/matzehuels/boxypic/pkg/render"
)

// Vector draws through a gogpu/gg context. Fills and strokes are path
// operations, so stroked borders are anti-aliased.
type Vector struct {
	dc *gg.Context
}

// NewVector creates a w x h context cleared to black.
func NewVector(w, h int) *Vector {
	dc := gg.NewContext(w, h)
	dc.ClearWithColor(gg.Black)
	return &Vector{dc: dc}
}

// Bounds implements render.Surface.
func (v *Vector) Bounds() quadtree.Rect {
	return quadtree.R(0, 0, v.dc.Width(), v.dc.Height())
}

// FillRect implements render.Surface.
func (v *Vector) FillRect(r quadtree.Rect, c quadtree.Color) error {
	v.dc.SetColor(c.RGBA())
	v.dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	return v.dc.Fill()
}

// StrokeRect implements render.Surface. The path runs through pixel
// centers so the 1px line covers the rect's outermost pixels.
func (v *Vector) StrokeRect(r quadtree.Rect, c quadtree.Color) error {
	v.dc.SetColor(c.RGBA())
	v.dc.SetLineWidth(1)
	v.dc.DrawRectangle(float64(r.Min.X)+0.5, float64(r.Min.Y)+0.5, float64(r.Dx()-1), float64(r.Dy()-1))
	return v.dc.Stroke()
}

// Image returns the rendered pixels.
func (v *Vector) Image() image.Image { return v.dc.Image() }

// EncodePNG writes the frame as PNG.
func (v *Vector) EncodePNG(w io.Writer) error { return v.dc.EncodePNG(w) }

// EncodeJPEG writes the frame as JPEG at the given quality.
func (v *Vector) EncodeJPEG(w io.Writer, quality int) error { return v.dc.EncodeJPEG(w, quality) }

// Close releases the drawing context.
func (v *Vector) Close() error { return v.dc.Close() }

// Ensure Vector implements render.Surface.
var _ render.Surface = (*Vector)(nil)
