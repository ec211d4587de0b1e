package raster

import (
	"image"
	"image/color"
)

// Source is a read-only RGB raster with O(1) pixel access.
type Source interface {
	Width() int
	Height() int
	// RGB returns the pixel at (x, y). Coordinates must lie inside the raster.
	RGB(x, y int) (r, g, b uint8)
}

// Image is a packed RGB888 raster. Pixel (x, y) starts at Pix[3*(y*W+x)].
type Image struct {
	w, h int
	pix  []uint8
}

// New allocates a black image of the given size.
// Non-positive dimensions yield an empty image that [quadtree.Build] rejects.
func New(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{w: width, h: height, pix: make([]uint8, 3*width*height)}
}

// FromImage copies img into a new RGB888 raster anchored at (0, 0). Alpha
// is discarded: translucent pixels keep their straight, unpremultiplied
// channels.
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	out := New(b.Dx(), b.Dy())

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < out.h; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < out.w; x++ {
				i := 4 * x
				out.Set(x, y, row[i], row[i+1], row[i+2])
			}
		}
	case *image.RGBA:
		for y := 0; y < out.h; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < out.w; x++ {
				i := 4 * x
				c := color.RGBA{R: row[i], G: row[i+1], B: row[i+2], A: row[i+3]}
				if c.A == 0xff {
					out.Set(x, y, c.R, c.G, c.B)
					continue
				}
				n := color.NRGBAModel.Convert(c).(color.NRGBA)
				out.Set(x, y, n.R, n.G, n.B)
			}
		}
	default:
		for y := 0; y < out.h; y++ {
			for x := 0; x < out.w; x++ {
				n := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				out.Set(x, y, n.R, n.G, n.B)
			}
		}
	}
	return out
}

// Width returns the number of columns.
func (m *Image) Width() int { return m.w }

// Height returns the number of rows.
func (m *Image) Height() int { return m.h }

// RGB returns the pixel at (x, y).
func (m *Image) RGB(x, y int) (r, g, b uint8) {
	i := 3 * (y*m.w + x)
	return m.pix[i], m.pix[i+1], m.pix[i+2]
}

// Set writes the pixel at (x, y).
func (m *Image) Set(x, y int, r, g, b uint8) {
	i := 3 * (y*m.w + x)
	m.pix[i], m.pix[i+1], m.pix[i+2] = r, g, b
}

// Fill paints every pixel of the rectangle [x0,x1)x[y0,y1), clipped to the image.
func (m *Image) Fill(x0, y0, x1, y1 int, r, g, b uint8) {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, m.w), min(y1, m.h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Set(x, y, r, g, b)
		}
	}
}

// Pix returns the backing RGB888 buffer. Callers must not modify it.
func (m *Image) Pix() []uint8 { return m.pix }

// RGBA converts the raster back to an opaque *image.RGBA.
func (m *Image) RGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, m.w, m.h))
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			r, g, b := m.RGB(x, y)
			o := out.PixOffset(x, y)
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = r, g, b, 0xff
		}
	}
	return out
}

// Ensure Image implements Source.
var _ Source = (*Image)(nil)
