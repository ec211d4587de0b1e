package surface

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/matzehuels/boxypic/pkg/quadtree"
	"github.com/matzehuels/boxypic/pkg/render"
)

// Canvas is an in-memory RGBA raster.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas allocates a w x h canvas cleared to opaque black.
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	c.Clear(quadtree.Color{})
	return c
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Bounds implements render.Surface.
func (c *Canvas) Bounds() quadtree.Rect {
	b := c.img.Bounds()
	return quadtree.R(b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}

// Clear paints the whole canvas.
func (c *Canvas) Clear(col quadtree.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col.RGBA()), image.Point{}, draw.Src)
}

// FillRect implements render.Surface.
func (c *Canvas) FillRect(r quadtree.Rect, col quadtree.Color) error {
	draw.Draw(c.img, r.Image(), image.NewUniform(col.RGBA()), image.Point{}, draw.Src)
	return nil
}

// StrokeRect implements render.Surface.
func (c *Canvas) StrokeRect(r quadtree.Rect, col quadtree.Color) error {
	if r.Empty() {
		return nil
	}
	rgba := col.RGBA()
	for x := r.Min.X; x < r.Max.X; x++ {
		c.img.SetRGBA(x, r.Min.Y, rgba)
		c.img.SetRGBA(x, r.Max.Y-1, rgba)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		c.img.SetRGBA(r.Min.X, y, rgba)
		c.img.SetRGBA(r.Max.X-1, y, rgba)
	}
	return nil
}

// Set implements render.PixelSurface. Out-of-bounds writes are ignored.
func (c *Canvas) Set(x, y int, col quadtree.Color) {
	c.img.SetRGBA(x, y, col.RGBA())
}

// At returns the color at (x, y).
func (c *Canvas) At(x, y int) quadtree.Color {
	p := c.img.RGBAAt(x, y)
	return quadtree.RGB(p.R, p.G, p.B)
}

// Ensure Canvas implements both surface kinds.
var (
	_ render.Surface      = (*Canvas)(nil)
	_ render.PixelSurface = (*Canvas)(nil)
)
