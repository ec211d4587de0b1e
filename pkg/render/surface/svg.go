package surface

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/boxypic/pkg/quadtree"
	"github.com/matzehuels/boxypic/pkg/render"
)

// SVG accumulates rect elements into an SVG document.
type SVG struct {
	w, h int
	buf  bytes.Buffer
}

// NewSVG starts a w x h document.
func NewSVG(w, h int) *SVG {
	return &SVG{w: w, h: h}
}

// Bounds implements render.Surface.
func (s *SVG) Bounds() quadtree.Rect { return quadtree.R(0, 0, s.w, s.h) }

// FillRect implements render.Surface.
func (s *SVG) FillRect(r quadtree.Rect, c quadtree.Color) error {
	fmt.Fprintf(&s.buf, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
		r.Min.X, r.Min.Y, r.Dx(), r.Dy(), c.Hex())
	return nil
}

// StrokeRect implements render.Surface.
func (s *SVG) StrokeRect(r quadtree.Rect, c quadtree.Color) error {
	fmt.Fprintf(&s.buf, `  <rect x="%.1f" y="%.1f" width="%d" height="%d" fill="none" stroke="%s" stroke-width="1"/>`+"\n",
		float64(r.Min.X)+0.5, float64(r.Min.Y)+0.5, r.Dx()-1, r.Dy()-1, c.Hex())
	return nil
}

// Bytes returns the complete document.
func (s *SVG) Bytes() []byte {
	var out bytes.Buffer
	fmt.Fprintf(&out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" shape-rendering="crispEdges">`+"\n",
		s.w, s.h, s.w, s.h)
	out.Write(s.buf.Bytes())
	out.WriteString("</svg>\n")
	return out.Bytes()
}

// Ensure SVG implements render.Surface.
var _ render.Surface = (*SVG)(nil)
