package sink

import (
	"github.com/matzehuels/boxypic/pkg/quadtree"
	"github.com/matzehuels/boxypic/pkg/render"
	"github.com/matzehuels/boxypic/pkg/render/surface"
)

// RenderSVG renders tree as an SVG document. In grid mode each leaf becomes
// a separator-colored rect overlaid by its interior in the leaf color.
func RenderSVG(tree *quadtree.Tree, opts ...Option) []byte {
	c := newConfig(opts)
	if tree == nil {
		return surface.NewSVG(0, 0).Bytes()
	}
	s := surface.NewSVG(tree.Bounds.Dx(), tree.Bounds.Dy())
	if c.grid {
		gridRects(tree, s, c.render)
	} else {
		// SVG surface primitives never fail.
		_ = render.Render(tree, s, c.render)
	}
	return s.Bytes()
}

func gridRects(tree *quadtree.Tree, s render.Surface, opts render.Options) {
	for _, q := range tree.Leaves() {
		_ = s.FillRect(q.Rect, opts.Palette.Separator)
		inner := quadtree.Rect{Min: q.Rect.Min, Max: quadtree.Point{X: q.Rect.Max.X - 1, Y: q.Rect.Max.Y - 1}}
		if !inner.Empty() {
			_ = s.FillRect(inner, render.LeafColor(q, opts))
		}
	}
}
