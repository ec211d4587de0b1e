package viewer

import (
	"github.com/matzehuels/boxypic/pkg/quadtree"
	"github.com/matzehuels/boxypic/pkg/raster"
	"github.com/matzehuels/boxypic/pkg/render"
	"github.com/matzehuels/boxypic/pkg/render/surface"
)

// Draw runs one build→render→destroy cycle of src onto dst and returns the
// shape of the tree it drew. dst must match the size of src. nodeLimit
// bounds allocation; zero means unlimited.
//
// Leaves partition the image, so every pixel of dst is overwritten.
func Draw(src raster.Source, c Controls, pal render.Palette, dst *surface.Canvas, nodeLimit int) (quadtree.Stats, error) {
	tree, err := quadtree.Build(src, c.Params(), quadtree.WithNodeLimit(nodeLimit))
	if err != nil {
		return quadtree.Stats{}, err
	}
	defer tree.Destroy()

	opts := c.RenderOptions(pal)
	if c.Grid {
		render.RenderGrid(tree, dst, opts)
	} else if err := render.Render(tree, dst, opts); err != nil {
		return quadtree.Stats{}, err
	}
	return tree.Stats(), nil
}
