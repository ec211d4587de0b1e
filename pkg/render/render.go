package render

import (
	"github.com/matzehuels/boxypic/pkg/quadtree"
)

// Surface is a drawable target with rectangle primitives.
type Surface interface {
	// Bounds returns the drawable region.
	Bounds() quadtree.Rect
	// FillRect paints every pixel of r.
	FillRect(r quadtree.Rect, c quadtree.Color) error
	// StrokeRect paints the one-pixel border of r.
	StrokeRect(r quadtree.Rect, c quadtree.Color) error
}

// PixelSurface is a drawable target with direct pixel access.
type PixelSurface interface {
	Bounds() quadtree.Rect
	Set(x, y int, c quadtree.Color)
}

// Palette holds the fixed colors used besides the leaves' own colors.
type Palette struct {
	// Outline strokes leaf borders.
	Outline quadtree.Color
	// Contrast fills leaves when Fill is off.
	Contrast quadtree.Color
	// Separator marks the last row and column of each leaf in grid mode.
	Separator quadtree.Color
}

// DefaultPalette is a black outline and separator with a white contrast fill.
func DefaultPalette() Palette {
	return Palette{
		Outline:   quadtree.Color{},
		Contrast:  quadtree.Color{R: 255, G: 255, B: 255},
		Separator: quadtree.Color{},
	}
}

// Options selects how leaves are painted.
type Options struct {
	Outline   bool    `json:"outline"`
	Greyscale bool    `json:"greyscale"`
	Fill      bool    `json:"fill"`
	Palette   Palette `json:"-"`
}

// DefaultOptions returns outlined, filled, full-color rendering.
func DefaultOptions() Options {
	return Options{Outline: true, Fill: true, Palette: DefaultPalette()}
}

// LeafColor returns the color a leaf is painted with under opts.
func LeafColor(q quadtree.Quad, opts Options) quadtree.Color {
	if opts.Greyscale {
		return q.Grey
	}
	return q.Color
}

// Render paints every leaf of tree onto s.
func Render(tree *quadtree.Tree, s Surface, opts Options) error {
	if tree == nil {
		return nil
	}
	return renderNode(tree.Root, s, opts)
}

func renderNode(n *quadtree.Node, s Surface, opts Options) error {
	if n == nil {
		return nil
	}
	if n.Children != nil {
		for _, c := range n.Children {
			if err := renderNode(c, s, opts); err != nil {
				return err
			}
		}
		return nil
	}

	fill := opts.Palette.Contrast
	if opts.Fill {
		fill = LeafColor(n.Quad, opts)
	}
	if err := s.FillRect(n.Rect, fill); err != nil {
		return err
	}
	if opts.Outline {
		return s.StrokeRect(n.Rect, opts.Palette.Outline)
	}
	return nil
}

// RenderGrid writes every leaf pixel to s, drawing each leaf's last column
// and last row in the separator color.
func RenderGrid(tree *quadtree.Tree, s PixelSurface, opts Options) {
	if tree == nil {
		return
	}
	tree.Walk(func(n *quadtree.Node) bool {
		if !n.IsLeaf() {
			return true
		}
		c := LeafColor(n.Quad, opts)
		r := n.Rect
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if x == r.Max.X-1 || y == r.Max.Y-1 {
					s.Set(x, y, opts.Palette.Separator)
				} else {
					s.Set(x, y, c)
				}
			}
		}
		return true
	})
}
