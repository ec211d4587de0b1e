// Package render paints the leaves of a quadtree onto an output surface.
//
// # Overview
//
// [Render] walks the tree depth-first, children before parents, and paints
// every leaf's rect. Internal nodes draw nothing: the leaves already tile the
// image exactly, so the traversal order among leaves does not matter.
//
// For each leaf:
//
//   - the color is the leaf's average color, or its greyscale when
//     [Options.Greyscale] is set
//   - with [Options.Fill] the rect is filled with that color; without it the
//     rect is filled with [Palette.Contrast] instead
//   - with [Options.Outline] the rect border is stroked in [Palette.Outline]
//     after the fill so it stays visible
//
// [RenderGrid] is the pixel-buffer variant: it writes every pixel of each
// leaf directly, using [Palette.Separator] for the leaf's last column and last
// row. The result is a grid-line effect without a separate outline pass.
//
// # Surfaces
//
// Output targets implement [Surface] (shape primitives) or [PixelSurface]
// (direct pixel writes). Implementations live in the [surface] subpackage:
//
//   - surface.Canvas: *image.RGBA, implements both interfaces
//   - surface.Vector: gogpu/gg drawing context
//   - surface.SVG: SVG document builder
//
// Encoders that turn a rendered surface into bytes live in [sink].
//
// [surface]: github.com/matzehuels/boxypic/pkg/render/surface
// [sink]: github.com/matzehuels/boxypic/pkg/render/sink
package render
