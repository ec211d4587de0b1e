// Package sink encodes a quadtree into output artifacts.
//
// # Formats
//
//   - png, jpeg: raster image of the rendered leaves
//   - svg: one <rect> per fill or stroke
//   - json: nested node structure with colors and stats
//   - dot: Graphviz source describing the tree itself
//   - tree: the dot diagram rendered to SVG in-process
//
// [Render] dispatches on a [Format]. Per-format functions such as
// [RenderPNG] and [RenderSVG] are also exported.
//
// # Engines
//
// Image formats can be drawn by two engines. [EngineRaster] writes pixels
// directly into an image.RGBA and is exact. [EngineVector] draws paths with
// github.com/gogpu/gg, which anti-aliases strokes. Grid mode is pixel
// addressed and always uses the raster engine.
//
// # Dependencies
//
// JSON uses [github.com/segmentio/encoding/json]. The tree diagram uses
// [github.com/goccy/go-graphviz] and needs no external binaries.
package sink
