// Package surface provides output targets for [render.Render].
//
//   - [Canvas] draws into an *image.RGBA and also serves [render.RenderGrid].
//   - [Vector] draws through a github.com/gogpu/gg context using path fills
//     and strokes.
//   - [SVG] emits one <rect> element per primitive.
//
// All surfaces clip to their bounds. Stroked borders are one pixel wide and
// lie inside the rect, so adjacent leaves share no border pixels.
//
// [render.Render]: github.com/matzehuels/boxypic/pkg/render.Render
// [render.RenderGrid]: github.com/matzehuels/boxypic/pkg/render.RenderGrid
package surface
