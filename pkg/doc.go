// Package pkg holds the boxypic libraries.
//
// Data flows through the packages in one direction:
//
//	encoded image
//	     ↓
//	[raster] decode, downscale, RGB888 pixels
//	     ↓
//	[quadtree] adaptive split on color magnitude
//	     ↓
//	[render] paint leaves onto a [render/surface]
//	     ↓
//	[render/sink] PNG, JPEG, SVG, JSON, DOT, tree diagram
//
// [pipeline] ties the stages together behind a [cache]. [config] loads
// defaults from TOML, [errors] carries stable error codes, and
// [observability] exposes hooks that [observability/prom] implements with
// Prometheus metrics.
//
// Quick start:
//
//	img, _, err := raster.Load("photo.jpg", raster.LoadOptions{})
//	if err != nil {
//	    return err
//	}
//	tree, err := quadtree.Build(img, quadtree.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	defer tree.Destroy()
//
//	canvas := surface.NewCanvas(img.Width(), img.Height())
//	err = render.Render(tree, canvas, render.DefaultOptions())
package pkg
