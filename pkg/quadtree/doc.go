// Package quadtree decomposes a raster into a quadtree of uniform-color blocks.
//
// # Overview
//
// [Build] starts from a root node covering the whole image and recursively
// splits every node into four quadrants while the colors of those quadrants
// differ too much from the node's own average color. Uniform regions stop
// early; detailed regions recurse until the depth limit.
//
// # Split Test
//
// The default [MagnitudePolicy] compares color magnitudes:
//
//	magnitude(c) = sqrt(r² + g² + b²)
//	split       = any |magnitude(child) - magnitude(parent)| > threshold
//
// A node whose region is narrower or shorter than two pixels never splits,
// so aggregation only ever runs over non-empty regions.
//
// # Invariants
//
//   - Every internal node has exactly four children that partition its rect
//     at the floor midpoint of both axes.
//   - child.Depth == parent.Depth + 1 and no depth exceeds Params.MaxDepth.
//   - The leaves tile the root rect with no gaps or overlaps.
//
// # Lifecycle
//
// Trees are immutable values built from one image and one set of parameters.
// An interactive caller rebuilds every frame and drops the previous tree with
// [Tree.Destroy].
//
// # Example
//
//	img, _, _ := raster.Load("cat.jpg", raster.LoadOptions{})
//	tree, err := quadtree.Build(img, quadtree.Params{Threshold: 5, MaxDepth: 7})
//	if err != nil {
//	    return err
//	}
//	defer tree.Destroy()
//	fmt.Println(tree.Stats().Leaves)
package quadtree
