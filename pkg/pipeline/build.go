package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/boxypic/pkg/observability"
	"github.com/matzehuels/boxypic/pkg/quadtree"
	"github.com/matzehuels/boxypic/pkg/raster"
)

// Build decomposes src with the options' parameters and node limit.
func Build(ctx context.Context, src raster.Source, opts Options) (*quadtree.Tree, error) {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, src.Width(), src.Height(), opts.Threshold, opts.MaxDepth)

	start := time.Now()
	tree, err := quadtree.Build(src, opts.Params(), quadtree.WithNodeLimit(opts.NodeLimit))
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}

	st := tree.Stats()
	hooks.OnBuildComplete(ctx, st.Nodes, st.Leaves, time.Since(start), nil)
	return tree, nil
}
