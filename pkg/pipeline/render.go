package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/boxypic/pkg/observability"
	"github.com/matzehuels/boxypic/pkg/quadtree"
	"github.com/matzehuels/boxypic/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
// Options must have been validated for rendering.
func Render(ctx context.Context, tree *quadtree.Tree, opts Options) (map[string][]byte, error) {
	return renderFormats(ctx, tree, opts.formats, opts)
}

func renderFormats(ctx context.Context, tree *quadtree.Tree, formats []sink.Format, opts Options) (map[string][]byte, error) {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, names)
	start := time.Now()

	sinkOpts := opts.SinkOptions()
	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		data, err := sink.Render(tree, f, sinkOpts...)
		if err != nil {
			err = fmt.Errorf("render %s: %w", f, err)
			hooks.OnRenderComplete(ctx, names, time.Since(start), err)
			return nil, err
		}
		artifacts[string(f)] = data
	}

	hooks.OnRenderComplete(ctx, names, time.Since(start), nil)
	return artifacts, nil
}
