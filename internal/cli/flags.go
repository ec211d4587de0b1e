package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxypic/internal/viewer"
	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/pipeline"
	"github.com/matzehuels/boxypic/pkg/quadtree"
)

// paramFlags are the tuning flags shared by render, stats, view and tui.
// Only flags the user actually set override the config file.
type paramFlags struct {
	threshold float64
	depth     int
	maxSize   int

	outline   bool
	greyscale bool
	fill      bool
	grid      bool
}

func (p *paramFlags) registerBuild(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&p.threshold, "threshold", "t", quadtree.DefaultThreshold, "split when a quadrant's color magnitude differs by more than this")
	cmd.Flags().IntVarP(&p.depth, "depth", "d", quadtree.DefaultMaxDepth, "maximum tree depth (0-16)")
	cmd.Flags().IntVar(&p.maxSize, "max-size", 0, "downscale so neither side exceeds this many pixels (0 keeps the original)")
}

func (p *paramFlags) registerRender(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&p.outline, "outline", true, "stroke each block's border")
	cmd.Flags().BoolVar(&p.greyscale, "greyscale", false, "paint blocks with their grey shade")
	cmd.Flags().BoolVar(&p.fill, "fill", true, "fill blocks with their color (off paints the contrast color)")
	cmd.Flags().BoolVar(&p.grid, "grid", false, "grid mode: paint per pixel with a separator on each block's last row and column")
}

// apply overlays the flags the user set onto opts.
func (p *paramFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	set := cmd.Flags().Changed
	if set("threshold") {
		opts.Threshold = p.threshold
	}
	if set("depth") {
		opts.MaxDepth = p.depth
	}
	if set("max-size") {
		opts.MaxSize = p.maxSize
	}
	if set("outline") {
		opts.Outline = p.outline
	}
	if set("greyscale") {
		opts.Greyscale = p.greyscale
	}
	if set("fill") {
		opts.Fill = p.fill
	}
	if set("grid") {
		opts.Grid = p.grid
	}
}

// options returns pipeline options seeded from the config file and flags.
func (c *CLI) options(cmd *cobra.Command, p *paramFlags) pipeline.Options {
	opts := c.Config.PipelineOptions()
	p.apply(cmd, &opts)
	return opts
}

// controls converts resolved options into the frame loop's starting state.
func controls(opts pipeline.Options) viewer.Controls {
	return viewer.Controls{
		Threshold: opts.Threshold,
		Depth:     opts.MaxDepth,
		Outline:   opts.Outline,
		Greyscale: opts.Greyscale,
		Fill:      opts.Fill,
		Grid:      opts.Grid,
	}
}

// readImage reads an input file, mapping a missing file to FILE_NOT_FOUND.
func readImage(path string) ([]byte, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", path)
	}
	return data, err
}
