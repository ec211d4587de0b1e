package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/pipeline"
	"github.com/matzehuels/boxypic/pkg/render/sink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	params  paramFlags
	formats string // comma-separated output formats
	engine  string // raster or vector
	output  string // output file (single format), base path, or "-" for stdout
	quality int    // JPEG quality
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <image>",
		Short: "Decompose an image and write the rendered blocks",
		Long: `Decompose an image into a quadtree and write one file per output format.

Formats:
  png, jpeg  the rendered blocks as a raster image
  svg        one <rect> per block
  json       the tree with every node's rectangle and color
  dot        Graphviz source of the tree's structure
  tree       the tree's structure rendered to SVG

Output names derive from the input (photo.jpg -> photo.boxy.png) unless
--output is given. With several formats, --output is used as the base path.
An output that would replace the input image is refused.`,
		Example: `  boxypic render photo.jpg
  boxypic render photo.jpg -t 12 -d 6 --grid -o blocks.png
  boxypic render photo.jpg -f png,svg,json --greyscale`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	opts.params.registerBuild(cmd)
	opts.params.registerRender(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.DefaultFormat, "output format(s), comma-separated: png, jpeg, svg, json, dot, tree")
	cmd.Flags().StringVar(&opts.engine, "engine", string(sink.EngineRaster), "raster engine for png/jpeg: raster, vector")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file, base path for several formats, or "-" for stdout`)
	cmd.Flags().IntVar(&opts.quality, "quality", pipeline.DefaultQuality, "JPEG quality (1-100)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results and recompute")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	formats, err := sink.ParseFormats(opts.formats)
	if err != nil {
		return err
	}
	if opts.output == "-" && len(formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(formats))
	}
	var paths []string
	if opts.output != "-" {
		for _, f := range formats {
			path := outputPath(opts.output, input, f, len(formats) == 1)
			if sameFile(path, input) {
				return errors.New(errors.ErrCodeInvalidPath, "%s output %s would overwrite the input; pass a different --output", f, path)
			}
			paths = append(paths, path)
		}
	}

	data, err := readImage(input)
	if err != nil {
		return err
	}

	popts := c.options(cmd, &opts.params)
	popts.Image = data
	popts.Formats = formatNames(formats)
	if cmd.Flags().Changed("engine") {
		popts.Engine = opts.engine
	}
	popts.Quality = opts.quality
	popts.Refresh = opts.refresh

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer runner.Close()

	result, err := c.execute(ctx, runner, popts, fmt.Sprintf("Rendering %s", filepath.Base(input)))
	if err != nil {
		return err
	}
	logger.Debug("pipeline finished",
		"decode", result.Stats.DecodeTime,
		"build", result.Stats.BuildTime,
		"render", result.Stats.RenderTime)

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(result.Artifacts[string(formats[0])])
		return err
	}

	sum := result.Summary
	statusOK.printf("Rendered %s (%dx%d)", input, sum.Width, sum.Height)
	printStats(sum.Tree.Nodes, sum.Tree.Leaves, sum.Tree.Depth, result.CacheInfo.RenderHit)
	for i, f := range formats {
		path := paths[i]
		if err := writeOutput(path, result.Artifacts[string(f)]); err != nil {
			return err
		}
		printFile(path)
	}
	fmt.Println()
	printNextStep("Tune interactively", fmt.Sprintf("%s view %s", appName, input))
	return nil
}

// execute runs the pipeline behind a spinner. In verbose mode the pipeline
// logs each stage instead.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, message string) (*pipeline.Result, error) {
	if c.Logger.GetLevel() <= log.DebugLevel {
		opts.Logger = c.Logger
		return runner.Execute(ctx, opts)
	}

	quiet := c.Logger.With()
	quiet.SetLevel(log.WarnLevel)
	opts.Logger = quiet

	spinner := newSpinnerWithContext(ctx, message)
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if spinner.Cancelled() {
		return nil, ctx.Err()
	}
	return result, err
}

func formatNames(formats []sink.Format) []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

// derivedSuffix marks outputs named after their input, so photo.png renders
// to photo.boxy.png rather than onto itself.
const derivedSuffix = ".boxy"

// basePath derives the base output path from the output and input file paths.
// If output is empty, it swaps the input's extension for derivedSuffix. A
// format extension on output (.png, .jpg, .tree.svg, ...) is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input)) + derivedSuffix
	}
	if base, ok := strings.CutSuffix(output, "."+sink.FormatTree.Ext()); ok {
		return base
	}
	ext := filepath.Ext(output)
	if _, err := sink.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file written for format f. A single format with an
// explicit --output is written exactly there.
func outputPath(output, input string, f sink.Format, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + "." + f.Ext()
}

// sameFile reports whether a and b name the same file, following links when
// both exist.
func sameFile(a, b string) bool {
	if fa, err := os.Stat(a); err == nil {
		if fb, err := os.Stat(b); err == nil {
			return os.SameFile(fa, fb)
		}
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func writeOutput(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}
