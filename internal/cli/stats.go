package cli

import (
	"fmt"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxypic/pkg/pipeline"
)

type statsOpts struct {
	params  paramFlags
	json    bool
	noCache bool
	refresh bool
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var opts statsOpts

	cmd := &cobra.Command{
		Use:   "stats <image>",
		Short: "Print the shape of an image's quadtree",
		Long: `Build the quadtree for an image and print its node count, leaf count,
deepest level and how many leaves ended at each depth.`,
		Example: `  boxypic stats photo.jpg -t 8
  boxypic stats photo.jpg --json | jq .tree.leaves`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd, args[0], &opts)
		},
	}

	opts.params.registerBuild(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the summary cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore the cached summary and rebuild")

	return cmd
}

func (c *CLI) runStats(cmd *cobra.Command, input string, opts *statsOpts) error {
	ctx := cmd.Context()

	data, err := readImage(input)
	if err != nil {
		return err
	}
	popts := c.options(cmd, &opts.params)
	popts.Image = data
	popts.Refresh = opts.refresh

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	result, cached, err := runner.SummarizeWithCacheInfo(ctx, popts)
	if err != nil {
		return err
	}
	prog.done("Summarized " + input)

	if opts.json {
		out, err := json.MarshalIndent(result.Summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}
	printSummary(input, result.Summary, cached)
	return nil
}

func printSummary(input string, sum pipeline.Summary, cached bool) {
	statusOK.printf("%s", input)
	size := fmt.Sprintf("%dx%d", sum.Width, sum.Height)
	if sum.ImageFormat != "" {
		size += " " + sum.ImageFormat
	}
	printKeyValue("image", size)
	printKeyValue("threshold", fmt.Sprintf("%.1f", sum.Threshold))
	printKeyValue("max depth", fmt.Sprintf("%d", sum.MaxDepth))
	printStats(sum.Tree.Nodes, sum.Tree.Leaves, sum.Tree.Depth, cached)
	fmt.Println()
	printHistogram(sum.Tree.LeavesByDepth)
}
