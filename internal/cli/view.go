package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxypic/internal/viewer"
	"github.com/matzehuels/boxypic/pkg/pipeline"
	"github.com/matzehuels/boxypic/pkg/raster"
)

// viewCommand opens the interactive window.
func (c *CLI) viewCommand() *cobra.Command {
	var params paramFlags

	cmd := &cobra.Command{
		Use:   "view <image>",
		Short: "Tune the decomposition interactively in a window",
		Long: `Open a window the size of the image and rebuild the quadtree every frame.

Keys:
  E / Q      lower / raise the threshold by 0.1 while held
  W          hide outlines while held
  G          toggle greyscale
  F          toggle fill
  M          toggle grid mode
  Up / Down  raise / lower the depth limit
  Esc / End  quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &params)
			if err := opts.Params().Validate(); err != nil {
				return err
			}
			img, err := loadImage(cmd.Context(), args[0], opts.MaxSize)
			if err != nil {
				return err
			}
			return viewer.Run(cmd.Context(), img, viewer.Config{
				Controls:  controls(opts),
				Palette:   opts.Palette,
				NodeLimit: pipeline.DefaultNodeLimit,
				Logger:    loggerFromContext(cmd.Context()),
			})
		},
	}

	params.registerBuild(cmd)
	params.registerRender(cmd)
	return cmd
}

// loadImage decodes path for the interactive frame loops.
func loadImage(ctx context.Context, path string, maxSize int) (*raster.Image, error) {
	prog := newProgress(loggerFromContext(ctx))
	img, format, err := raster.Load(path, raster.LoadOptions{MaxSize: maxSize})
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Decoded %s: %s %dx%d", path, format, img.Width(), img.Height()))
	return img, nil
}
