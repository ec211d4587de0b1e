package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxypic/pkg/buildinfo"
	"github.com/matzehuels/boxypic/pkg/config"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The returned command loads the config file in PersistentPreRunE and
// attaches the CLI's logger to the command context. Callers that wrap
// PersistentPreRunE (main.go adds --verbose this way) must call through to
// the original.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "boxypic decomposes images into quadtrees of flat-colored blocks",
		Long: `boxypic adaptively splits an image into a quadtree of uniform-color
rectangles. A block keeps splitting while any of its quadrants differs from it
by more than the threshold, up to the depth limit. The leaves are rendered as
filled and outlined rectangles, exported as JSON or drawn as a tree diagram.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/boxypic/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config when given, else the default location if a
// file exists there.
func (c *CLI) loadConfig() error {
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.Config = cfg
		c.Logger.Debug("loaded config", "path", c.configPath)
		return nil
	}
	cfg, path, err := config.LoadDefault()
	if err != nil {
		return err
	}
	c.Config = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}
