// Package cli implements the dropkit command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dropkit/pkg/buildinfo"
	"github.com/matzehuels/dropkit/pkg/config"
)

const appName = "dropkit"

// Log levels for cmd/dropkit; -v selects LogDebug, which includes overlay
// state changes.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds what every subcommand shares: the logger and the --config path.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag; empty means the XDG default.
	configPath string
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel changes the level of c.Logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the dropkit command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Dropkit places and animates dropdown overlays",
		Long:         `Dropkit computes where a dropdown overlay opens relative to its anchor, how tall it may grow and how it animates open and closed, from the command line, over HTTP or in an interactive terminal demo.`,
		Version:      buildinfo.Current().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(contextWithLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/dropkit/config.toml)")

	root.AddCommand(
		c.placeCommand(),
		c.simulateCommand(),
		c.demoCommand(),
		c.statesCommand(),
		c.serveCommand(),
		c.configCommand(),
		c.completionCommand(),
	)

	return root
}

// loadConfig reads the file named by --config, or the default location.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("config loaded", "path", c.configPath, "policy", cfg.Placement.FlipPolicy)
	return cfg, nil
}
