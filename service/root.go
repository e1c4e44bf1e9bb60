package service

import (
	"fmt"
	"os"

	"simplefeed/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is printed by the version command.
const Version = "1.0.0"

var osExit = os.Exit

// cli is the state shared by the subcommands of one invocation.
type cli struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand builds the simplefeed command tree.
func NewRootCommand() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "simplefeed",
		Short: "simplefeed - a small blog with posts, tags and comments",
		Long: `simplefeed serves a blog of posts, tags and comments over HTTP,
as HTML pages for browsers and as JSON under /api.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultPath, "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		c.serveCommand(),
		c.initCommand(),
		c.cleanCommand(),
		c.backupCommand(),
		c.restoreCommand(),
		versionCommand(),
	)
	return root
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", c.configPath, err)
	}
	logger, err := cfg.NewLogger(c.verbose)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logger
	return nil
}

// Execute runs the CLI with the process arguments and exits non-zero on
// failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		osExit(1)
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "simplefeed version %s\n", Version)
		},
	}
}
