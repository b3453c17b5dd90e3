package main

import (
	"github.com/GriffinCanCode/showcase/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

// options are the flags shared by every subcommand; set flags override the environment
type options struct {
	storiesDir string
	framework  string
	patterns   []string
	logLevel   string
	dev        bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "showcase",
		Short: "Component story catalog with hot reload",
		Long: `showcase loads component stories from a directory of story modules
(YAML, JSON, TOML or CommonJS), registers them into a catalog and keeps the
catalog in sync as the modules change.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			opts.cfg = cfg
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.storiesDir, "stories", "s", "", "Stories directory (env STORIES_DIR)")
	flags.StringVar(&opts.framework, "framework", "", "Framework name recorded on groups (env FRAMEWORK)")
	flags.StringSliceVar(&opts.patterns, "pattern", nil, "Story module glob, repeatable (env STORIES_PATTERNS)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (env LOG_LEVEL)")
	flags.BoolVar(&opts.dev, "dev", false, "Development logging (env LOG_DEV)")

	cmd.AddCommand(newServeCmd(opts), newListCmd(opts))
	return cmd
}

func (o *options) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("stories") {
		cfg.Stories.Dir = o.storiesDir
	}
	if flags.Changed("framework") {
		cfg.Stories.Framework = o.framework
	}
	if flags.Changed("pattern") {
		cfg.Stories.Patterns = o.patterns
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if flags.Changed("dev") {
		cfg.Logging.Development = o.dev
	}
}
