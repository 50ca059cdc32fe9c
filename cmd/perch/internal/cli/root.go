// Package cli implements the perch command-line interface.
//
// Commands:
//   - layout: run a scene through the pipeline and print the laid-out tree
//   - graph: export the laid-out tree as Graphviz DOT or SVG
//   - serve: keep a scene live and serve it to the inspection server
//   - version: print build information
//
// Every command accepts --verbose (-v) for debug logging and --dir to pick
// the project directory holding perch.yaml.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/go-drift/perch/cmd/perch/internal/config"
	"github.com/go-drift/perch/pkg/errors"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the build information shown by the version command.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

type globalFlags struct {
	verbose bool
	dir     string
}

type cfgKey struct{}

// Execute builds the command tree and runs it with args.
func Execute(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "perch",
		Short:         "perch lays out declared UI trees",
		Long:          `perch reconciles a declared widget tree against a persistent node graph and lays it out with a flexbox solver.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			root, err := config.FindProjectRoot(flags.dir)
			if err != nil {
				return err
			}
			cfg, err := config.Resolve(root)
			if err != nil {
				return err
			}

			level, err := charmlog.ParseLevel(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			if flags.verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			errors.SetHandler(&errors.LogHandler{Logger: logger, Verbose: flags.verbose})

			ctx := withLogger(cmd.Context(), logger)
			ctx = context.WithValue(ctx, cfgKey{}, cfg)
			cmd.SetContext(ctx)
			logger.Debug("config resolved", "root", cfg.Root, "name", cfg.Name, "orphans", cfg.Orphans, "viewport", cfg.Viewport)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("perch %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&flags.dir, "dir", ".", "project directory holding "+config.FileName)

	root.AddCommand(newLayoutCmd())
	root.AddCommand(newGraphCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// configFromContext returns the configuration resolved by the root command.
func configFromContext(ctx context.Context) *config.Resolved {
	if cfg, ok := ctx.Value(cfgKey{}).(*config.Resolved); ok {
		return cfg
	}
	dir, _ := os.Getwd()
	cfg, err := config.Resolve(dir)
	if err != nil {
		return &config.Resolved{Root: dir, Viewport: defaultViewport()}
	}
	return cfg
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "perch %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
			return nil
		},
	}
}
