package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-drift/perch/pkg/inspect"
)

type graphOptions struct {
	ticks  int
	format string
	output string
}

func newGraphCmd() *cobra.Command {
	var opts graphOptions

	cmd := &cobra.Command{
		Use:   "graph <scene>",
		Short: "Export the laid-out node tree as DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			format := strings.ToLower(opts.format)
			if format == "" && opts.output != "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
			}
			if format == "" {
				format = "dot"
			}
			if format != "dot" && format != "svg" {
				return fmt.Errorf("unknown format %q (want dot or svg)", format)
			}

			s, err := openSession(configFromContext(ctx), args[0], logger)
			if err != nil {
				return err
			}
			s.run(opts.ticks)

			prog := newProgress(logger)
			data := []byte(inspect.ToDOT(inspect.Snapshot(s.rt)))
			if format == "svg" {
				if data, err = inspect.RenderSVG(ctx, string(data)); err != nil {
					return err
				}
			}

			if opts.output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			prog.done("graph written", "path", opts.output, "format", format)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.ticks, "ticks", 2, "number of ticks to run before exporting")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot or svg (default from -o extension, else dot)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	return cmd
}
