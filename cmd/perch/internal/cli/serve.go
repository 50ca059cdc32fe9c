package cli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-drift/perch/pkg/inspect"
)

type serveOptions struct {
	addr     string
	interval time.Duration
	samples  int
	slow     time.Duration
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve <scene>",
		Short: "Keep a scene live and serve it to the inspection server",
		Long: `Ticks the scene on an interval, reloading it whenever the file changes, and
serves /tree, /frames, /graph.dot and /graph.svg over HTTP until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", opts.interval)
			}
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			s, err := openSession(cfg, args[0], logger)
			if err != nil {
				return err
			}
			s.trace = inspect.NewFrameTrace(opts.samples, opts.slow)
			s.run(2)

			addr := opts.addr
			if addr == "" {
				addr = cfg.DebugAddr
			}
			srv := inspect.NewServer(func() inspect.Tree { return inspect.Snapshot(s.rt) }, logger, inspect.WithFrames(s.trace))

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			go watch(ctx, s, opts.interval)

			return srv.ListenAndServe(ctx, addr, func(a net.Addr) {
				logger.Info("inspection server listening", "addr", "http://"+a.String(), "scene", args[0])
			})
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from perch.yaml debug.addr)")
	cmd.Flags().DurationVar(&opts.interval, "interval", 500*time.Millisecond, "tick interval")
	cmd.Flags().IntVar(&opts.samples, "samples", 240, "number of ticks kept for /frames")
	cmd.Flags().DurationVar(&opts.slow, "slow", 0, "ticks slower than this count as slow (default 16.7ms)")
	return cmd
}

// watch ticks s until ctx is done, reloading its scene when the file changes.
func watch(ctx context.Context, s *session, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			changed, err := s.reload()
			if err != nil {
				s.logger.Warn("scene reload failed", "err", err)
				continue
			}
			if changed {
				s.logger.Info("scene reloaded", "path", s.path)
			}
			s.run(1)
		}
	}
}
