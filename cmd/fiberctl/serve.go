package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/fiber/internal/config"
	"github.com/vango-dev/fiber/pkg/commit"
	"github.com/vango-dev/fiber/pkg/devtools"
	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/metrics"
)

type serveOptions struct {
	listen   string
	interval time.Duration
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve <snapshot.json>...",
		Short: "Serve devtools while cycling through snapshots",
		Long: `Start the devtools server and reconcile the given snapshots in turn,
one pass per interval, so pass summaries and metrics can be watched live.

Examples:
  fiberctl serve a.json b.json
  fiberctl serve a.json b.json --listen=0.0.0.0:7070 --interval=500ms`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if opts.listen != "" {
				cfg.Devtools.Listen = opts.listen
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, args, opts.interval, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.listen, "listen", "l", "", "Address to listen on (default from fiber.json)")
	cmd.Flags().DurationVarP(&opts.interval, "interval", "i", time.Second, "Time between passes")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, paths []string, interval time.Duration, out, logOut io.Writer) error {
	if interval <= 0 {
		interval = time.Second
	}
	trees := make([]fiber.Node, len(paths))
	for i, p := range paths {
		tree, err := loadSnapshot(ctx, p)
		if err != nil {
			return err
		}
		trees[i] = tree
	}

	logger := cfg.Logger(logOut)
	reg := prometheus.NewRegistry()
	dt := devtools.New(
		devtools.WithHistory(cfg.Devtools.History),
		devtools.WithLogger(logger),
		devtools.WithGatherer(reg),
	)

	opts := append(cfg.ReconcilerOptions(logOut), fiber.WithObserver(dt.Observe))
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.New(append(cfg.MetricsOptions(), metrics.WithRegistry(reg))...)
		opts = append(opts, collector.Options()...)
	}

	mem := commit.NewMemory()
	r := fiber.NewReconciler(mem, opts...)
	root := fiber.NewRoot(mem.Container)

	errCh := make(chan error, 1)
	go func() {
		errCh <- dt.ListenAndServe(ctx, cfg.Devtools.Listen)
	}()
	success(out, "Devtools on http://%s", cfg.Devtools.Listen)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		pass, err := r.Render(ctx, root, trees[i%len(trees)])
		if err != nil {
			if collector != nil {
				collector.RecordFailure(err)
			}
			logger.Error("reconcile failed", "snapshot", paths[i%len(paths)], "error", err)
		} else if err := commit.Apply(pass, mem); err != nil {
			logger.Error("commit failed", "snapshot", paths[i%len(paths)], "error", err)
		}

		select {
		case <-ctx.Done():
			return <-errCh
		case err := <-errCh:
			return err
		case <-ticker.C:
		}
	}
}
