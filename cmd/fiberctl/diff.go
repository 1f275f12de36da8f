package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/fiber/internal/config"
	"github.com/vango-dev/fiber/pkg/commit"
	"github.com/vango-dev/fiber/pkg/devtools"
	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/metrics"
)

type diffOptions struct {
	asJSON bool
	html   bool
}

func diffCmd() *cobra.Command {
	var opts diffOptions

	cmd := &cobra.Command{
		Use:   "diff <before.json> <after.json>",
		Short: "Reconcile two snapshots and print the effect list",
		Long: `Reconcile two JSON tree snapshots against an in-memory host and print
the effects the second pass emits, in commit order.

Examples:
  fiberctl diff before.json after.json
  fiberctl diff before.json after.json --html
  fiberctl diff before.json after.json --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runDiff(cmd.Context(), cfg, args[0], args[1], opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the pass summary as JSON")
	cmd.Flags().BoolVar(&opts.html, "html", false, "Commit the pass and print the resulting host tree")

	return cmd
}

func runDiff(ctx context.Context, cfg *config.Config, beforePath, afterPath string, opts diffOptions, out, logOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	before, err := loadSnapshot(ctx, beforePath)
	if err != nil {
		return err
	}
	after, err := loadSnapshot(ctx, afterPath)
	if err != nil {
		return err
	}

	mem := commit.NewMemory()
	collector := metrics.New(append(cfg.MetricsOptions(), metrics.WithRegistry(prometheus.NewRegistry()))...)
	r := fiber.NewReconciler(mem, append(cfg.ReconcilerOptions(logOut), collector.Options()...)...)
	root := fiber.NewRoot(mem.Container)

	first, err := r.Render(ctx, root, before)
	if err != nil {
		collector.RecordFailure(err)
		return err
	}
	if err := commit.Apply(first, mem); err != nil {
		return err
	}

	pass, err := r.Render(ctx, root, after)
	if err != nil {
		collector.RecordFailure(err)
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(devtools.Summarize(pass, 2, time.Now()))
	}

	printEffects(out, pass)
	if opts.html {
		if err := commit.Apply(pass, mem); err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, mem.Container.HTML())
	}
	return nil
}

func printEffects(out io.Writer, pass *fiber.Pass) {
	if len(pass.Effects) == 0 {
		success(out, "No changes")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, f := range pass.Effects {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", f, pass.Tag(i), f.Path())
	}
	tw.Flush()

	s := pass.Stats
	fmt.Fprintln(out)
	info(out, "%d effects, %d fibers, %d teardowns, %d bail-outs", len(pass.Effects), s.Fibers, s.Teardowns, s.BailOuts)
}
