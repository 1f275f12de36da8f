package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/fiber/internal/config"
	"github.com/vango-dev/fiber/internal/errors"
)

// Version information set at build time.
var (
	version     = "dev"
	buildCommit = "none"
	date        = "unknown"
)

// configPath is the --config flag shared by every command.
var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var fe *errors.FiberError
		if stderrors.As(err, &fe) {
			errors.Fprint(os.Stderr, fe)
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fiberctl",
		Short: "Inspect fiber reconciliation passes",
		Long: `fiberctl drives the fiber reconciler against JSON tree snapshots.

  • diff two snapshots and print the effect list
  • serve live pass summaries and metrics to devtools
  • manage fiber.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to fiber.json (default: ./fiber.json if present)")

	rootCmd.AddCommand(
		diffCmd(),
		serveCmd(),
		configCmd(),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig loads --config, or ./fiber.json, or the defaults.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.LoadOrDefault(".")
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
