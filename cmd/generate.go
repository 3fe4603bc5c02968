package main

import (
	"context"
	"cstrgen/internal/config"
	"cstrgen/internal/generator"
	"cstrgen/pkg/logger"
	"cstrgen/pkg/metrics"
	"cstrgen/pkg/serrors"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// generateCommand constructs the 'generate' subcommand that writes the
// constants file of every given package directory.
func generateCommand(cfg *config.Config, rec *metrics.Recorder) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [dir ...]",
		Short: "Generates cstr constants for the package directories (default: current directory)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerator(cmd.Context(), cfg, rec, args, generator.ModeGenerate)
		},
	}
}

// checkCommand constructs the 'check' subcommand that fails when a generated
// file is missing or out of date. It never writes.
func checkCommand(cfg *config.Config, rec *metrics.Recorder) *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir ...]",
		Short: "Verifies that generated cstr constants are up to date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerator(cmd.Context(), cfg, rec, args, generator.ModeCheck)
		},
	}
}

func runGenerator(ctx context.Context,
	cfg *config.Config,
	rec *metrics.Recorder,
	dirs []string,
	mode generator.Mode) error {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Generator.Timeout)
	defer cancel()

	opts := generator.NewOptions(cfg)
	opts.Logger = logger.Slog(ctx)
	opts.Metrics = rec

	results, err := generator.New(generator.FS{}, opts).RunAll(ctx, dirs, mode, cfg.Generator.Concurrency)
	for _, res := range results {
		if res != nil {
			logger.Info(ctx, "package done",
				zap.String("dir", res.Dir),
				zap.String("action", string(res.Action)),
				zap.Int("constants", len(res.Constants)))
		}
	}

	return err
}

// report prints err for humans and editors: one "file:line:col: message"
// line per diagnostic.
func report(w io.Writer, err error) {
	var diags generator.Diagnostics
	if errors.As(err, &diags) {
		for _, d := range diags {
			_, _ = fmt.Fprintln(w, serrors.Positioned(d))
		}

		return
	}

	_, _ = fmt.Fprintln(w, serrors.Positioned(err))
}
