// Package main provides the cstrgen CLI entrypoint. It wires subcommands
// (generate, check, literal), loads configuration, initializes logging and
// writes the metrics textfile when one is configured.
package main

import (
	"context"
	"cstrgen/internal/config"
	"cstrgen/pkg/logger"
	"cstrgen/pkg/metrics"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// writeMetrics flushes the run's metrics to the configured textfile, if any.
func writeMetrics(ctx context.Context, rec *metrics.Recorder, path string) {
	if path != "" {
		if err := rec.WriteTextfile(path); err != nil {
			logger.Warn(ctx, "could not write metrics", zap.String("path", path), zap.Error(err))
		}
	}
	if err := rec.Shutdown(ctx); err != nil {
		logger.Warn(ctx, "could not shutdown metrics", zap.Error(err))
	}
}

const defaultConfigPath = "cstrgen.yml"

// configPath returns the value of -c/--config anywhere in args. Other flags
// and subcommands are ignored; arguments after "--" are not flags.
func configPath(args []string) string {
	flags := pflag.NewFlagSet("cstrgen", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	path := flags.StringP("config", "c", defaultConfigPath, "Config File Path")
	flags.BoolP("help", "h", false, "")
	_ = flags.Parse(args)

	return *path
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:           "cstrgen",
		Short:         "Generates null-terminated string constants from cstr directives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// there is no way to access flags before command execution in cobra.
	// the config path is pre-parsed by configPath with the same definition.
	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigPath, "Config File Path")
	rootCmd.PersistentFlags().String("metrics-textfile", "", "Write Prometheus metrics to this file after the run")

	cfg, err := config.Load(configPath(os.Args[1:]))
	if err != nil {
		log.Fatal("could not load config file: ", err)
	}

	logger.Setup(cfg.Environment)

	ctx := logger.WithFields(context.Background(), zap.String("run_id", uuid.NewString()))

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rec, err := metrics.New()
	if err != nil {
		logger.Fatal(ctx, "could not create metrics recorder", zap.Error(err))
	}

	rootCmd.AddCommand(
		generateCommand(cfg, rec),
		checkCommand(cfg, rec),
		literalCommand(),
	)

	err = rootCmd.ExecuteContext(ctx)

	metricsPath, _ := rootCmd.PersistentFlags().GetString("metrics-textfile")
	if metricsPath == "" {
		metricsPath = cfg.Metrics.TextfilePath
	}
	writeMetrics(ctx, rec, metricsPath)

	if err != nil {
		report(os.Stderr, err)
		logger.Debug(ctx, "run failed", zap.Error(err))
	}
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
