package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"revdiag/internal/config"
	"revdiag/internal/infrastructure"
	"revdiag/internal/pipeline"
	"revdiag/pkg/contracts"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		slog.Error("Weekly diagnostics failed", slog.String("error", err.Error()))
		_ = infrastructure.CloseLogFile()
		os.Exit(1)
	}
	_ = infrastructure.CloseLogFile()
}

// options are the command line overrides
type options struct {
	configPath string
	input      string
	output     string
	csv        string
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (defaults to revdiag.yaml or configs/revdiag.yaml when present)")
	fs.StringVar(&opts.input, "in", "", "weekly performance export to read")
	fs.StringVar(&opts.output, "out", "", "diagnostics workbook to write")
	fs.StringVar(&opts.csv, "csv", "", "optional CSV copy of the diagnostics table")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// loadConfig resolves file and environment configuration, then applies flags.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.input != "" {
		cfg.Input.Path = opts.input
	}
	if opts.output != "" {
		cfg.Output.Path = opts.output
	}
	if opts.csv != "" {
		cfg.Output.CSVPath = opts.csv
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	if opts.version {
		_, err := fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	tracing, err := infrastructure.InitializeTracing(cfg.Telemetry, stdout, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if err := tracing.Shutdown(context.Background()); err != nil {
			logger.Warn("Failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	ctx = infrastructure.EnsureRunID(ctx)
	logger.InfoContext(ctx, "Starting revdiag",
		slog.String("version", contracts.Version),
		slog.String("commit", contracts.GitCommit),
		slog.String("input", cfg.Input.Path),
		slog.String("output", cfg.Output.Path))

	p := pipeline.New(cfg,
		pipeline.WithLogger(logger),
		pipeline.WithTracer(tracing.Tracer))

	report, err := p.Run(ctx)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Diagnostics written",
		slog.String("output", cfg.Output.Path),
		slog.Int("weeks", len(report.Weeks)),
		slog.Float64("r_squared", report.Model.RSquared))
	return nil
}
