// Package main provides the CLI entry point for planingest.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukaji3/planingest-go/internal/config"
	"github.com/ukaji3/planingest-go/internal/logging"
	"github.com/ukaji3/planingest-go/internal/metrics"
	"github.com/ukaji3/planingest-go/pkg/planingest"
	"github.com/ukaji3/planingest-go/pkg/planingest/models"
	"github.com/ukaji3/planingest-go/pkg/planingest/output"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	variant         string
	year            int
	month           int
	rangeRef        string
	copperMarker    string
	outputPath      string
	format          string
	pretty          bool
	concurrency     int
	configPath      string
	metricsTextfile string
	traceSpans      bool
	verbose         bool
	strict          bool
)

// errCellErrors is returned in strict mode when any cell failed to decode.
var errCellErrors = errors.New("cell errors in strict mode")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "planingest [plan.xlsx ...]",
		Short: "Ingest mine planning spreadsheets",
		Long: `planingest reads shovel, operational and natural-indicator plan
spreadsheets (.xlsx or .xls) and outputs normalized records as JSON or YAML.
Shovel plans are expanded to one record per day of the plan month.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          run,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&variant, "variant", "v", "", "Plan variant: shovel, operational, natural")
	flags.IntVar(&year, "year", 0, "Override the year of every plan date (requires --month)")
	flags.IntVar(&month, "month", 0, "Override the month of every plan date (requires --year)")
	flags.StringVar(&rangeRef, "range", "", "Restrict ingestion to an A1 range, e.g. A3:F40")
	flags.StringVar(&copperMarker, "copper-marker", "", "Header marker of copper-percentage columns (default from config)")
	flags.StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	flags.StringVarP(&format, "format", "f", "json", "Output format: json, yaml")
	flags.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	flags.IntVarP(&concurrency, "concurrency", "j", 0, "Files ingested in parallel (default from config)")
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.StringVar(&metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file after the run")
	flags.BoolVar(&traceSpans, "trace", false, "Print trace spans to stderr")
	flags.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flags.BoolVar(&strict, "strict", false, "Fail when any cell could not be decoded")

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	outFormat, err := output.ParseFormat(format)
	if err != nil {
		return err
	}

	opts, err := ingestOptions(cfg)
	if err != nil {
		return err
	}
	opts.Logger = logger

	if traceSpans || cfg.Tracing.Enabled {
		shutdown, err := setupTracing(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer shutdown()
	}

	recorder := metrics.NewRecorder()
	opts.Observer = recorder
	textfile := metricsTextfile
	if textfile == "" {
		textfile = cfg.Metrics.TextfilePath
	}
	if textfile != "" {
		defer func() {
			if err := recorder.WriteTextfile(textfile); err != nil {
				logger.Warn("failed to write metrics textfile", zap.String("path", textfile), zap.Error(err))
			}
		}()
	}

	workers := cfg.Ingest.Concurrency
	if cmd.Flags().Changed("concurrency") {
		workers = concurrency
	}
	results, err := ingestAll(ctx, args, opts, workers)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cellErrors := 0
	for _, res := range results {
		cellErrors += len(res.CellErrors)
		for i := range res.CellErrors {
			logger.Warn("cell error", zap.String("source", res.Source), zap.Error(&res.CellErrors[i]))
		}
		logger.Info("ingested",
			zap.String("source", res.Source),
			zap.String("run_id", res.RunID),
			zap.Int("records", res.Stats.RecordsEmitted),
			zap.Int("cell_errors", res.Stats.CellErrors))
	}

	data, err := output.Encode(results, outFormat, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	if err := writeOutput(cmd.OutOrStdout(), data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if strict && cellErrors > 0 {
		return fmt.Errorf("%w: %d cell(s) could not be decoded", errCellErrors, cellErrors)
	}
	return nil
}

// ingestOptions merges flags over the config defaults.
func ingestOptions(cfg *config.Config) (planingest.Options, error) {
	opts := planingest.Options{
		CopperMarker: cfg.Ingest.CopperMarker,
		MaxBytes:     cfg.Ingest.MaxBytes,
		Fields:       cfg.Ingest.Fields,
		Range:        rangeRef,
	}

	switch {
	case variant != "":
		v, err := planingest.ParseVariant(variant)
		if err != nil {
			return opts, err
		}
		opts.Variant = v
	default:
		v, ok := cfg.Variant()
		if !ok {
			return opts, errors.New("no plan variant: pass --variant or set ingest.variant")
		}
		opts.Variant = v
	}

	if copperMarker != "" {
		opts.CopperMarker = copperMarker
	}

	switch {
	case year == 0 && month == 0:
	case year == 0 || month == 0:
		return opts, errors.New("--year and --month must be given together")
	default:
		opts.Override = &models.YearMonth{Year: year, Month: time.Month(month)}
	}

	return opts, opts.Validate()
}

// ingestAll ingests every path with at most workers files in flight. Results
// keep the order of paths. The first failure cancels the remaining files.
func ingestAll(ctx context.Context, paths []string, opts planingest.Options, workers int) ([]*planingest.Result, error) {
	results := make([]*planingest.Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, path := range paths {
		g.Go(func() error {
			res, err := planingest.IngestFile(ctx, path, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func setupTracing(w io.Writer) (func(), error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}, nil
}

func writeOutput(stdout io.Writer, data []byte) error {
	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}
	if outputPath != "" {
		return os.WriteFile(outputPath, data, 0644)
	}
	_, err := stdout.Write(data)
	return err
}
