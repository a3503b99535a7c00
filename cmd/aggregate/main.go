// Command aggregate summarizes one station and year of the canonical
// dataset into twelve monthly rows.
//
// Usage:
//
//	aggregate data_clean/Rain_temperature_cleaned.csv 1961 A results/monthly_A_1961.csv
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	kafkaadapter "github.com/couchcryptid/rain-analysis/internal/adapter/kafka"
	"github.com/couchcryptid/rain-analysis/internal/adapter/postgres"
	"github.com/couchcryptid/rain-analysis/internal/config"
	"github.com/couchcryptid/rain-analysis/internal/domain"
	"github.com/couchcryptid/rain-analysis/internal/observability"
	"github.com/couchcryptid/rain-analysis/internal/pipeline"
)

const usage = "Usage: %s <input_csv> <year> <station(A|B)> <output_csv>\n"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	inPath, outPath, sel, err := parseArgs(args)
	if err != nil {
		if len(args) == 5 {
			fmt.Fprintf(stderr, "ERROR: %v\n", err)
		} else {
			fmt.Fprintf(stderr, usage, programName(args))
		}
		return pipeline.ExitCode(err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: load config: %v\n", err)
		return pipeline.ExitRuntime
	}
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	opts, closeSinks, err := sinkOptions(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return pipeline.ExitRuntime
	}
	defer closeSinks()

	p := pipeline.New(logger, metrics, opts...)
	_, err = p.Aggregate(ctx, inPath, sel, outPath)
	pushMetrics(ctx, cfg, metrics, logger)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return pipeline.ExitCode(err)
	}

	fmt.Fprintf(stdout, "Wrote %s for station %s and year %d\n", outPath, sel.Station, sel.Year)
	return pipeline.ExitOK
}

func programName(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return "aggregate"
	}
	return args[0]
}

// parseArgs reads <input_csv> <year> <station> <output_csv>. Every
// failure wraps pipeline.ErrUsage.
func parseArgs(args []string) (inPath, outPath string, sel domain.Selection, err error) {
	if len(args) != 5 {
		return "", "", sel, fmt.Errorf("%w: want 4 arguments, got %d", pipeline.ErrUsage, max(len(args)-1, 0))
	}
	year, err := strconv.Atoi(args[2])
	if err != nil {
		return "", "", sel, fmt.Errorf("%w: invalid year %q", pipeline.ErrUsage, args[2])
	}
	station, err := domain.ParseStation(args[3])
	if err != nil {
		return "", "", sel, fmt.Errorf("%w: %w", pipeline.ErrUsage, err)
	}
	return args[1], args[4], domain.Selection{Year: year, Station: station}, nil
}

// sinkOptions opens the summary sinks enabled in cfg. The returned func
// closes every sink that was opened.
func sinkOptions(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]pipeline.Option, func(), error) {
	opts := []pipeline.Option{pipeline.WithSinkTimeout(cfg.SinkTimeout)}
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Error("sink close error", "error", err)
			}
		}
	}

	if cfg.KafkaEnabled {
		w := kafkaadapter.NewWriter(cfg, logger)
		closers = append(closers, w)
		opts = append(opts, pipeline.WithSink("kafka", w))
		logger.Info("kafka summary sink enabled", "topic", cfg.KafkaSummaryTopic, "brokers", cfg.KafkaBrokers)
	}

	if cfg.PostgresDSN != "" {
		connectCtx, cancel := context.WithTimeout(ctx, cfg.SinkTimeout)
		defer cancel()
		w, err := postgres.NewWriter(connectCtx, cfg.PostgresDSN)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, w)
		opts = append(opts, pipeline.WithSink("postgres", w))
		logger.Info("postgres summary sink enabled")
	}

	return opts, closeAll, nil
}

func pushMetrics(ctx context.Context, cfg *config.Config, m *observability.Metrics, logger *slog.Logger) {
	if cfg.PushgatewayURL == "" {
		return
	}
	pushCtx, cancel := context.WithTimeout(ctx, cfg.SinkTimeout)
	defer cancel()
	if err := m.Push(pushCtx, cfg.PushgatewayURL, cfg.MetricsJob, observability.StageAggregate); err != nil {
		logger.Warn("metrics push failed", "error", err)
	}
}
