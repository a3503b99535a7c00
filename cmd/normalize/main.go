// Command normalize converts the semicolon-delimited raw feed into the
// canonical comma-separated dataset. Source and destination paths come from
// RAW_INPUT_PATH and CANONICAL_OUTPUT_PATH.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/rain-analysis/internal/config"
	"github.com/couchcryptid/rain-analysis/internal/observability"
	"github.com/couchcryptid/rain-analysis/internal/pipeline"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr))
}

func run(stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: load config: %v\n", err)
		return pipeline.ExitRuntime
	}
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	res, err := pipeline.New(logger, metrics).Normalize(cfg.RawInputPath, cfg.CanonicalOutputPath)
	pushMetrics(cfg, metrics, logger)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return pipeline.ExitCode(err)
	}

	fmt.Fprintf(stdout, "Cleaning done, cleaned CSV: %s | rows kept: %d, rows skipped: %d\n",
		cfg.CanonicalOutputPath, res.Kept, res.Skipped)
	return pipeline.ExitOK
}

func pushMetrics(cfg *config.Config, m *observability.Metrics, logger *slog.Logger) {
	if cfg.PushgatewayURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.SinkTimeout)
	defer cancel()
	if err := m.Push(ctx, cfg.PushgatewayURL, cfg.MetricsJob, observability.StageNormalize); err != nil {
		logger.Warn("metrics push failed", "error", err)
	}
}
