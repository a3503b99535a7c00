package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/rain-analysis/internal/adapter/csvfile"
	"github.com/couchcryptid/rain-analysis/internal/aggregator"
	"github.com/couchcryptid/rain-analysis/internal/domain"
	"github.com/couchcryptid/rain-analysis/internal/normalizer"
	"github.com/couchcryptid/rain-analysis/internal/observability"
)

// Failure sites that end a run.
var (
	ErrInputOpen  = errors.New("cannot open input")
	ErrOutputOpen = errors.New("cannot open output")
	ErrEmptyInput = aggregator.ErrEmptyInput
	ErrSink       = errors.New("summary sink failed")
)

// SummaryLoader delivers a finished monthly summary to an external system.
type SummaryLoader interface {
	LoadSummary(ctx context.Context, s domain.Summary) error
}

type namedLoader struct {
	name   string
	loader SummaryLoader
}

// Pipeline runs the two file-based stages with shared logging and metrics.
type Pipeline struct {
	logger      *slog.Logger
	metrics     *observability.Metrics
	sinks       []namedLoader
	sinkTimeout time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSink adds an optional destination for aggregated summaries. Sinks run
// in registration order after the summary file has been written.
func WithSink(name string, l SummaryLoader) Option {
	return func(p *Pipeline) {
		p.sinks = append(p.sinks, namedLoader{name: name, loader: l})
	}
}

// WithSinkTimeout bounds the time spent delivering to all sinks.
func WithSinkTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.sinkTimeout = d }
}

// New creates a Pipeline.
func New(logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:      logger,
		metrics:     metrics,
		sinkTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Normalize runs stage A from inPath to outPath. outPath is replaced only
// when the whole input has been converted.
func (p *Pipeline) Normalize(inPath, outPath string) (normalizer.Result, error) {
	start := time.Now()

	in, err := os.Open(inPath)
	if err != nil {
		return normalizer.Result{}, fmt.Errorf("%w %s: %w", ErrInputOpen, inPath, err)
	}
	defer in.Close()

	var res normalizer.Result
	err = writeOutput(outPath, func(w io.Writer) error {
		var err error
		res, err = normalizer.New(p.logger, p.metrics).Normalize(in, w)
		return err
	})
	if err != nil {
		return res, err
	}

	p.finish(start)
	p.logger.Info("normalization complete",
		"input", inPath, "output", outPath, "kept", res.Kept, "skipped", res.Skipped)
	return res, nil
}

// Aggregate runs stage B: it scans inPath for sel, writes the twelve-row
// summary to outPath and then hands the summary to every configured sink.
// The output file is only written once the input has been scanned without
// error. A sink failure is returned wrapped in ErrSink after the file is
// complete.
func (p *Pipeline) Aggregate(ctx context.Context, inPath string, sel domain.Selection, outPath string) (domain.Summary, error) {
	start := time.Now()

	summary, err := p.scan(inPath, sel)
	if err != nil {
		return domain.Summary{}, err
	}

	err = writeOutput(outPath, func(w io.Writer) error {
		if err := csvfile.WriteSummary(w, summary); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		return nil
	})
	if err != nil {
		return domain.Summary{}, err
	}

	p.finish(start)
	p.logger.Info("aggregation complete",
		"input", inPath, "output", outPath,
		"station", sel.Station.String(), "station_label", sel.Station.Label(), "year", sel.Year)

	if err := p.deliver(ctx, summary); err != nil {
		return summary, err
	}
	return summary, nil
}

func (p *Pipeline) scan(inPath string, sel domain.Selection) (domain.Summary, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("%w %s: %w", ErrInputOpen, inPath, err)
	}
	defer in.Close()

	summary, err := aggregator.New(p.logger, p.metrics).Aggregate(in, sel)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("%s: %w", inPath, err)
	}
	return summary, nil
}

// deliver hands the summary to each sink, continuing past failures.
func (p *Pipeline) deliver(ctx context.Context, s domain.Summary) error {
	if len(p.sinks) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.sinkTimeout)
	defer cancel()

	var errs []error
	for _, sk := range p.sinks {
		if err := sk.loader.LoadSummary(ctx, s); err != nil {
			p.logger.Error("summary sink failed", "sink", sk.name, "error", err)
			p.metrics.SinkWrites.WithLabelValues(sk.name, "error").Inc()
			errs = append(errs, fmt.Errorf("%s: %w", sk.name, err))
			continue
		}
		p.metrics.SinkWrites.WithLabelValues(sk.name, "success").Inc()
		p.logger.Info("summary delivered", "sink", sk.name)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrSink, errors.Join(errs...))
	}
	return nil
}

func (p *Pipeline) finish(start time.Time) {
	p.metrics.StageDuration.Observe(time.Since(start).Seconds())
	p.metrics.LastSuccess.Set(float64(domain.Now().Unix()))
}

// writeOutput runs write against a temporary file next to path and renames
// it over path once write and close succeed. On any failure the temporary
// file is removed and path is left as it was.
func writeOutput(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w %s: %w", ErrOutputOpen, path, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrOutputOpen, path, err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err := f.Chmod(0o644); err != nil {
		return fmt.Errorf("%w %s: %w", ErrOutputOpen, path, err)
	}
	if err := write(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("%w %s: %w", ErrOutputOpen, path, err)
	}
	return nil
}
