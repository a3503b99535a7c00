// Package normalizer validates the raw semicolon-delimited station feed and
// rewrites it as the canonical comma-delimited dataset.
package normalizer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/rain-analysis/internal/adapter/csvfile"
	"github.com/couchcryptid/rain-analysis/internal/domain"
	"github.com/couchcryptid/rain-analysis/internal/observability"
)

var errLineTooLong = errors.New("line too long")

// Result counts the data lines seen by one run. The leading header lines
// are in neither count.
type Result struct {
	Kept    int
	Skipped int
}

// Normalizer converts the raw feed into canonical rows.
type Normalizer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Normalizer.
func New(logger *slog.Logger, metrics *observability.Metrics) *Normalizer {
	return &Normalizer{logger: logger, metrics: metrics}
}

// Normalize reads the raw feed from r and writes the canonical dataset to w.
// Malformed lines are counted and dropped; only read and write failures
// are returned as errors.
func (n *Normalizer) Normalize(r io.Reader, w io.Writer) (Result, error) {
	var res Result

	cw, err := csvfile.NewCanonicalWriter(w)
	if err != nil {
		return res, err
	}

	sc := csvfile.NewLineScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo <= domain.RawHeaderLines {
			continue
		}

		var rec domain.CanonicalRecord
		err := errLineTooLong
		if !sc.TooLong() {
			rec, err = domain.ParseRawLine(sc.Text())
		}
		if err != nil {
			res.Skipped++
			reason := skipReason(err)
			n.metrics.RowsSkipped.WithLabelValues(reason).Inc()
			n.logger.Debug("raw line skipped", "line", lineNo, "reason", reason)
			continue
		}

		if err := cw.Write(rec); err != nil {
			return res, err
		}
		res.Kept++
		n.metrics.RowsKept.Inc()
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("read raw feed at line %d: %w", lineNo+1, err)
	}

	if err := cw.Flush(); err != nil {
		return res, fmt.Errorf("flush canonical dataset: %w", err)
	}
	return res, nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyLine):
		return "empty"
	case errors.Is(err, domain.ErrTooFewFields):
		return "too_few_fields"
	case errors.Is(err, domain.ErrMalformedDate):
		return "malformed_date"
	case errors.Is(err, errLineTooLong):
		return "too_long"
	default:
		return "other"
	}
}
