package csvfile

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/rain-analysis/internal/domain"
)

// CanonicalWriter emits canonical rows. Fields are written as-is and never
// quoted, so the output stays splittable on ','.
type CanonicalWriter struct {
	w *bufio.Writer
}

// NewCanonicalWriter writes the canonical header and returns a writer for
// the rows that follow.
func NewCanonicalWriter(w io.Writer) (*CanonicalWriter, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(domain.CanonicalHeader + "\n"); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	return &CanonicalWriter{w: bw}, nil
}

// Write appends one record.
func (c *CanonicalWriter) Write(rec domain.CanonicalRecord) error {
	if _, err := c.w.WriteString(rec.String()); err != nil {
		return fmt.Errorf("csv: write row: %w", err)
	}
	return c.w.WriteByte('\n')
}

// Flush writes any buffered rows to the underlying writer.
func (c *CanonicalWriter) Flush() error {
	return c.w.Flush()
}

// WriteSummary writes the summary header and its twelve rows in month order.
func WriteSummary(w io.Writer, s domain.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(domain.SummaryHeader, ",")); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range s.Months {
		if err := cw.Write(row.CSVFields()); err != nil {
			return fmt.Errorf("csv: write month %d: %w", row.Month, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
