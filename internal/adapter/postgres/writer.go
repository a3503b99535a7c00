// Package postgres stores monthly summaries in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/couchcryptid/rain-analysis/internal/domain"
	_ "github.com/lib/pq"
)

const upsertColumns = 8

// Writer upserts summaries into the monthly_summaries table.
// It implements pipeline.SummaryLoader.
type Writer struct {
	db *sql.DB
}

// NewWriter opens a connection to PostgreSQL, checks it, and runs the
// schema migration.
func NewWriter(ctx context.Context, dsn string) (*Writer, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	w := &Writer{db: db}
	if err := w.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return w, nil
}

func (w *Writer) migrate(ctx context.Context) error {
	_, err := w.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS monthly_summaries (
			station        CHAR(1)          NOT NULL,
			year           INTEGER          NOT NULL,
			month          SMALLINT         NOT NULL CHECK (month BETWEEN 1 AND 12),
			total_rain_mm  DOUBLE PRECISION NOT NULL,
			monthly_tmax_c DOUBLE PRECISION,
			monthly_tmin_c DOUBLE PRECISION,
			rainy_days     SMALLINT         NOT NULL,
			computed_at    TIMESTAMPTZ      NOT NULL,
			PRIMARY KEY (station, year, month)
		);
	`)
	return err
}

// LoadSummary writes all twelve months of s in one transaction. Rows for
// the same station, year and month are replaced.
func (w *Writer) LoadSummary(ctx context.Context, s domain.Summary) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args := upsertQuery(s)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: upsert summary: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.db.Close()
}

// upsertQuery builds one multi-row INSERT for the summary. Missing
// temperature extremes are passed as NULL.
func upsertQuery(s domain.Summary) (string, []any) {
	values := make([]string, 0, len(s.Months))
	args := make([]any, 0, len(s.Months)*upsertColumns)

	for i, row := range s.Months {
		base := i * upsertColumns
		values = append(values, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		args = append(args,
			s.Selection.Station.String(),
			s.Selection.Year,
			row.Month,
			row.TotalRainMM,
			nullFloat(row.TempMaxC),
			nullFloat(row.TempMinC),
			row.RainyDays,
			s.ComputedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO monthly_summaries
			(station, year, month, total_rain_mm, monthly_tmax_c, monthly_tmin_c, rainy_days, computed_at)
		VALUES %s
		ON CONFLICT (station, year, month) DO UPDATE SET
			total_rain_mm  = EXCLUDED.total_rain_mm,
			monthly_tmax_c = EXCLUDED.monthly_tmax_c,
			monthly_tmin_c = EXCLUDED.monthly_tmin_c,
			rainy_days     = EXCLUDED.rainy_days,
			computed_at    = EXCLUDED.computed_at
	`, strings.Join(values, ","))
	return query, args
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
