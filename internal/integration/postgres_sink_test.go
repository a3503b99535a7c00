//go:build integration

package integration_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/couchcryptid/rain-analysis/internal/adapter/postgres"
	"github.com/couchcryptid/rain-analysis/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func startPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("rain"),
		tcpostgres.WithUsername("rain"),
		tcpostgres.WithPassword("rain"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

type storedMonth struct {
	rain      float64
	tmax      sql.NullFloat64
	tmin      sql.NullFloat64
	rainyDays int
}

func readMonths(ctx context.Context, t *testing.T, db *sql.DB, station string, year int) map[int]storedMonth {
	t.Helper()
	rows, err := db.QueryContext(ctx, `
		SELECT month, total_rain_mm, monthly_tmax_c, monthly_tmin_c, rainy_days
		FROM monthly_summaries WHERE station = $1 AND year = $2`, station, year)
	require.NoError(t, err)
	defer rows.Close()

	months := make(map[int]storedMonth)
	for rows.Next() {
		var m storedMonth
		var month int
		require.NoError(t, rows.Scan(&month, &m.rain, &m.tmax, &m.tmin, &m.rainyDays))
		months[month] = m
	}
	require.NoError(t, rows.Err())
	return months
}

// TestPostgresWriterUpsert writes a summary twice against a real database
// and checks that the second write replaces the first.
func TestPostgresWriterUpsert(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := startPostgres(ctx, t)
	writer, err := postgres.NewWriter(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sel := domain.Selection{Year: 1961, Station: domain.StationA}

	var first domain.MonthlyBuckets
	first.Add(domain.Observation{Month: 1, RainMM: 5, Temp: domain.Temperature{Celsius: 1, Valid: true}})
	first.Add(domain.Observation{Month: 1, RainMM: 0, Temp: domain.Temperature{Celsius: -7.2, Valid: true}})
	require.NoError(t, writer.LoadSummary(ctx, domain.NewSummary(sel, &first)))

	months := readMonths(ctx, t, db, "A", 1961)
	require.Len(t, months, 12)
	jan := months[1]
	assert.Equal(t, 5.0, jan.rain)
	assert.Equal(t, 1, jan.rainyDays)
	assert.Equal(t, sql.NullFloat64{Float64: 1, Valid: true}, jan.tmax)
	assert.Equal(t, sql.NullFloat64{Float64: -7.2, Valid: true}, jan.tmin)
	assert.False(t, months[2].tmax.Valid, "months without readings are NULL")
	assert.False(t, months[2].tmin.Valid)

	var second domain.MonthlyBuckets
	second.Add(domain.Observation{Month: 2, RainMM: 3.5})
	require.NoError(t, writer.LoadSummary(ctx, domain.NewSummary(sel, &second)))

	months = readMonths(ctx, t, db, "A", 1961)
	require.Len(t, months, 12)
	assert.Zero(t, months[1].rain)
	assert.False(t, months[1].tmax.Valid)
	assert.Equal(t, 3.5, months[2].rain)
	assert.Equal(t, 1, months[2].rainyDays)

	assert.Empty(t, readMonths(ctx, t, db, "B", 1961))
}
