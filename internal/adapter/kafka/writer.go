package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/rain-analysis/internal/config"
	"github.com/couchcryptid/rain-analysis/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// monthMessage is the JSON value of one published summary row. Months
// without temperature data carry null extremes.
type monthMessage struct {
	Station      string   `json:"station"`
	StationLabel string   `json:"station_label"`
	Year         int      `json:"year"`
	Month        int      `json:"month"`
	TotalRainMM  float64  `json:"total_rain_mm"`
	TempMaxC     *float64 `json:"monthly_tmax_C"`
	TempMinC     *float64 `json:"monthly_tmin_C"`
	HasTempData  bool     `json:"has_temp_data"`
	RainyDays    int      `json:"rainy_days"`
	ComputedAt   string   `json:"computed_at"`
}

// Writer publishes monthly summaries to a Kafka topic.
// It implements pipeline.SummaryLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured summary topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSummaryTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadSummary publishes the twelve months of s in a single WriteMessages
// call. Messages are keyed station-year-month so re-runs replace earlier
// values on a compacted topic.
func (w *Writer) LoadSummary(ctx context.Context, s domain.Summary) error {
	msgs := make([]kafkago.Message, 0, len(s.Months))
	for _, row := range s.Months {
		msg, err := serializeToMessage(s, row)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish summary: %w", err)
	}
	w.logger.Debug("summary published", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func messageKey(s domain.Summary, month int) string {
	return fmt.Sprintf("%s-%d-%02d", s.Selection.Station, s.Selection.Year, month)
}

// serializeToMessage marshals one summary row into a Kafka message.
func serializeToMessage(s domain.Summary, row domain.MonthlySummaryRow) (kafkago.Message, error) {
	data, err := json.Marshal(monthMessage{
		Station:      s.Selection.Station.String(),
		StationLabel: s.Selection.Station.Label(),
		Year:         s.Selection.Year,
		Month:        row.Month,
		TotalRainMM:  row.TotalRainMM,
		TempMaxC:     row.TempMaxC,
		TempMinC:     row.TempMinC,
		HasTempData:  row.HasTempData(),
		RainyDays:    row.RainyDays,
		ComputedAt:   s.ComputedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize month %d: %w", row.Month, err)
	}
	return kafkago.Message{
		Key:   []byte(messageKey(s, row.Month)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station", Value: []byte(s.Selection.Station.String())},
			{Key: "year", Value: []byte(strconv.Itoa(s.Selection.Year))},
			{Key: "computed_at", Value: []byte(s.ComputedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
