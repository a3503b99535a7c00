package config

import (
	"errors"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all tool settings, populated from environment variables.
type Config struct {
	// Normalizer source and destination.
	RawInputPath        string
	CanonicalOutputPath string

	LogLevel  string
	LogFormat string

	// Optional summary sinks.
	KafkaBrokers      []string
	KafkaSummaryTopic string
	KafkaEnabled      bool
	PostgresDSN       string
	SinkTimeout       time.Duration

	// Pushgateway metrics export; disabled when PushgatewayURL is empty.
	PushgatewayURL string
	MetricsJob     string
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is read first when one exists; variables
// already set in the environment take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load() // a missing .env is normal

	sinkTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("SINK_TIMEOUT", "10s"))
	if err != nil || sinkTimeout <= 0 {
		return nil, errors.New("invalid SINK_TIMEOUT")
	}

	topic := os.Getenv("KAFKA_SUMMARY_TOPIC")
	kafkaEnabled := topic != ""
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		RawInputPath:        sharedcfg.EnvOrDefault("RAW_INPUT_PATH", "datasets/SMHI_pthbv_p_t_1961_2025_daily_4326.csv"),
		CanonicalOutputPath: sharedcfg.EnvOrDefault("CANONICAL_OUTPUT_PATH", "data_clean/Rain_temperature_cleaned.csv"),
		LogLevel:            sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		KafkaBrokers:        sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSummaryTopic:   topic,
		KafkaEnabled:        kafkaEnabled,
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		SinkTimeout:         sinkTimeout,
		PushgatewayURL:      os.Getenv("PUSHGATEWAY_URL"),
		MetricsJob:          sharedcfg.EnvOrDefault("METRICS_JOB", "rain_analysis"),
	}

	if cfg.RawInputPath == "" {
		return nil, errors.New("RAW_INPUT_PATH is required")
	}
	if cfg.CanonicalOutputPath == "" {
		return nil, errors.New("CANONICAL_OUTPUT_PATH is required")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, errors.New("LOG_FORMAT must be json or text")
	}
	if cfg.KafkaEnabled && cfg.KafkaSummaryTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SUMMARY_TOPIC is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when the Kafka sink is enabled")
	}

	return cfg, nil
}
