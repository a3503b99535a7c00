package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends the run's metrics to a Prometheus Pushgateway, replacing the
// previous values grouped under the same job and stage.
func (m *Metrics) Push(ctx context.Context, url, job, stage string) error {
	err := push.New(url, job).
		Gatherer(m.Registry).
		Grouping("stage", stage).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
