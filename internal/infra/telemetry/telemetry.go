package telemetry

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mahesh553/Resumefinal-sub000/internal/infra/config"
)

// Provider represents a telemetry provider handle.
type Provider struct {
	startCounter prometheus.Counter
}

// Attach configures telemetry exporters and returns a provider handle.
func Attach(_ context.Context, cfg *config.AppConfig) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	counter := promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "access",
		Name:      "service_starts_total",
		Help:      "Total number of service starts",
	})
	counter.Inc()

	return &Provider{
		startCounter: counter,
	}, nil
}

// StartCounter exposes the service start metric.
func (p *Provider) StartCounter() prometheus.Counter {
	if p == nil {
		return prometheus.NewCounter(prometheus.CounterOpts{})
	}
	return p.startCounter
}
