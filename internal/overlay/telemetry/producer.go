package telemetry

import (
	"context"
	"time"

	"github.com/pitwall-io/pitwall/internal/pkg/metrics"
	"github.com/pitwall-io/pitwall/pkg/log"
)

// Producer periodically advances the simulator and publishes the result into
// the store.
type Producer struct {
	sim      *Simulator
	store    *Store
	interval time.Duration
}

// NewProducer creates a Producer ticking at sampleHz.
func NewProducer(sim *Simulator, store *Store, sampleHz int) *Producer {
	if sampleHz <= 0 {
		sampleHz = 1
	}
	return &Producer{
		sim:      sim,
		store:    store,
		interval: time.Second / time.Duration(sampleHz),
	}
}

// Start runs the producer loop until the context is cancelled.
func (p *Producer) Start(ctx context.Context) error {
	log.WithName("telemetry").Info("Starting telemetry producer", "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.store.Set(p.sim.Sample())
			metrics.TelemetryTicksTotal.Inc()
		case <-ctx.Done():
			log.WithName("telemetry").Info("Telemetry producer stopped")
			return nil
		}
	}
}
