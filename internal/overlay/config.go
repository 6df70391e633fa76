package overlay

import (
	"fmt"

	"github.com/pitwall-io/pitwall/internal/overlay/capture"
	"github.com/pitwall-io/pitwall/internal/overlay/gateway"
	"github.com/pitwall-io/pitwall/internal/overlay/publisher"
	"github.com/pitwall-io/pitwall/internal/overlay/system"
	"github.com/pitwall-io/pitwall/internal/overlay/telemetry"
	"github.com/pitwall-io/pitwall/pkg/options"
)

// Config aggregates the option groups the overlay needs.
type Config struct {
	HttpOptions      *options.HttpOptions
	CaptureOptions   *options.CaptureOptions
	TelemetryOptions *options.TelemetryOptions
	MqttOptions      *options.MqttOptions
}

// NewOverlayServer wires the overlay components together: the system sampler
// feeds the simulator, the producer writes snapshots into the shared store,
// and the capture supervisor and HTTP gateway run alongside. The MQTT
// republisher joins only when a broker is configured.
func (cfg *Config) NewOverlayServer() (*OverlayServer, error) {
	sampler := system.NewSampler()
	sim := telemetry.NewSimulator(cfg.TelemetryOptions.Seed, sampler.Sample)
	store := telemetry.NewStore()

	producer := telemetry.NewProducer(sim, store, cfg.TelemetryOptions.SampleHz)
	supervisor := capture.NewSupervisor(cfg.CaptureOptions)
	gw := gateway.NewServer(cfg.HttpOptions, cfg.CaptureOptions, cfg.TelemetryOptions, store, supervisor)

	runners := []Runner{supervisor, producer, gw}

	if cfg.MqttOptions.Enabled() {
		pub, err := publisher.New(cfg.MqttOptions, cfg.TelemetryOptions, store)
		if err != nil {
			return nil, fmt.Errorf("failed to init mqtt publisher: %w", err)
		}
		runners = append(runners, pub)
	}

	return &OverlayServer{runners: runners}, nil
}
