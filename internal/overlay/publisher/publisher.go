package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pitwall-io/pitwall/internal/overlay/telemetry"
	"github.com/pitwall-io/pitwall/internal/pkg/metrics"
	"github.com/pitwall-io/pitwall/pkg/log"
	"github.com/pitwall-io/pitwall/pkg/mqtt"
	"github.com/pitwall-io/pitwall/pkg/mqtt/topic"
	"github.com/pitwall-io/pitwall/pkg/options"
)

const (
	statusOnline  = "online"
	statusOffline = "offline"
)

// Publisher republishes telemetry snapshots to an MQTT broker so that
// consumers beyond the browser HUD (loggers, dashboards) can follow the
// session. Snapshots go out at the push rate as QoS 0; a stale reading is
// worthless, so nothing is queued or retried.
type Publisher struct {
	client mqtt.Client
	topics *topic.Builder
	store  *telemetry.Store
	logger log.Logger

	interval time.Duration
}

// New creates a Publisher from the MQTT and telemetry options. The broker
// connection carries a retained offline will on the status topic.
func New(mqttOpts *options.MqttOptions, telemetryOpts *options.TelemetryOptions, store *telemetry.Store) (*Publisher, error) {
	topics := topic.NewBuilder(mqttOpts.TopicRoot)

	cfg := mqttOpts.ToClientConfig()
	cfg.WillTopic = topics.Status()
	cfg.WillPayload = []byte(statusOffline)
	cfg.WillRetain = true

	client, err := mqtt.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	pushHz := telemetryOpts.PushHz
	if pushHz <= 0 {
		pushHz = 1
	}

	return &Publisher{
		client:   client,
		topics:   topics,
		store:    store,
		logger:   log.WithName("publisher"),
		interval: time.Second / time.Duration(pushHz),
	}, nil
}

// Start connects to the broker, announces the overlay online and publishes
// snapshots until the context is cancelled. On shutdown it retracts the
// online announcement before disconnecting.
func (p *Publisher) Start(ctx context.Context) error {
	if err := p.client.Start(ctx); err != nil {
		return err
	}

	if err := p.client.AwaitConnection(ctx); err != nil {
		if ctx.Err() != nil {
			// Shutdown raced the initial connect; not a failure.
			p.shutdown()
			return nil
		}
		return err
	}
	p.logger.Info("Connected to MQTT broker", "topic", p.topics.Telemetry())

	if err := p.client.Publish(ctx, p.topics.Status(), 1, true, []byte(statusOnline)); err != nil {
		p.logger.Error(err, "Unable to announce online status")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.shutdown()
			return nil
		case <-ticker.C:
			p.publishSnapshot(ctx)
		}
	}
}

func (p *Publisher) publishSnapshot(ctx context.Context) {
	payload, err := json.Marshal(p.store.Latest())
	if err != nil {
		p.logger.Error(err, "Unable to marshal snapshot")
		metrics.PublishTotal.WithLabelValues("failed").Inc()
		return
	}

	if err := p.client.Publish(ctx, p.topics.Telemetry(), 0, false, payload); err != nil {
		p.logger.Debug("Snapshot publish failed", "err", err.Error())
		metrics.PublishTotal.WithLabelValues("failed").Inc()
		return
	}
	metrics.PublishTotal.WithLabelValues("success").Inc()
}

func (p *Publisher) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := p.client.Publish(ctx, p.topics.Status(), 1, true, []byte(statusOffline)); err != nil {
		p.logger.Debug("Offline announcement failed", "err", err.Error())
	}
	p.client.Disconnect(ctx)
	p.logger.Info("Disconnected from MQTT broker")
}
