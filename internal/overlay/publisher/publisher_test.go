package publisher

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pitwall-io/pitwall/internal/overlay/telemetry"
	"github.com/pitwall-io/pitwall/pkg/log"
	"github.com/pitwall-io/pitwall/pkg/mqtt/topic"
	"github.com/pitwall-io/pitwall/pkg/options"
)

type publishedMessage struct {
	topic   string
	qos     int
	retain  bool
	payload []byte
}

type fakeClient struct {
	mu        sync.Mutex
	published []publishedMessage
}

func (f *fakeClient) Start(ctx context.Context) error           { return nil }
func (f *fakeClient) Disconnect(ctx context.Context)            {}
func (f *fakeClient) AwaitConnection(ctx context.Context) error { return nil }

func (f *fakeClient) Publish(ctx context.Context, t string, qos int, retain bool, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publishedMessage{topic: t, qos: qos, retain: retain, payload: payload})
	return nil
}

func (f *fakeClient) messages() []publishedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]publishedMessage, len(f.published))
	copy(out, f.published)
	return out
}

func newTestPublisher(client *fakeClient, store *telemetry.Store) *Publisher {
	return &Publisher{
		client:   client,
		topics:   topic.NewBuilder("pitwall/v1"),
		store:    store,
		logger:   log.NewNopLogger(),
		interval: 5 * time.Millisecond,
	}
}

func TestPublisherLifecycle(t *testing.T) {
	store := telemetry.NewStore()
	store.Set(telemetry.Snapshot{Lap: telemetry.Lap{Number: 4}})

	client := &fakeClient{}
	p := newTestPublisher(client, store)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- p.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(client.messages()) >= 4 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("Start returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("publisher did not stop")
	}

	msgs := client.messages()
	if len(msgs) < 4 {
		t.Fatalf("published %d messages, want at least 4", len(msgs))
	}

	first := msgs[0]
	if first.topic != "pitwall/v1/status" || !first.retain || string(first.payload) != "online" {
		t.Errorf("online announcement = %+v", first)
	}

	last := msgs[len(msgs)-1]
	if last.topic != "pitwall/v1/status" || !last.retain || string(last.payload) != "offline" {
		t.Errorf("offline announcement = %+v", last)
	}

	for _, msg := range msgs[1 : len(msgs)-1] {
		if msg.topic != "pitwall/v1/telemetry" {
			t.Fatalf("snapshot published to %q", msg.topic)
		}
		if msg.qos != 0 || msg.retain {
			t.Fatalf("snapshot publish must be QoS 0 unretained, got %+v", msg)
		}
		var snap telemetry.Snapshot
		if err := json.Unmarshal(msg.payload, &snap); err != nil {
			t.Fatalf("bad snapshot payload: %v", err)
		}
		if snap.Lap.Number != 4 {
			t.Fatalf("published lap = %d, want 4", snap.Lap.Number)
		}
	}
}

func TestNewConfiguresWill(t *testing.T) {
	mqttOpts := options.NewMqttOptions()
	mqttOpts.Broker = "tcp://broker.local:1883"

	p, err := New(mqttOpts, options.NewTelemetryOptions(), telemetry.NewStore())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.topics.Status() != "pitwall/v1/status" {
		t.Errorf("status topic = %q", p.topics.Status())
	}
	if p.interval != time.Second/20 {
		t.Errorf("publish interval = %v", p.interval)
	}
}
