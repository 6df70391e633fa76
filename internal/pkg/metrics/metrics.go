package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CaptureUp reports whether the capture pipeline is currently running
	// (1=running, 0=down).
	CaptureUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pitwall_capture_up",
			Help: "Whether the capture pipeline is running (1=running, 0=down).",
		},
	)

	// CaptureRestartsTotal counts capture pipeline restarts for the process
	// lifetime.
	CaptureRestartsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pitwall_capture_restarts_total",
			Help: "Total number of capture pipeline restarts.",
		},
	)

	// TelemetryTicksTotal counts simulation samples written to the live store.
	TelemetryTicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pitwall_telemetry_ticks_total",
			Help: "Total number of telemetry samples produced.",
		},
	)

	// StreamClients tracks currently connected streaming clients per endpoint.
	StreamClients = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pitwall_stream_clients",
			Help: "Currently connected streaming clients.",
		},
		[]string{"endpoint"}, // endpoint: telemetry/camera
	)

	// ProxyBytesTotal counts video bytes relayed to clients.
	ProxyBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pitwall_proxy_bytes_total",
			Help: "Total video bytes relayed through the camera proxy.",
		},
	)

	// PublishTotal counts MQTT snapshot publishes by outcome.
	PublishTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitwall_mqtt_publish_total",
			Help: "Total MQTT telemetry publishes.",
		},
		[]string{"status"}, // status: success/failed
	)
)

func init() {
	prometheus.MustRegister(
		CaptureUp,
		CaptureRestartsTotal,
		TelemetryTicksTotal,
		StreamClients,
		ProxyBytesTotal,
		PublishTotal,
	)
}
