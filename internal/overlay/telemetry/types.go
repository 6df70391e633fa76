package telemetry

import (
	"github.com/pitwall-io/pitwall/internal/overlay/system"
)

// Snapshot is one immutable telemetry reading. The JSON field names form the
// wire contract with the browser HUD and with MQTT consumers.
type Snapshot struct {
	TSEpochS float64 `json:"ts_epoch_s"`
	SpeedMPH float64 `json:"speed_mph"`
	RPM      int     `json:"rpm"`
	Gear     string  `json:"gear"`
	GLat     float64 `json:"g_lat"`
	GLong    float64 `json:"g_long"`
	Throttle float64 `json:"throttle"`
	Brake    float64 `json:"brake"`

	Lap    Lap          `json:"lap"`
	Track  Track        `json:"track"`
	System system.Stats `json:"system"`
	Meta   Meta         `json:"meta"`
}

// Lap carries the lap bookkeeping channels.
type Lap struct {
	// Number increases monotonically; it never resets within a run.
	Number int `json:"number"`

	CurrentTimeS float64 `json:"current_time_s"`
	LastTimeS    float64 `json:"last_time_s"`

	// BestTimeS is non-increasing once a lap has completed.
	BestTimeS float64 `json:"best_time_s"`

	PredictedDeltaS float64 `json:"predicted_delta_s"`

	// Progress is the fraction of the current lap completed, in [0,1].
	Progress float64 `json:"progress"`
}

// Track is a normalized 2D position on the track map, each axis in [0,1].
type Track struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Meta describes the snapshot's provenance.
type Meta struct {
	Source    string `json:"source"`
	UpdatedAt string `json:"updated_at"`
}
