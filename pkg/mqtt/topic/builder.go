package topic

import (
	"fmt"
)

// Constants defining the standard topic segments published by the overlay.
// These act as the contract for downstream consumers; changing them breaks
// existing subscribers.
const (
	// SuffixTelemetry carries one JSON snapshot per telemetry tick.
	// Structure: {root}/telemetry
	SuffixTelemetry = "telemetry"

	// SuffixStatus carries the retained online/offline announcement.
	// Structure: {root}/status
	SuffixStatus = "status"
)

// Builder encapsulates the logic for constructing MQTT topic strings under a
// root namespace (e.g. "pitwall/v1").
type Builder struct {
	root string
}

// NewBuilder creates a new Builder with the specified root namespace.
func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// Telemetry returns the topic for per-tick snapshot publishing.
func (b *Builder) Telemetry() string {
	return b.build(SuffixTelemetry)
}

// Status returns the topic for the retained online/offline announcement.
func (b *Builder) Status() string {
	return b.build(SuffixStatus)
}

func (b *Builder) build(suffix string) string {
	return fmt.Sprintf("%s/%s", b.root, suffix)
}
