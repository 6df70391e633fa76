package topic

import "testing"

func TestBuilder(t *testing.T) {
	b := NewBuilder("pitwall/v1")

	if got := b.Telemetry(); got != "pitwall/v1/telemetry" {
		t.Errorf("Telemetry() = %q", got)
	}
	if got := b.Status(); got != "pitwall/v1/status" {
		t.Errorf("Status() = %q", got)
	}
}
