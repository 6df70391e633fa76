package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

var _ IOptions = (*TelemetryOptions)(nil)

// TelemetryOptions contains configuration for telemetry production and
// delivery rates.
type TelemetryOptions struct {
	// SampleHz is the rate the simulation is advanced and stored.
	SampleHz int `json:"sample-hz" mapstructure:"sample-hz"`

	// PushHz is the per-connection SSE delivery rate.
	PushHz int `json:"push-hz" mapstructure:"push-hz"`

	// Seed feeds the simulation's random generator; a fixed seed gives
	// reproducible runs.
	Seed int64 `json:"seed" mapstructure:"seed"`
}

// NewTelemetryOptions creates a TelemetryOptions object with default parameters.
func NewTelemetryOptions() *TelemetryOptions {
	return &TelemetryOptions{
		SampleHz: 30,
		PushHz:   20,
		Seed:     24,
	}
}

// Validate checks the telemetry rates.
func (o *TelemetryOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.SampleHz <= 0 {
		errors = append(errors, fmt.Errorf("telemetry.sample-hz must be positive, got %d", o.SampleHz))
	}
	if o.PushHz <= 0 {
		errors = append(errors, fmt.Errorf("telemetry.push-hz must be positive, got %d", o.PushHz))
	}

	return errors
}

// AddFlags adds flags related to telemetry to the specified FlagSet.
func (o *TelemetryOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.SampleHz, "telemetry.sample-hz", o.SampleHz, "Telemetry simulation rate in Hz.")
	fs.IntVar(&o.PushHz, "telemetry.push-hz", o.PushHz, "SSE publish rate per connection in Hz.")
	fs.Int64Var(&o.Seed, "telemetry.seed", o.Seed, "Seed for the simulation's random generator.")
}
