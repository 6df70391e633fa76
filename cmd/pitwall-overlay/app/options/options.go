package options

import (
	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/pitwall-io/pitwall/internal/overlay"
	"github.com/pitwall-io/pitwall/pkg/app"
	"github.com/pitwall-io/pitwall/pkg/log"
	"github.com/pitwall-io/pitwall/pkg/options"
)

// Options aggregates all option groups of the overlay server.
type Options struct {
	HttpOptions      *options.HttpOptions      `json:"http" mapstructure:"http"`
	CaptureOptions   *options.CaptureOptions   `json:"capture" mapstructure:"capture"`
	TelemetryOptions *options.TelemetryOptions `json:"telemetry" mapstructure:"telemetry"`
	MqttOptions      *options.MqttOptions      `json:"mqtt" mapstructure:"mqtt"`
	Log              *log.Options              `json:"log" mapstructure:"log"`
}

var _ app.CliOptions = (*Options)(nil)

// NewOptions creates an Options object with default parameters.
func NewOptions() *Options {
	return &Options{
		HttpOptions:      options.NewHttpOptions(),
		CaptureOptions:   options.NewCaptureOptions(),
		TelemetryOptions: options.NewTelemetryOptions(),
		MqttOptions:      options.NewMqttOptions(),
		Log:              log.NewOptions(),
	}
}

// AddFlags adds all overlay flags to the given flag set.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.HttpOptions.AddFlags(fs)
	o.CaptureOptions.AddFlags(fs)
	o.TelemetryOptions.AddFlags(fs)
	o.MqttOptions.AddFlags(fs)
	o.Log.AddFlags(fs)
}

// Complete fills in any fields not set that are required to have valid data.
func (o *Options) Complete() error {
	return nil
}

// Validate checks all option groups.
func (o *Options) Validate() error {
	var errs []error
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.CaptureOptions.Validate()...)
	errs = append(errs, o.TelemetryOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return multierr.Combine(errs...)
}

// Config builds the runnable overlay configuration from the options.
func (o *Options) Config() (*overlay.Config, error) {
	return &overlay.Config{
		HttpOptions:      o.HttpOptions,
		CaptureOptions:   o.CaptureOptions,
		TelemetryOptions: o.TelemetryOptions,
		MqttOptions:      o.MqttOptions,
	}, nil
}
