package app

import (
	"github.com/spf13/pflag"
)

// CliOptions abstracts configuration options for reading parameters from the
// command line.
type CliOptions interface {
	// AddFlags adds all the application flags to the given flag set.
	AddFlags(fs *pflag.FlagSet)

	// Complete fills in any fields not set that are required to have valid data.
	Complete() error

	// Validate checks the consistency of all options; it runs before the core
	// starts, so a failure here is the only fatal configuration path.
	Validate() error
}
