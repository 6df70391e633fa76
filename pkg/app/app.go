// Copyright 2026 The Pitwall Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "PITWALL"

// RunFunc defines the application's startup callback function.
type RunFunc func() error

// App is the main structure of a cli application.
type App struct {
	name        string
	shortDesc   string
	description string
	options     CliOptions
	run         RunFunc
	silence     bool
	noConfig    bool
	validArgs   cobra.PositionalArgs

	cmd *cobra.Command
}

// Option defines optional parameters for initializing the application.
type Option func(*App)

// WithOptions opens the application's function to read from the command line
// or read parameters from the configuration file.
func WithOptions(opts CliOptions) Option {
	return func(a *App) {
		a.options = opts
	}
}

// WithRunFunc is used to set the application startup callback function option.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.run = run
	}
}

// WithDescription is used to set the description of the application.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithSilence sets the application to silent mode, in which the program
// startup information is not printed in the console.
func WithSilence() Option {
	return func(a *App) {
		a.silence = true
	}
}

// WithNoConfig disables the --config flag and config-file loading.
func WithNoConfig() Option {
	return func(a *App) {
		a.noConfig = true
	}
}

// WithDefaultValidArgs sets a validation function that rejects any
// non-flag arguments.
func WithDefaultValidArgs() Option {
	return func(a *App) {
		a.validArgs = cobra.NoArgs
	}
}

// NewApp creates a new application instance based on the given
// application name, short description, and options.
func NewApp(name string, shortDesc string, opts ...Option) *App {
	a := &App{
		name:      name,
		shortDesc: shortDesc,
	}

	for _, o := range opts {
		o(a)
	}

	a.buildCommand()

	return a
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:           a.name,
		Short:         a.shortDesc,
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          a.validArgs,
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	var configFile string
	if !a.noConfig {
		cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the configuration file.")
	}

	if a.options != nil {
		a.options.AddFlags(cmd.PersistentFlags())
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := a.loadConfig(configFile, cmd); err != nil {
			return err
		}

		if a.options != nil {
			if err := a.options.Complete(); err != nil {
				return err
			}
			if err := a.options.Validate(); err != nil {
				return err
			}
		}

		if !a.silence {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting %s ...\n", a.name)
		}

		if a.run != nil {
			return a.run()
		}
		return nil
	}

	a.cmd = cmd
}

// loadConfig merges the optional config file and PITWALL_* environment
// variables into the flag set. Flags explicitly set on the command line win.
func (a *App) loadConfig(configFile string, cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Push config/env values back into flags that the user did not set,
	// so option structs see one merged view.
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil && bindErr == nil {
			bindErr = fmt.Errorf("failed to apply configured value for --%s: %w", f.Name, err)
		}
	})

	return bindErr
}

// Run launches the application.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Command returns the underlying cobra command, mainly for tests and for
// embedding the app into a larger CLI.
func (a *App) Command() *cobra.Command {
	return a.cmd
}
