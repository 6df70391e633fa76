package app

import (
	"fmt"

	"github.com/pitwall-io/pitwall/cmd/pitwall-overlay/app/options"
	"github.com/pitwall-io/pitwall/pkg/app"
	"github.com/pitwall-io/pitwall/pkg/log"
)

const (
	commandName = "pitwall-overlay"
	commandDesc = `The Pitwall overlay serves a live racing HUD: it supervises an ffmpeg
capture pipeline, simulates race telemetry and streams both to the browser
over MJPEG and server-sent events. Optionally it republishes telemetry to an
MQTT broker.`
)

// NewApp creates the pitwall-overlay application.
func NewApp() *app.App {
	opts := options.NewOptions()
	application := app.NewApp(
		commandName,
		"Launch the pitwall overlay server",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)
	return application
}

func run(opts *options.Options) app.RunFunc {
	return func() error {
		log.Init(opts.Log)

		ctx := app.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		server, err := cfg.NewOverlayServer()
		if err != nil {
			return fmt.Errorf("failed to create overlay server: %w", err)
		}

		return server.Run(ctx)
	}
}
