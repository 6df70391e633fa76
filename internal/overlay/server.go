package overlay

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pitwall-io/pitwall/pkg/log"
)

// Runner is the common interface for the overlay's long-running components
// (capture supervisor, telemetry producer, HTTP gateway, MQTT publisher).
type Runner interface {
	Start(ctx context.Context) error
}

// OverlayServer owns the lifecycle of all overlay components.
type OverlayServer struct {
	runners []Runner
}

// Run launches all components in parallel and blocks until the context is
// cancelled or one of them fails. A single failure tears the whole overlay
// down through the shared errgroup context.
func (s *OverlayServer) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, r := range s.runners {
		runner := r
		g.Go(func() error {
			return runner.Start(ctx)
		})
	}

	log.Info("Overlay started")
	return g.Wait()
}
