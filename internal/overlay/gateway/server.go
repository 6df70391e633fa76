package gateway

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pitwall-io/pitwall/internal/overlay/capture"
	"github.com/pitwall-io/pitwall/internal/overlay/telemetry"
	"github.com/pitwall-io/pitwall/pkg/log"
	"github.com/pitwall-io/pitwall/pkg/options"
)

// CaptureSource is the slice of the capture supervisor the gateway needs:
// current pipeline status and the MJPEG origin to relay from.
type CaptureSource interface {
	Status() capture.Status
	UpstreamURL() string
}

// Server exposes the HTTP surface of the overlay: the JSON APIs, the
// telemetry SSE stream, the camera MJPEG relay, Prometheus metrics and the
// static HUD assets.
type Server struct {
	httpOpts      *options.HttpOptions
	captureOpts   *options.CaptureOptions
	telemetryOpts *options.TelemetryOptions

	store  *telemetry.Store
	source CaptureSource
	logger log.Logger

	router *mux.Router
}

// NewServer wires the gateway routes.
func NewServer(
	httpOpts *options.HttpOptions,
	captureOpts *options.CaptureOptions,
	telemetryOpts *options.TelemetryOptions,
	store *telemetry.Store,
	source CaptureSource,
) *Server {
	s := &Server{
		httpOpts:      httpOpts,
		captureOpts:   captureOpts,
		telemetryOpts: telemetryOpts,
		store:         store,
		source:        source,
		logger:        log.WithName("gateway"),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/telemetry", s.handleTelemetry).Methods(http.MethodGet)
	api.HandleFunc("/telemetry/stream", s.handleTelemetryStream).Methods(http.MethodGet)

	router.HandleFunc("/camera/live.mjpg", s.handleCameraStream).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	router.HandleFunc("/readyz", s.handleReadyz).Methods(http.MethodGet)

	// Everything else falls through to the static HUD assets.
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.httpOpts.WebDir)))

	return router
}

// Handler returns the assembled route tree.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until the context is cancelled, then shuts down
// gracefully within the configured timeout. Long-lived streaming handlers
// observe the cancellation through the server's base context.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.httpOpts.Addr,
		Handler: s.router,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", "addr", s.httpOpts.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.httpOpts.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}
