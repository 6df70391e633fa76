package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pitwall-io/pitwall/internal/pkg/metrics"
)

// handleTelemetryStream pushes the latest snapshot to the client as
// server-sent events at the configured push rate. Each connection gets its
// own ticker; a slow client delays only itself.
func (s *Server) handleTelemetryStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	metrics.StreamClients.WithLabelValues("telemetry").Inc()
	defer metrics.StreamClients.WithLabelValues("telemetry").Dec()

	pushHz := s.telemetryOpts.PushHz
	if pushHz <= 0 {
		pushHz = 1
	}
	ticker := time.NewTicker(time.Second / time.Duration(pushHz))
	defer ticker.Stop()

	s.logger.Debug("Telemetry stream client connected", "remote", r.RemoteAddr)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("Telemetry stream client disconnected", "remote", r.RemoteAddr)
			return
		case <-ticker.C:
			payload, err := json.Marshal(s.store.Latest())
			if err != nil {
				s.logger.Error(err, "Unable to marshal snapshot")
				return
			}
			if _, err := fmt.Fprintf(w, "event: telemetry\ndata: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
