package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pitwall-io/pitwall/internal/overlay/capture"
)

// configResponse tells the HUD where to find its streams.
type configResponse struct {
	CameraURL    string `json:"camera_url"`
	TelemetryURL string `json:"telemetry_url"`
	Source       string `json:"source"`
	TargetFPS    int    `json:"target_fps"`
}

type statusResponse struct {
	Camera      capture.Status `json:"camera"`
	Source      string         `json:"source"`
	FPS         int            `json:"fps"`
	Resolution  string         `json:"resolution"`
	TelemetryHz int            `json:"telemetry_hz"`
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, configResponse{
		CameraURL:    "/camera/live.mjpg",
		TelemetryURL: "/api/telemetry/stream",
		Source:       s.captureOpts.Source,
		TargetFPS:    s.captureOpts.FPS,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{
		Camera:      s.source.Status(),
		Source:      s.captureOpts.Source,
		FPS:         s.captureOpts.FPS,
		Resolution:  fmt.Sprintf("%dx%d", s.captureOpts.Width, s.captureOpts.Height),
		TelemetryHz: s.telemetryOpts.SampleHz,
	})
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Latest())
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// handleReadyz reports ready only once the capture pipeline is up.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if !s.source.Status().Running {
		http.Error(w, "capture pipeline down", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(err, "Unable to encode response")
	}
}
