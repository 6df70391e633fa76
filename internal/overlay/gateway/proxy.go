package gateway

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pitwall-io/pitwall/internal/pkg/metrics"
)

const (
	// proxyChunkSize is the relay buffer size; one read side chunk is flushed
	// to the browser at a time to keep frame latency low.
	proxyChunkSize = 16384

	upstreamHeaderTimeout = 8 * time.Second

	defaultStreamContentType = "multipart/x-mixed-replace; boundary=ffmpeg"
)

// handleCameraStream relays the upstream MJPEG stream byte-for-byte to the
// client. The upstream serves exactly one reader, so every browser connects
// here instead.
func (s *Server) handleCameraStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	upstream := s.source.UpstreamURL()

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstream, nil)
	if err != nil {
		http.Error(w, "camera stream unavailable", http.StatusServiceUnavailable)
		return
	}

	client := &http.Client{
		Transport: &http.Transport{
			ResponseHeaderTimeout: upstreamHeaderTimeout,
		},
	}
	resp, err := client.Do(req)
	if err != nil {
		s.logger.Warn("Camera upstream not reachable", "upstream", upstream, "err", err.Error())
		http.Error(w, "camera stream unavailable", http.StatusServiceUnavailable)
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/x-mixed-replace") {
		contentType = defaultStreamContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(http.StatusOK)

	metrics.StreamClients.WithLabelValues("camera").Inc()
	defer metrics.StreamClients.WithLabelValues("camera").Dec()

	s.logger.Debug("Camera stream client connected", "remote", r.RemoteAddr)

	buf := make([]byte, proxyChunkSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return
			}
			flusher.Flush()
			metrics.ProxyBytesTotal.Add(float64(n))
		}
		if err != nil {
			if err != io.EOF {
				s.logger.Debug("Camera upstream closed", "err", err.Error())
			}
			return
		}
	}
}
