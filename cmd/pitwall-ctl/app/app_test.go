package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func runCommand(t *testing.T, serverURL string, args ...string) string {
	t.Helper()

	cmd := NewRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append(args, "--server", serverURL))

	if err := cmd.Execute(); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	return out.String()
}

func TestStatusCommand(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"camera":{"running":true,"restarts":3,"last_error":"","last_exit_code":1},"source":"webcam","fps":30,"resolution":"1280x720","telemetry_hz":30}`))
	}))
	defer ts.Close()

	out := runCommand(t, ts.URL, "status")
	for _, want := range []string{"RUNNING", "true", "RESTARTS", "3", "1280x720"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigCommand(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"camera_url":"/camera/live.mjpg","telemetry_url":"/api/telemetry/stream","source":"testsrc","target_fps":30}`))
	}))
	defer ts.Close()

	out := runCommand(t, ts.URL, "config")
	if !strings.Contains(out, "/camera/live.mjpg") || !strings.Contains(out, "testsrc") {
		t.Errorf("config output:\n%s", out)
	}
}

func TestTelemetryCommand(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"speed_mph":92.4,"rpm":5400,"gear":"4","throttle":0.8,"brake":0,"lap":{"number":5,"current_time_s":42.1,"last_time_s":96.401,"best_time_s":95.612,"predicted_delta_s":-0.31},"meta":{"source":"simulated","updated_at":"12:34.567"}}`))
	}))
	defer ts.Close()

	out := runCommand(t, ts.URL, "telemetry")
	for _, want := range []string{"92.4 mph", "GEAR", "95.612"} {
		if !strings.Contains(out, want) {
			t.Errorf("telemetry output missing %q:\n%s", want, out)
		}
	}
}

func TestServerUnreachable(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"status", "--server", "http://127.0.0.1:1"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for an unreachable server")
	}
}
