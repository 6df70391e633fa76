package capture

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/pitwall-io/pitwall/pkg/options"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSupervisorRestartsCrashingPipeline(t *testing.T) {
	opts := options.NewCaptureOptions()
	opts.Source = options.SourceTestsrc
	opts.RestartCooldown = 10 * time.Millisecond

	s := NewSupervisor(opts)
	s.newCommand = func() *exec.Cmd {
		return exec.Command("sh", "-c", "echo boom >&2; exit 3")
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- s.Start(ctx) }()

	// The error and exit code are only observable between runs; a relaunch
	// clears the error again.
	waitFor(t, 5*time.Second, func() bool {
		st := s.Status()
		return st.Restarts >= 2 &&
			st.LastError == "boom" &&
			st.LastExitCode != nil && *st.LastExitCode == 3
	})

	cancel()
	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("Start returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not stop after cancel")
	}

	final := s.Status()
	if final.Running {
		t.Error("pipeline still reported running after shutdown")
	}

	time.Sleep(50 * time.Millisecond)
	if got := s.Status().Restarts; got != final.Restarts {
		t.Errorf("restarts kept growing after shutdown: %d -> %d", final.Restarts, got)
	}
}

func TestSupervisorStopsLongRunningPipeline(t *testing.T) {
	opts := options.NewCaptureOptions()
	opts.Source = options.SourceTestsrc
	opts.RestartCooldown = 10 * time.Millisecond

	s := NewSupervisor(opts)
	s.newCommand = func() *exec.Cmd {
		return exec.Command("sleep", "60")
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- s.Start(ctx) }()

	waitFor(t, 5*time.Second, func() bool {
		return s.Status().Running
	})

	cancel()
	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("Start returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not terminate the pipeline")
	}

	if st := s.Status(); st.Running || st.Restarts != 0 {
		t.Errorf("unexpected status after clean stop: %+v", st)
	}
}

func TestSupervisorRelayMode(t *testing.T) {
	opts := options.NewCaptureOptions()
	opts.Source = options.SourceMJPEG
	opts.MJPEGURL = "http://camera.local:8080/stream.mjpg"

	s := NewSupervisor(opts)
	if got := s.UpstreamURL(); got != opts.MJPEGURL {
		t.Fatalf("relay upstream = %q, want %q", got, opts.MJPEGURL)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- s.Start(ctx) }()

	waitFor(t, 2*time.Second, func() bool {
		return s.Status().Running
	})

	cancel()
	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("Start returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop after cancel")
	}

	if st := s.Status(); st.Running || st.Restarts != 0 {
		t.Errorf("unexpected relay status after stop: %+v", st)
	}
}

func TestSupervisorUpstreamURLLocalSink(t *testing.T) {
	opts := options.NewCaptureOptions()
	opts.Source = options.SourceWebcam
	opts.SinkPort = 8090

	s := NewSupervisor(opts)
	if got := s.UpstreamURL(); got != "http://127.0.0.1:8090/live.mjpg" {
		t.Errorf("upstream = %q", got)
	}
}

func TestStatusCopyIsolation(t *testing.T) {
	cell := &statusCell{}
	code := 1
	cell.update(func(s *Status) {
		s.Restarts = 2
		s.LastExitCode = &code
	})

	got := cell.get()
	*got.LastExitCode = 99
	got.Restarts = 99

	if fresh := cell.get(); *fresh.LastExitCode != 1 || fresh.Restarts != 2 {
		t.Errorf("status copy leaked back into the cell: %+v", fresh)
	}
}
