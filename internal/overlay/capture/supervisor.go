package capture

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/looplab/fsm"

	"github.com/pitwall-io/pitwall/internal/pkg/metrics"
	"github.com/pitwall-io/pitwall/pkg/log"
	"github.com/pitwall-io/pitwall/pkg/options"
)

// termGracePeriod is how long an exiting pipeline gets after SIGTERM before
// it is killed.
const termGracePeriod = 2 * time.Second

// Supervisor runs the capture pipeline as a child process and restarts it
// whenever it exits, with a cooldown between attempts. In relay mode
// (SourceMJPEG) no child process is spawned; the supervisor only reports the
// relay as active for its own lifetime.
type Supervisor struct {
	opts   *options.CaptureOptions
	cell   *statusCell
	life   *lifecycle
	logger log.Logger

	// newCommand builds the pipeline process. Tests substitute short-lived
	// commands here.
	newCommand func() *exec.Cmd

	termGrace time.Duration
}

// NewSupervisor creates a Supervisor for the given capture configuration.
func NewSupervisor(opts *options.CaptureOptions) *Supervisor {
	s := &Supervisor{
		opts:      opts,
		cell:      &statusCell{},
		logger:    log.WithName("capture"),
		termGrace: termGracePeriod,
	}
	s.life = newLifecycle(s.cell)
	s.newCommand = func() *exec.Cmd {
		return exec.Command("ffmpeg", BuildArgs(opts)...)
	}
	return s
}

// Status returns a copy of the current pipeline status.
func (s *Supervisor) Status() Status {
	return s.cell.get()
}

// UpstreamURL is the MJPEG endpoint the camera proxy should read from:
// the external stream in relay mode, the local ffmpeg sink otherwise.
func (s *Supervisor) UpstreamURL() string {
	if s.opts.Source == options.SourceMJPEG {
		return s.opts.MJPEGURL
	}
	return SinkURL(s.opts.SinkPort)
}

// Start runs the supervision loop until the context is cancelled. It never
// gives up on a crashing pipeline; every exit is followed by a cooldown and
// a relaunch.
func (s *Supervisor) Start(ctx context.Context) error {
	if s.opts.Source == options.SourceMJPEG {
		return s.runRelay(ctx)
	}
	return s.runLocal(ctx)
}

func (s *Supervisor) runRelay(ctx context.Context) error {
	s.logger.Info("Relaying external MJPEG stream", "url", s.opts.MJPEGURL)

	s.cell.update(func(st *Status) {
		st.Running = true
		st.LastError = ""
	})
	metrics.CaptureUp.Set(1)

	<-ctx.Done()

	s.cell.update(func(st *Status) {
		st.Running = false
	})
	metrics.CaptureUp.Set(0)
	s.logger.Info("MJPEG relay stopped")
	return nil
}

func (s *Supervisor) runLocal(ctx context.Context) error {
	s.logger.Info("Starting capture supervisor",
		"source", s.opts.Source, "sink", SinkURL(s.opts.SinkPort))

	for {
		if err := s.fire(ctx, eventLaunch); err != nil {
			return err
		}

		outcome := s.runOnce(ctx)
		outcome.willRestart = ctx.Err() == nil

		if err := s.fire(ctx, eventExit, outcome); err != nil {
			return err
		}

		if !outcome.willRestart {
			s.logger.Info("Capture supervisor stopped")
			return s.fire(ctx, eventHalt)
		}

		s.logger.Info("Capture pipeline exited, restarting",
			"exit_code", exitCodeString(outcome.code),
			"last_error", outcome.lastLine,
			"cooldown", s.opts.RestartCooldown)

		if err := s.fire(ctx, eventCool); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			s.logger.Info("Capture supervisor stopped")
			return s.fire(ctx, eventHalt)
		case <-time.After(s.opts.RestartCooldown):
		}
	}
}

// runOnce spawns the pipeline, drains its stderr keeping the last non-empty
// line, and waits for it to exit. On context cancellation the process is
// asked to terminate and killed after a grace period.
func (s *Supervisor) runOnce(ctx context.Context) exitOutcome {
	cmd := s.newCommand()

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return exitOutcome{lastLine: err.Error()}
	}

	if err := cmd.Start(); err != nil {
		return exitOutcome{lastLine: err.Error()}
	}

	if err := s.fire(ctx, eventUp); err != nil {
		s.logger.Error(err, "Unable to mark pipeline running")
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-done:
			return
		case <-ctx.Done():
		}
		if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
			return
		}
		select {
		case <-done:
		case <-time.After(s.termGrace):
			_ = cmd.Process.Kill()
		}
	}()

	var lastLine string
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lastLine = line
		}
	}

	waitErr := cmd.Wait()
	close(done)

	outcome := exitOutcome{lastLine: lastLine}
	if cmd.ProcessState != nil {
		code := cmd.ProcessState.ExitCode()
		outcome.code = &code
	}
	if waitErr != nil && lastLine == "" {
		outcome.lastLine = waitErr.Error()
	}
	return outcome
}

// fire pushes an event into the lifecycle machine. Same-state transitions
// are not errors here.
func (s *Supervisor) fire(ctx context.Context, name string, args ...interface{}) error {
	err := s.life.event(ctx, name, args...)
	if err == nil {
		return nil
	}
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}
	return err
}

func exitCodeString(code *int) string {
	if code == nil {
		return "unknown"
	}
	return strconv.Itoa(*code)
}
