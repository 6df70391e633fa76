package capture

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/pitwall-io/pitwall/internal/pkg/metrics"
	fsmutil "github.com/pitwall-io/pitwall/internal/pkg/util/fsm"
)

// Capture pipeline lifecycle states.
const (
	StateStopped  = "stopped"
	StateStarting = "starting"
	StateRunning  = "running"
	StateExited   = "exited"
	StateCooldown = "cooldown"
)

const (
	eventLaunch = "launch"
	eventUp     = "up"
	eventExit   = "exit"
	eventCool   = "cool"
	eventHalt   = "halt"
)

// exitOutcome is attached to exit events so the exited callback can record
// the terminal observation of the child process.
type exitOutcome struct {
	code        *int
	lastLine    string
	willRestart bool
}

// lifecycle owns the state machine for the capture pipeline and keeps the
// shared status cell in sync with transitions. All events are fired from the
// supervisor's control loop goroutine.
type lifecycle struct {
	machine *fsm.FSM
	status  *statusCell
}

func newLifecycle(status *statusCell) *lifecycle {
	l := &lifecycle{status: status}
	l.machine = fsm.NewFSM(
		StateStopped,
		fsm.Events{
			{Name: eventLaunch, Src: []string{StateStopped, StateCooldown}, Dst: StateStarting},
			{Name: eventUp, Src: []string{StateStarting}, Dst: StateRunning},
			{Name: eventExit, Src: []string{StateStarting, StateRunning}, Dst: StateExited},
			{Name: eventCool, Src: []string{StateExited}, Dst: StateCooldown},
			{Name: eventHalt, Src: []string{StateStopped, StateStarting, StateRunning, StateExited, StateCooldown}, Dst: StateStopped},
		},
		fsm.Callbacks{
			"enter_" + StateRunning: fsmutil.WrapEvent(l.enterRunning),
			"enter_" + StateExited:  fsmutil.WrapEvent(l.enterExited),
			"enter_" + StateStopped: fsmutil.WrapEvent(l.enterStopped),
		},
	)
	return l
}

func (l *lifecycle) event(ctx context.Context, name string, args ...interface{}) error {
	return l.machine.Event(ctx, name, args...)
}

func (l *lifecycle) enterRunning(ctx context.Context, event *fsm.Event) error {
	l.status.update(func(s *Status) {
		s.Running = true
		s.LastError = ""
	})
	metrics.CaptureUp.Set(1)
	return nil
}

func (l *lifecycle) enterExited(ctx context.Context, event *fsm.Event) error {
	if len(event.Args) != 1 {
		return fmt.Errorf("exit event requires an outcome argument")
	}
	outcome, ok := event.Args[0].(exitOutcome)
	if !ok {
		return fmt.Errorf("unexpected exit event argument %T", event.Args[0])
	}

	l.status.update(func(s *Status) {
		s.Running = false
		s.LastExitCode = outcome.code
		if outcome.lastLine != "" {
			s.LastError = outcome.lastLine
		}
		if outcome.willRestart {
			s.Restarts++
		}
	})
	metrics.CaptureUp.Set(0)
	if outcome.willRestart {
		metrics.CaptureRestartsTotal.Inc()
	}
	return nil
}

func (l *lifecycle) enterStopped(ctx context.Context, event *fsm.Event) error {
	l.status.update(func(s *Status) {
		s.Running = false
	})
	metrics.CaptureUp.Set(0)
	return nil
}
