package capture

import (
	"sync"
)

// Status describes the capture pipeline as observed by clients. It is
// mutated only by the supervisor's control loop; readers receive copies.
type Status struct {
	Running   bool   `json:"running"`
	Restarts  int    `json:"restarts"`
	LastError string `json:"last_error"`

	// LastExitCode is nil until the pipeline has exited at least once.
	LastExitCode *int `json:"last_exit_code"`
}

// statusCell guards the shared Status. The lock is held only for the
// copy or mutation, never across process or network I/O.
type statusCell struct {
	mu sync.Mutex
	s  Status
}

func (c *statusCell) update(fn func(*Status)) {
	c.mu.Lock()
	fn(&c.s)
	c.mu.Unlock()
}

func (c *statusCell) get() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.s
	if c.s.LastExitCode != nil {
		code := *c.s.LastExitCode
		out.LastExitCode = &code
	}
	return out
}
