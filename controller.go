package scratch

import "sync"

// PauseState is the ThreadController's state machine (spec §4.5).
type PauseState uint8

const (
	StateRunning PauseState = iota
	StatePaused
)

// ThreadController is the pause/continue/step primitive shared by the VM
// with the scheduler. Grounded on original_source/src/controller.rs's
// tokio::sync::Notify-based implementation; Go substitutes a broadcast-once
// channel swapped out on every transition.
type ThreadController struct {
	mu    sync.Mutex
	state PauseState
	wake  chan struct{}
}

// NewThreadController starts in the Running state.
func NewThreadController() *ThreadController {
	return &ThreadController{state: StateRunning, wake: make(chan struct{})}
}

// State reports the current pause state.
func (c *ThreadController) State() PauseState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Continue transitions Paused to Running and unblocks every thread waiting
// in Wait.
func (c *ThreadController) Continue() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRunning {
		return
	}
	c.state = StateRunning
	close(c.wake)
	c.wake = make(chan struct{})
}

// Pause transitions Running to Paused. Threads observe this at their next
// call to Wait.
func (c *ThreadController) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StatePaused
}

// Step releases one pass through Wait while remaining Paused: it wakes
// everyone currently blocked in Wait, then immediately re-arms the pause so
// the next call blocks again. The VM calls Wait before each thread step, so
// one Step lets one thread step run.
func (c *ThreadController) Step() {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.wake
	c.wake = make(chan struct{})
	c.state = StatePaused
	close(old)
}

// Wait blocks the caller while the controller is Paused. Called by the VM
// step loop before invoking each thread's Step (spec §4.5 step 2c).
func (c *ThreadController) Wait() {
	c.mu.Lock()
	if c.state == StateRunning {
		c.mu.Unlock()
		return
	}
	ch := c.wake
	c.mu.Unlock()
	<-ch
}
