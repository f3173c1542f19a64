// Package timer implements the per-prompt countdown.
package timer

// Bounds for the configurable time limit, in seconds.
const (
	MinSeconds = 1
	MaxSeconds = 10
)

// State is the countdown lifecycle.
type State int

const (
	Idle State = iota
	Armed
	Running
	Expired
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Running:
		return "running"
	case Expired:
		return "expired"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Countdown holds the decrement and zero-check logic. It does not own a clock:
// the caller delivers Tick once per second while the countdown is Running.
type Countdown struct {
	enabled   bool
	seconds   int
	remaining int
	state     State
}

// New returns a configured countdown in the Idle state.
func New(enabled bool, seconds int) *Countdown {
	c := &Countdown{}
	c.Configure(enabled, seconds)
	return c
}

// Configure sets the limit. Seconds are clamped to [MinSeconds, MaxSeconds].
// The countdown returns to Idle.
func (c *Countdown) Configure(enabled bool, seconds int) {
	c.enabled = enabled
	c.seconds = clampSeconds(seconds)
	c.remaining = c.seconds
	c.state = Idle
}

// ArmForFirstPrompt waits for the learner's first interaction without counting down.
func (c *Countdown) ArmForFirstPrompt() {
	if !c.enabled {
		return
	}
	c.remaining = c.seconds
	c.state = Armed
}

// NotifyFirstInteraction starts the countdown. It reports true only on the
// Armed to Running transition; later calls for the same prompt do nothing.
func (c *Countdown) NotifyFirstInteraction() bool {
	if c.state != Armed {
		return false
	}
	c.state = Running
	return true
}

// Tick decrements the remaining time and reports true exactly once, when it reaches zero.
func (c *Countdown) Tick() bool {
	if c.state != Running {
		return false
	}
	c.remaining--
	if c.remaining > 0 {
		return false
	}
	c.remaining = 0
	c.state = Expired
	return true
}

// Cancel stops a running or armed countdown.
func (c *Countdown) Cancel() {
	if c.state == Armed || c.state == Running {
		c.state = Cancelled
	}
}

// Reset restores the full time for the next prompt. The first prompt of a session
// stays Armed until the learner interacts; every later prompt starts Running.
func (c *Countdown) Reset(firstPrompt bool) {
	if !c.enabled {
		return
	}
	c.remaining = c.seconds
	if firstPrompt {
		c.state = Armed
		return
	}
	c.state = Running
}

// Stop returns the countdown to Idle.
func (c *Countdown) Stop() {
	c.remaining = c.seconds
	c.state = Idle
}

// Remaining returns the seconds left on the current prompt.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Seconds returns the configured limit.
func (c *Countdown) Seconds() int {
	return c.seconds
}

// State returns the lifecycle state.
func (c *Countdown) State() State {
	return c.state
}

// Enabled reports whether a time limit is configured.
func (c *Countdown) Enabled() bool {
	return c.enabled
}

// Running reports whether ticks currently count down.
func (c *Countdown) Running() bool {
	return c.state == Running
}

func clampSeconds(s int) int {
	if s < MinSeconds {
		return MinSeconds
	}
	if s > MaxSeconds {
		return MaxSeconds
	}
	return s
}
