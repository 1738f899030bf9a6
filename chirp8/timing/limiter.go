package timing

import "time"

// Limiter controls frame pacing for the emulation loop.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// TargetFPS is the timer/display rate of the CHIP-8 machine. Both timers
// tick once per frame at this rate regardless of CPU speed.
const TargetFPS = 60

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Second / TargetFPS
}
