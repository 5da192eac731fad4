package adjust

import "sync/atomic"

// Flag is a coalescing signal cell. The signal handler raises it at
// arbitrary times; the scheduler consumes it exactly once per tick.
// Multiple raises between two consumes collapse into a single event.
type Flag struct {
	v atomic.Bool
}

// Raise marks the flag. Safe to call from any goroutine.
func (f *Flag) Raise() {
	f.v.Store(true)
}

// Consume atomically reads and clears the flag.
func (f *Flag) Consume() bool {
	return f.v.Swap(false)
}
