// Package tick implements the arithmetic of a 32 bit free-running 64 MHz cycle counter.
//
// All elapsed time computations use wrapping (modular) subtraction, because the
// counter overflows roughly every 67 seconds.
package tick

import "time"

const (
	// PerMicrosecond is the number of ticks in one microsecond.
	PerMicrosecond = 64
	// PerMillisecond is the number of ticks in one millisecond.
	PerMillisecond = PerMicrosecond * 1000
)

// Ticks is a counter value or a count of counter increments.
type Ticks uint32

// Clock reads the free-running counter.
type Clock interface {
	Now() Ticks
}

// ClockFunc adapts a function to a Clock.
type ClockFunc func() Ticks

// Now calls f().
func (f ClockFunc) Now() Ticks {
	return f()
}

// Since returns the ticks elapsed from then to now, honouring wraparound.
func Since(now, then Ticks) Ticks {
	return now - then
}

// FromDuration converts a duration to ticks, truncating to the tick resolution.
func FromDuration(d time.Duration) Ticks {
	return Ticks(uint64(d.Nanoseconds()) * PerMicrosecond / 1000)
}

// FromKernel converts a CLOCK_MONOTONIC timestamp, as attached to gpio line
// events by the kernel, to a counter value.
func FromKernel(ts time.Duration) Ticks {
	// truncation to 32 bits is the counter wraparound
	return Ticks(uint64(ts.Nanoseconds()) * PerMicrosecond / 1000)
}

// Microseconds returns t in whole microseconds.
func (t Ticks) Microseconds() uint32 {
	return uint32(t) / PerMicrosecond
}

// Duration returns t as a duration.
func (t Ticks) Duration() time.Duration {
	return time.Duration(uint64(t)*1000/PerMicrosecond) * time.Nanosecond
}
