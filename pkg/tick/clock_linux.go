//go:build linux

package tick

import (
	"time"

	"golang.org/x/sys/unix"
)

// Monotonic is a Clock on the CLOCK_MONOTONIC time base, which is the base
// of the edge timestamps reported by the gpio character device.
type Monotonic struct{}

// Now returns the current counter value.
func (Monotonic) Now() Ticks {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return FromKernel(time.Since(start))
	}
	return FromKernel(time.Duration(ts.Nano()))
}

var start = time.Now()
