// Package replay plays a captured frame back onto the Wiegand data lines
package replay

import (
	"context"
	"time"

	"wgscan/pkg/frame"
	"wgscan/pkg/port"
	"wgscan/pkg/tick"
)

// Pulse is one bit to play: the line is pulled low for Low, then released for High.
type Pulse struct {
	Line port.Line
	Low  time.Duration
	High time.Duration
}

// Driver pulls the data lines low and releases them (open drain).
type Driver interface {
	Pull(port.Line) error
	Release(port.Line) error
}

// Plan computes the pulses that reproduce the timing of f.
//
// Times are whole microseconds, at least 1. Gaps longer than 5µs are shortened
// by 1µs to make up for the latency between capturing an edge and timestamping it.
// The last pulse has no gap.
func Plan(f *frame.Frame) []Pulse {
	pulses := make([]Pulse, f.Len())
	for i := range pulses {
		pulses[i] = Pulse{
			Line: port.LineOf(f.Bits[i]),
			Low:  micros(f.PulseWidth(i).Microseconds()),
		}

		if i+1 == f.Len() {
			continue
		}

		gap := tick.Since(f.Fall[i+1], f.Rise[i]).Microseconds()
		if gap > 5 {
			gap--
		}
		pulses[i].High = micros(gap)
	}
	return pulses
}

func micros(us uint32) time.Duration {
	if us < 1 {
		us = 1
	}
	return time.Duration(us) * time.Microsecond
}

// longWait is the shortest pulse or gap Replay waits for with a timer.
const longWait = 10 * time.Millisecond

// Player plays frames with a Driver.
type Player struct {
	Driver Driver
	// Wait blocks for the given duration, Busy if nil.
	Wait func(time.Duration)
}

// Replay plays f. It returns early with ctx.Err() if ctx is cancelled between
// two bits or during a wait of longWait or more.
// Both lines are released when Replay returns.
func (p *Player) Replay(ctx context.Context, f *frame.Frame) (err error) {
	wait := p.Wait
	if wait == nil {
		wait = Busy
	}

	// waits of longWait or more honour ctx
	sleep := func(d time.Duration) error {
		if d < longWait {
			wait(d)
			return nil
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}

	defer func() {
		for _, l := range []port.Line{port.D0, port.D1} {
			if e := p.Driver.Release(l); e != nil && err == nil {
				err = e
			}
		}
	}()

	for _, pulse := range Plan(f) {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = p.Driver.Pull(pulse.Line); err != nil {
			return err
		}
		if err = sleep(pulse.Low); err != nil {
			return err
		}
		if err = p.Driver.Release(pulse.Line); err != nil {
			return err
		}
		if pulse.High > 0 {
			if err = sleep(pulse.High); err != nil {
				return err
			}
		}
	}
	return nil
}

// Busy waits for d. Long waits sleep first and spin the last millisecond only,
// short ones spin, as the scheduler cannot wake a goroutine microsecond accurate.
func Busy(d time.Duration) {
	deadline := time.Now().Add(d)
	if d > 2*time.Millisecond {
		time.Sleep(d - time.Millisecond)
	}
	for time.Now().Before(deadline) {
	}
}
