// Package capture turns Wiegand line edges into frames.
//
// A Capturer records edges into a fixed-capacity frame.Frame and is written to
// from the edge event handler only. A Detector periodically looks at the time
// elapsed since the last pulse and hands complete frames on.
//
// The two sides share no lock. The capturer only appends and publishes the bit
// count with an atomic store after the bit and its timestamps are written. Any
// access beyond the published count (snapshot, reset) needs a Paused token,
// which can only be obtained from Capturer.Pause once no edge is being recorded.
package capture

import (
	"runtime"
	"sync/atomic"

	"wgscan/pkg/frame"
	"wgscan/pkg/port"
	"wgscan/pkg/tick"
)

// Capturer records Wiegand edges.
type Capturer struct {
	// frame is written by OnEdge only, entries below count are final.
	frame frame.Frame
	// count is the number of complete bits in frame.
	count atomic.Int32
	// paused drops incoming edges while set.
	paused atomic.Bool
	// busy is the number of OnEdge calls in flight.
	busy atomic.Int32
	// dropped counts edges which arrived while the frame was full.
	dropped atomic.Uint64
}

// NewCapturer returns a capturer that records edges right away.
func NewCapturer() *Capturer {
	return &Capturer{}
}

// OnEdge records one edge.
//
// The bit value is taken from the line (D1 is 1). A falling edge stores the start
// of the pulse, the rising edge stores its end and completes the bit. Once the
// frame is full further edges are dropped until the capturer is reset.
func (c *Capturer) OnEdge(ev port.Event) {
	c.busy.Add(1)
	defer c.busy.Add(-1)

	if c.paused.Load() {
		return
	}

	n := int(c.count.Load())
	if n >= frame.Capacity {
		c.dropped.Add(1)
		return
	}

	c.frame.Bits[n] = ev.Line.Bit()
	switch ev.Type {
	case port.FallingEdge:
		c.frame.Fall[n] = ev.Tick
	case port.RisingEdge:
		c.frame.Rise[n] = ev.Tick
		c.count.Store(int32(n + 1))
	}
}

// Count returns the number of complete bits. Unlike Pending it does not touch
// the frame, so it may be called from any goroutine at any time.
func (c *Capturer) Count() int {
	return int(c.count.Load())
}

// Pending returns the number of complete bits and the falling edge of the last one.
// Only the detector goroutine may call it, the edge may be reset concurrently
// by a Paused token otherwise.
func (c *Capturer) Pending() (int, tick.Ticks) {
	n := int(c.count.Load())
	if n == 0 {
		return 0, 0
	}
	return n, c.frame.Fall[n-1]
}

// Dropped returns the number of edges lost because the frame was full.
func (c *Capturer) Dropped() uint64 {
	return c.dropped.Load()
}

// Pause stops recording and waits until no edge is being recorded anymore.
// The returned token grants exclusive access to the frame until Resume.
func (c *Capturer) Pause() Paused {
	c.paused.Store(true)
	for c.busy.Load() != 0 {
		runtime.Gosched()
	}
	return Paused{c: c}
}

// Paused is the exclusive access to a paused capturer.
type Paused struct {
	c *Capturer
}

// Snapshot returns a copy of the captured frame.
func (p Paused) Snapshot() frame.Frame {
	f := p.c.frame
	f.Count = int(p.c.count.Load())
	return f
}

// Reset discards everything captured so far.
func (p Paused) Reset() {
	p.c.frame.Reset()
	p.c.count.Store(0)
}

// Resume continues recording edges.
func (p Paused) Resume() {
	p.c.paused.Store(false)
}
