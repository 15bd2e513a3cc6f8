package capture

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"wgscan/pkg/frame"
	"wgscan/pkg/tick"

	"github.com/womat/debug"
)

const (
	// DefaultTimeout is the line silence that ends a frame.
	DefaultTimeout = 25 * time.Millisecond
	// DefaultInterval is the period of the boundary checks.
	DefaultInterval = 100 * time.Millisecond
)

// DefaultLengths are the frame lengths (in bits) of the supported card formats.
var DefaultLengths = []int{4, 8, 24, 26, 32, 34, 35, 36, 37, 40, 48}

const (
	// StateIdle means no bit has been received yet.
	StateIdle State = iota
	// StateAccumulating means bits are arriving and the frame is not finished.
	StateAccumulating
	// StateFrameReady means the last check emitted a frame.
	StateFrameReady
	// StateStopped means the detector no longer runs.
	StateStopped
)

// State represents the state of the frame boundary detection.
type State int32

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAccumulating:
		return "accumulating"
	case StateFrameReady:
		return "frame ready"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Options configures a Detector.
type Options struct {
	// Lengths is the allow-list of frame lengths, bursts of other lengths are noise.
	Lengths []int
	// Timeout is the silence after the last pulse that ends a frame.
	Timeout time.Duration
	// Interval is the period of the checks done by Run.
	Interval time.Duration
}

// DefaultOptions returns the options for the common card formats.
func DefaultOptions() Options {
	return Options{
		Lengths:  append([]int(nil), DefaultLengths...),
		Timeout:  DefaultTimeout,
		Interval: DefaultInterval,
	}
}

// Stats are the counters of a Detector.
type Stats struct {
	State   string
	Frames  uint64
	Noise   uint64
	Dropped uint64
	Pending int
	Lengths []int
}

// Detector decides when a burst of bits has ended and whether it is a frame.
type Detector struct {
	c        *Capturer
	lengths  map[int]bool
	timeout  tick.Ticks
	interval time.Duration

	state  atomic.Int32
	frames atomic.Uint64
	noise  atomic.Uint64
}

// NewDetector returns a detector for the frames recorded by c.
// Zero option values are replaced by the defaults.
func NewDetector(c *Capturer, o Options) *Detector {
	if len(o.Lengths) == 0 {
		o.Lengths = DefaultLengths
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}

	d := &Detector{
		c:        c,
		lengths:  make(map[int]bool, len(o.Lengths)),
		timeout:  tick.FromDuration(o.Timeout),
		interval: o.Interval,
	}
	for _, n := range o.Lengths {
		d.lengths[n] = true
	}
	return d
}

// State returns the current detection state.
func (d *Detector) State() State {
	return State(d.state.Load())
}

func (d *Detector) setState(s State) {
	d.state.Store(int32(s))
}

// Check does one boundary evaluation at counter value now.
//
// If the line has been silent for longer than the timeout, the captured bits are
// either returned as a frame (recognized length) or discarded as noise. In both
// cases capture restarts with an empty frame.
func (d *Detector) Check(now tick.Ticks) (frame.Frame, bool) {
	n, last := d.c.Pending()
	if n == 0 {
		if d.State() != StateStopped {
			d.setState(StateIdle)
		}
		return frame.Frame{}, false
	}

	if tick.Since(now, last) <= d.timeout {
		d.setState(StateAccumulating)
		return frame.Frame{}, false
	}

	p := d.c.Pause()
	defer p.Resume()

	f := p.Snapshot()
	if f.Count != n {
		// a pulse raced the check, the frame is still in progress
		d.setState(StateAccumulating)
		return frame.Frame{}, false
	}
	p.Reset()

	if !d.lengths[n] {
		debug.DebugLog.Printf("discarding %d bit burst %s", n, f.String())
		d.noise.Add(1)
		d.setState(StateIdle)
		return frame.Frame{}, false
	}

	d.frames.Add(1)
	d.setState(StateFrameReady)
	return f, true
}

// Run checks for complete frames every interval until ctx is done and calls
// handler with each of them. Capture stays paused after Run returns.
func (d *Detector) Run(ctx context.Context, clock tick.Clock, handler func(frame.Frame)) {
	t := time.NewTicker(d.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			d.c.Pause()
			d.setState(StateStopped)
			return
		case <-t.C:
			if f, ok := d.Check(clock.Now()); ok {
				handler(f)
			}
		}
	}
}

// Stats returns a snapshot of the detector counters.
func (d *Detector) Stats() Stats {
	n := d.c.Count()
	lengths := make([]int, 0, len(d.lengths))
	for l := range d.lengths {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)

	return Stats{
		State:   d.State().String(),
		Frames:  d.frames.Load(),
		Noise:   d.noise.Load(),
		Dropped: d.c.Dropped(),
		Pending: n,
		Lengths: lengths,
	}
}
