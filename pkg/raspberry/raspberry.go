// Package raspberry connects the Wiegand data lines of a gpio chip
package raspberry

import (
	"fmt"

	"github.com/warthog618/gpiod"
	"wgscan/pkg/port"
	"wgscan/pkg/tick"
)

const consumer = "wgscan"

var ErrInvalidParam = fmt.Errorf("invalid parameters")

// Chip represents a single GPIO chip that controls a set of lines.
type Chip struct {
	gpiodChip *gpiod.Chip
}

// Watcher delivers the edges of the D0 and D1 lines.
type Watcher struct {
	gpiodLines *gpiod.Lines
}

// Output drives the D0 and D1 lines as open drain outputs.
type Output struct {
	lines [2]*gpiod.Line
}

// Open opens the GPIO character device with the given name, e.g. gpiochip0.
func Open(name string) (*Chip, error) {
	c, err := gpiod.NewChip(name, gpiod.WithConsumer(consumer))
	if err != nil {
		return nil, err
	}
	return &Chip{gpiodChip: c}, nil
}

// Watch requests the D0 and D1 lines as inputs and calls handler for every edge on them.
// Both lines are requested together, so handler is never called concurrently.
// The edges carry the kernel timestamp converted to counter ticks.
// terminator is one of pullup, pulldown or none.
func (c *Chip) Watch(d0, d1 int, terminator string, handler func(port.Event)) (*Watcher, error) {
	if d0 < 0 || d1 < 0 || d0 == d1 || handler == nil {
		return nil, ErrInvalidParam
	}

	eventHandler := func(evt gpiod.LineEvent) {
		if ev, ok := toEvent(evt, d0, d1); ok {
			handler(ev)
		}
	}

	opts := []gpiod.LineReqOption{gpiod.WithEventHandler(eventHandler), gpiod.WithBothEdges, gpiod.AsInput}
	switch terminator {
	case "pullup":
		opts = append(opts, gpiod.WithPullUp)
	case "pulldown":
		opts = append(opts, gpiod.WithPullDown)
	case "none", "":
	default:
		return nil, ErrInvalidParam
	}

	l, err := c.gpiodChip.RequestLines([]int{d0, d1}, opts...)
	if err != nil {
		return nil, err
	}
	return &Watcher{gpiodLines: l}, nil
}

// toEvent converts a gpiod line event of line d0 or d1.
func toEvent(evt gpiod.LineEvent, d0, d1 int) (port.Event, bool) {
	ev := port.Event{Tick: tick.FromKernel(evt.Timestamp)}

	switch evt.Offset {
	case d0:
		ev.Line = port.D0
	case d1:
		ev.Line = port.D1
	default:
		return ev, false
	}

	switch evt.Type {
	case gpiod.LineEventFallingEdge:
		ev.Type = port.FallingEdge
	case gpiod.LineEventRisingEdge:
		ev.Type = port.RisingEdge
	default:
		return ev, false
	}
	return ev, true
}

// Output requests the D0 and D1 lines as open drain outputs, initially released.
func (c *Chip) Output(d0, d1 int) (*Output, error) {
	if d0 < 0 || d1 < 0 || d0 == d1 {
		return nil, ErrInvalidParam
	}

	o := &Output{}
	for i, offset := range []int{d0, d1} {
		l, err := c.gpiodChip.RequestLine(offset, gpiod.AsOutput(1), gpiod.AsOpenDrain)
		if err != nil {
			_ = o.Close()
			return nil, err
		}
		o.lines[i] = l
	}
	return o, nil
}

// Pull drives the line low.
func (o *Output) Pull(l port.Line) error {
	return o.set(l, 0)
}

// Release lets the line float high.
func (o *Output) Release(l port.Line) error {
	return o.set(l, 1)
}

func (o *Output) set(l port.Line, v int) error {
	if l != port.D0 && l != port.D1 {
		return ErrInvalidParam
	}
	return o.lines[l].SetValue(v)
}

// Close releases the lines.
func (o *Output) Close() error {
	var err error
	for _, l := range o.lines {
		if l == nil {
			continue
		}
		if e := l.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// Close releases the Chip.
//
// It does not release any lines which may be requested - they must be closed
// independently.
func (c *Chip) Close() error {
	return c.gpiodChip.Close()
}

// Close releases both lines, which returns them to high impedance inputs.
//
// Note that this includes waiting for any running event handler to return.
// As a consequence the Close must not be called from the context of the event
// handler - the Close should be called from a different goroutine.
func (w *Watcher) Close() error {
	return w.gpiodLines.Close()
}
