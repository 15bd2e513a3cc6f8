// Package port holds the definition of the two Wiegand data lines and their edge events
package port

import "wgscan/pkg/tick"

// Line identifies one of the two Wiegand data lines.
type Line int

const (
	// D0 carries the pulses of logical 0 bits.
	D0 Line = iota
	// D1 carries the pulses of logical 1 bits.
	D1
)

// Bit returns the logical bit value a pulse on the line stands for.
func (l Line) Bit() bool {
	return l == D1
}

// LineOf returns the line that carries pulses of the given bit value.
func LineOf(bit bool) Line {
	if bit {
		return D1
	}
	return D0
}

func (l Line) String() string {
	switch l {
	case D0:
		return "D0"
	case D1:
		return "D1"
	default:
		return "D?"
	}
}

// EventType indicates the type of change to the line level.
//
// Wiegand lines idle high, so a falling edge starts a pulse and the
// following rising edge ends it.
type EventType int

const (
	_ EventType = iota
	// RisingEdge indicates a low to high transition.
	RisingEdge
	// FallingEdge indicates a high to low transition.
	FallingEdge
)

func (t EventType) String() string {
	switch t {
	case RisingEdge:
		return "rising"
	case FallingEdge:
		return "falling"
	default:
		return "unknown"
	}
}

// Event is a single edge seen on one of the data lines.
type Event struct {
	// Line is the data line the edge was detected on.
	Line Line
	// Type is the type of state change.
	Type EventType
	// Tick is the free-running counter value at the time of the edge.
	Tick tick.Ticks
}
