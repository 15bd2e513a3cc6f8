// Package frame is the fixed-capacity store of one captured Wiegand transmission
package frame

import (
	"strings"

	"wgscan/pkg/tick"
)

const (
	// Capacity is the maximum number of bits a frame can hold.
	Capacity = 64
	// WrapWidth is the number of bits per line of the raw bit dump.
	WrapWidth = 22
)

// Frame holds the captured bits and the timestamps of the edges that formed them.
//
// Bit i was transmitted as a pulse that started at Fall[i] and ended at Rise[i].
// Only the first Count entries are valid.
type Frame struct {
	Bits  [Capacity]bool
	Fall  [Capacity]tick.Ticks
	Rise  [Capacity]tick.Ticks
	Count int
}

// Reset empties the frame.
func (f *Frame) Reset() {
	*f = Frame{}
}

// Len returns the number of valid bits.
func (f *Frame) Len() int {
	return f.Count
}

// Full reports whether no further bit fits.
func (f *Frame) Full() bool {
	return f.Count >= Capacity
}

// Append adds a bit with its edge timestamps. It returns false if the frame is full.
func (f *Frame) Append(bit bool, fall, rise tick.Ticks) bool {
	if f.Full() {
		return false
	}
	f.Bits[f.Count] = bit
	f.Fall[f.Count] = fall
	f.Rise[f.Count] = rise
	f.Count++
	return true
}

// BitSlice returns a copy of the valid bits.
func (f *Frame) BitSlice() []bool {
	b := make([]bool, f.Count)
	copy(b, f.Bits[:f.Count])
	return b
}

// FallDelta returns the falling edge of bit i relative to the first falling edge.
func (f *Frame) FallDelta(i int) tick.Ticks {
	return tick.Since(f.Fall[i], f.Fall[0])
}

// RiseDelta returns the rising edge of bit i relative to the first falling edge.
func (f *Frame) RiseDelta(i int) tick.Ticks {
	return tick.Since(f.Rise[i], f.Fall[0])
}

// PulseWidth returns how long the line was held low for bit i.
func (f *Frame) PulseWidth(i int) tick.Ticks {
	return tick.Since(f.Rise[i], f.Fall[i])
}

// Period returns the time from the start of bit i to the start of bit i+1.
// The last bit has no period.
func (f *Frame) Period(i int) (tick.Ticks, bool) {
	if i+1 >= f.Count {
		return 0, false
	}
	return tick.Since(f.Fall[i+1], f.Fall[i]), true
}

// Equal reports whether both frames hold the same bits with the same relative timing.
// The absolute base of the timestamps is ignored.
func (f *Frame) Equal(o *Frame) bool {
	if f.Count != o.Count {
		return false
	}
	for i := 0; i < f.Count; i++ {
		if f.Bits[i] != o.Bits[i] || f.FallDelta(i) != o.FallDelta(i) || f.RiseDelta(i) != o.RiseDelta(i) {
			return false
		}
	}
	return true
}

// String returns the valid bits as a string of 0 and 1.
func (f Frame) String() string {
	var b strings.Builder
	b.Grow(f.Count)
	for _, bit := range f.Bits[:f.Count] {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Wrapped returns the bit string broken into lines of at most width bits.
func (f Frame) Wrapped(width int) string {
	if width <= 0 {
		width = WrapWidth
	}
	s := f.String()
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteByte('\n')
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}
