package wiegand

import (
	"fmt"
	"strings"

	"wgscan/pkg/frame"
	"wgscan/pkg/port"
)

// DecodeFrame decodes the valid bits of f.
func DecodeFrame(f *frame.Frame) Record {
	return Decode(f.BitSlice())
}

// Render returns the display text for a captured frame: the raw bits wrapped
// every frame.WrapWidth bits, the pulse timing of each bit and the decoded fields.
func Render(f *frame.Frame) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d bits\n", f.Len())
	b.WriteString(f.Wrapped(frame.WrapWidth))
	b.WriteString("\n\n")

	for i := 0; i < f.Len(); i++ {
		fmt.Fprintf(&b, "%2d %s pulse %dus", i, port.LineOf(f.Bits[i]), f.PulseWidth(i).Microseconds())
		if p, ok := f.Period(i); ok {
			fmt.Fprintf(&b, " period %dus", p.Microseconds())
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	r := DecodeFrame(f)
	fmt.Fprintf(&b, "Format: %s\n", r.Format())
	b.WriteString(r.Summary())
	return b.String()
}
