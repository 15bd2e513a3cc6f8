package wiegand

import (
	"strings"
	"testing"

	"wgscan/pkg/frame"
	"wgscan/pkg/tick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bits parses a string of 0 and 1, other characters are ignored.
func bits(s string) []bool {
	var b []bool
	for _, c := range s {
		switch c {
		case '0':
			b = append(b, false)
		case '1':
			b = append(b, true)
		}
	}
	return b
}

// put writes v into b[from..from+width-1], most significant bit first.
func put(b []bool, from, width int, v uint64) {
	for i := 0; i < width; i++ {
		b[from+i] = v&(1<<uint(width-1-i)) != 0
	}
}

func TestKeypad8(t *testing.T) {
	r := Decode(bits("1010 0101"))
	k, ok := r.(*Keypad)
	require.True(t, ok)

	assert.Equal(t, uint8(10), k.Code)
	assert.Equal(t, "Escape", k.Key)
	assert.Equal(t, []bool{true, true, true, true}, k.Checks)
	assert.True(t, k.Valid())
	assert.Contains(t, k.Summary(), "Button: Escape (10)")
	assert.Equal(t, 4, strings.Count(k.Summary(), ": OK"))
}

func TestKeypadChecksFail(t *testing.T) {
	k := Decode(bits("0111 1100")).(*Keypad)
	assert.Equal(t, "7", k.Key)
	assert.Equal(t, []bool{true, false, true, true}, k.Checks)
	assert.False(t, k.Valid())
	assert.Contains(t, k.Summary(), "Check 1/5: ERROR")
}

func TestKeypad4(t *testing.T) {
	tests := []struct {
		in  string
		key string
	}{
		{"0000", "0"},
		{"1001", "9"},
		{"1011", "Enter"},
		{"1111", "?"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k := Decode(bits(tt.in)).(*Keypad)
			assert.Equal(t, tt.key, k.Key)
			assert.Nil(t, k.Checks)
			assert.Equal(t, "Keypad4", k.Format())
		})
	}
}

func TestRaw24(t *testing.T) {
	b := make([]bool, 24)
	put(b, 0, 8, 0xAA)
	put(b, 8, 16, 0x00FF)

	r := Decode(b).(*Raw24)
	assert.Equal(t, uint8(0xAA), r.Facility)
	assert.Equal(t, uint16(0xFF), r.Card)
	assert.Equal(t, "FC: 0xAA (170)\nCard: 0xFF (255)", r.Summary())
}

func TestH10301(t *testing.T) {
	b := make([]bool, 26)
	put(b, 1, 8, 123)
	put(b, 9, 16, 45678)
	// fix up the parity bits
	b[0] = !Even.Check(b, 1, 12)
	b[25] = !Odd.Check(b, 13, 24)

	r := Decode(b).(*H10301)
	assert.Equal(t, uint8(123), r.Facility)
	assert.Equal(t, uint16(45678), r.Card)
	assert.True(t, r.EvenParity)
	assert.True(t, r.OddParity)
	assert.True(t, r.Valid())
	assert.Contains(t, r.Summary(), "Even Parity: OK")
	assert.Contains(t, r.Summary(), "Odd Parity: OK")

	b[5] = !b[5]
	r = Decode(b).(*H10301)
	assert.False(t, r.EvenParity)
	assert.True(t, r.OddParity)
	assert.Contains(t, r.Summary(), "Even Parity: ERROR")
}

func TestH10301EvenParityBitSet(t *testing.T) {
	// bit 0 set, bits 1..12 hold an odd number of ones
	b := bits("1 1110000 0000 00000000000000")
	require.Len(t, b, 26)

	r := Decode(b).(*H10301)
	assert.True(t, r.EvenParity)
	assert.Contains(t, r.Summary(), "Even Parity: OK")
}

func TestH10301ParityExhaustive(t *testing.T) {
	// walk a set of patterns through both halves
	for v := uint64(0); v < 1<<13; v += 37 {
		b := make([]bool, 26)
		put(b, 0, 13, v)
		put(b, 13, 13, v^0x1555)

		ones := func(from, to int) int {
			n := 0
			for _, x := range b[from : to+1] {
				if x {
					n++
				}
			}
			return n
		}

		r := Decode(b).(*H10301)
		assert.Equal(t, ones(0, 12)%2 == 0, r.EvenParity, "pattern %b", v)
		assert.Equal(t, ones(13, 25)%2 == 1, r.OddParity, "pattern %b", v)
	}
}

func TestH10306(t *testing.T) {
	b := make([]bool, 34)
	put(b, 1, 16, 0xBEEF)
	put(b, 17, 16, 4242)
	b[0] = !Even.Check(b, 1, 16)
	b[33] = !Odd.Check(b, 17, 32)

	r := Decode(b).(*H10306)
	assert.Equal(t, uint16(0xBEEF), r.Facility)
	assert.Equal(t, uint16(4242), r.Card)
	assert.True(t, r.Valid())
}

func TestCorporate35(t *testing.T) {
	b := make([]bool, 35)
	put(b, 2, 12, 0xABC)
	put(b, 14, 20, 0xFFFFF)

	r := Decode(b).(*Corporate35)
	assert.Equal(t, uint16(0xABC), r.Company)
	assert.Equal(t, uint32(0xFFFFF), r.Card)
	assert.Equal(t, "CC: 0xABC (2748)\nCard: 0xFFFFF (1048575)", r.Summary())
}

func TestKeyscan36(t *testing.T) {
	b := make([]bool, 36)
	put(b, 1, 10, 0x3FF)
	put(b, 11, 8, 0x12)
	put(b, 19, 16, 0xCAFE)

	r := Decode(b).(*Keyscan36)
	assert.Equal(t, uint16(0x3FF), r.OEM)
	assert.Equal(t, uint8(0x12), r.Facility)
	assert.Equal(t, uint16(0xCAFE), r.Card)
}

func TestH10304(t *testing.T) {
	b := make([]bool, 37)
	put(b, 1, 16, 1000)
	put(b, 17, 19, 500000)
	b[0] = !Even.Check(b, 1, 18)
	b[36] = !Odd.Check(b, 18, 35)

	r := Decode(b).(*H10304)
	assert.Equal(t, uint16(1000), r.Facility)
	assert.Equal(t, uint32(500000), r.Card)
	assert.True(t, r.Valid())
}

func TestCorporate48(t *testing.T) {
	b := make([]bool, 48)
	put(b, 2, 22, 0x3FFFFF)
	put(b, 24, 23, 0x123456)
	b[47] = true

	r := Decode(b).(*Corporate48)
	assert.Equal(t, uint32(0x3FFFFF), r.Company)
	assert.Equal(t, uint32(0x123456), r.Card)
	assert.Equal(t, [3]bool{false, false, true}, r.ParityBits)
	assert.Contains(t, r.Summary(), "not checked")
}

func TestUnknown(t *testing.T) {
	for _, n := range []int{0, 1, 32, 40} {
		b := make([]bool, n)
		if n > 0 {
			b[0] = true
		}
		r := Decode(b)
		u, ok := r.(*Unknown)
		require.True(t, ok, "length %d", n)
		assert.Equal(t, n, u.Bits())
		assert.Len(t, u.Raw, n)
	}
}

func TestDecodeIsPure(t *testing.T) {
	b := bits("10110011100011110000111001")
	in := append([]bool(nil), b...)

	assert.Equal(t, Decode(b), Decode(b))
	assert.Equal(t, in, b)
}

func TestParityOutOfRange(t *testing.T) {
	assert.False(t, Even.Check(bits("00"), 0, 2))
	assert.False(t, Odd.Check(bits("1"), -1, 0))
	assert.False(t, Even.Check(nil, 0, -1))
}

func TestRender(t *testing.T) {
	b := make([]bool, 24)
	put(b, 0, 8, 0xAA)
	put(b, 8, 16, 0x00FF)

	var f frame.Frame
	for i, bit := range b {
		fall := tick.Ticks(i * 2 * tick.PerMillisecond)
		f.Append(bit, fall, fall+50*tick.PerMicrosecond)
	}

	out := Render(&f)
	lines := strings.Split(out, "\n")
	assert.Equal(t, "24 bits", lines[0])
	assert.Equal(t, "1010101000000000111111", lines[1])
	assert.Equal(t, "11", lines[2])
	assert.Contains(t, out, " 0 D1 pulse 50us period 2000us")
	assert.Contains(t, out, "23 D1 pulse 50us\n")
	assert.Contains(t, out, "Format: 24bit\nFC: 0xAA (170)\nCard: 0xFF (255)")
}
