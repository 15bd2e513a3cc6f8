// Package wiegand decodes captured Wiegand bit sequences into card records.
//
// The card format is determined by the number of bits alone. Decoding never
// fails: parity mismatches are reported inside the record, unknown lengths give
// an Unknown record that only carries the raw bits.
package wiegand

import (
	"fmt"
	"strings"
)

// Record is the decoded content of one frame. The concrete type is one of
// *Keypad, *Raw24, *H10301, *H10306, *Corporate35, *Keyscan36, *H10304,
// *Corporate48 or *Unknown.
type Record interface {
	// Format returns the short name of the card format.
	Format() string
	// Bits returns the frame length.
	Bits() int
	// Summary returns the decoded fields as display text.
	Summary() string

	record()
}

// Decode interprets a captured bit sequence, bit 0 is the first bit transmitted.
func Decode(bits []bool) Record {
	switch len(bits) {
	case 4, 8:
		return decodeKeypad(bits)
	case 24:
		return &Raw24{
			Facility: uint8(field(bits, 0, 7)),
			Card:     uint16(field(bits, 8, 23)),
		}
	case 26:
		return &H10301{
			Facility:   uint8(field(bits, 1, 8)),
			Card:       uint16(field(bits, 9, 24)),
			EvenParity: Even.Check(bits, 0, 12),
			OddParity:  Odd.Check(bits, 13, 25),
		}
	case 34:
		return &H10306{
			Facility:   uint16(field(bits, 1, 16)),
			Card:       uint16(field(bits, 17, 32)),
			EvenParity: Even.Check(bits, 0, 16),
			OddParity:  Odd.Check(bits, 17, 33),
		}
	case 35:
		return &Corporate35{
			Company: uint16(field(bits, 2, 13)),
			Card:    uint32(field(bits, 14, 33)),
		}
	case 36:
		return &Keyscan36{
			OEM:      uint16(field(bits, 1, 10)),
			Facility: uint8(field(bits, 11, 18)),
			Card:     uint16(field(bits, 19, 34)),
		}
	case 37:
		return &H10304{
			Facility:   uint16(field(bits, 1, 16)),
			Card:       uint32(field(bits, 17, 35)),
			EvenParity: Even.Check(bits, 0, 18),
			OddParity:  Odd.Check(bits, 18, 36),
		}
	case 48:
		return &Corporate48{
			Company:    uint32(field(bits, 2, 23)),
			Card:       uint32(field(bits, 24, 46)),
			ParityBits: [3]bool{bits[0], bits[1], bits[47]},
		}
	default:
		return &Unknown{Length: len(bits), Raw: bitString(bits)}
	}
}

// field accumulates bits[from..to] (inclusive), most significant bit first.
func field(bits []bool, from, to int) uint64 {
	var v uint64
	for i := from; i <= to; i++ {
		v <<= 1
		if bits[i] {
			v |= 1
		}
	}
	return v
}

func bitString(bits []bool) string {
	var b strings.Builder
	for _, bit := range bits {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// hexDec renders a value as in "0xAA (170)".
func hexDec(v uint64) string {
	return fmt.Sprintf("0x%X (%d)", v, v)
}

func status(ok bool) string {
	if ok {
		return "OK"
	}
	return "ERROR"
}
