package wiegand

import (
	"fmt"
	"strings"
)

// keyNames are the keypad codes above 9.
var keyNames = map[uint8]string{
	10: "Escape",
	11: "Enter",
}

// Keypad is a key press sent by a Wiegand keypad, 4 bits per key.
// The 8 bit variant repeats the key code inverted in the second nibble.
type Keypad struct {
	Length int    `json:"length"`
	Code   uint8  `json:"code"`
	Key    string `json:"key"`
	// Checks holds the result of comparing bit i with the inverted bit i+4 (8 bit only).
	Checks []bool `json:"checks,omitempty"`
}

func decodeKeypad(bits []bool) *Keypad {
	k := &Keypad{Length: len(bits), Code: uint8(field(bits, 0, 3))}

	switch {
	case k.Code <= 9:
		k.Key = fmt.Sprintf("%d", k.Code)
	case keyNames[k.Code] != "":
		k.Key = keyNames[k.Code]
	default:
		k.Key = "?"
	}

	if len(bits) == 8 {
		k.Checks = make([]bool, 4)
		for i := range k.Checks {
			k.Checks[i] = bits[i] != bits[i+4]
		}
	}
	return k
}

// Valid reports whether all complement checks passed.
func (k *Keypad) Valid() bool {
	for _, ok := range k.Checks {
		if !ok {
			return false
		}
	}
	return true
}

func (k *Keypad) Format() string { return fmt.Sprintf("Keypad%d", k.Length) }
func (k *Keypad) Bits() int      { return k.Length }
func (*Keypad) record()          {}

func (k *Keypad) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Button: %s (%d)", k.Key, k.Code)
	for i, ok := range k.Checks {
		fmt.Fprintf(&b, "\nCheck %d/%d: %s", i, i+4, status(ok))
	}
	return b.String()
}

// Raw24 is a 24 bit frame without parity.
type Raw24 struct {
	Facility uint8  `json:"facility"`
	Card     uint16 `json:"card"`
}

func (*Raw24) Format() string { return "24bit" }
func (*Raw24) Bits() int      { return 24 }
func (*Raw24) record()        {}

func (r *Raw24) Summary() string {
	return fmt.Sprintf("FC: %s\nCard: %s", hexDec(uint64(r.Facility)), hexDec(uint64(r.Card)))
}

// H10301 is the 26 bit standard format.
type H10301 struct {
	Facility   uint8  `json:"facility"`
	Card       uint16 `json:"card"`
	EvenParity bool   `json:"even_parity"`
	OddParity  bool   `json:"odd_parity"`
}

func (*H10301) Format() string { return "H10301" }
func (*H10301) Bits() int      { return 26 }
func (*H10301) record()        {}

// Valid reports whether both parity checks passed.
func (r *H10301) Valid() bool { return r.EvenParity && r.OddParity }

func (r *H10301) Summary() string {
	return fmt.Sprintf("FC: %s\nCard: %s\nEven Parity: %s\nOdd Parity: %s",
		hexDec(uint64(r.Facility)), hexDec(uint64(r.Card)), status(r.EvenParity), status(r.OddParity))
}

// H10306 is the 34 bit format with a 16 bit facility code.
type H10306 struct {
	Facility   uint16 `json:"facility"`
	Card       uint16 `json:"card"`
	EvenParity bool   `json:"even_parity"`
	OddParity  bool   `json:"odd_parity"`
}

func (*H10306) Format() string { return "H10306" }
func (*H10306) Bits() int      { return 34 }
func (*H10306) record()        {}

// Valid reports whether both parity checks passed.
func (r *H10306) Valid() bool { return r.EvenParity && r.OddParity }

func (r *H10306) Summary() string {
	return fmt.Sprintf("FC: %s\nCard: %s\nEven Parity: %s\nOdd Parity: %s",
		hexDec(uint64(r.Facility)), hexDec(uint64(r.Card)), status(r.EvenParity), status(r.OddParity))
}

// Corporate35 is the HID Corporate 1000 35 bit format.
type Corporate35 struct {
	Company uint16 `json:"company"`
	Card    uint32 `json:"card"`
}

func (*Corporate35) Format() string { return "C1k35s" }
func (*Corporate35) Bits() int      { return 35 }
func (*Corporate35) record()        {}

func (r *Corporate35) Summary() string {
	return fmt.Sprintf("CC: %s\nCard: %s", hexDec(uint64(r.Company)), hexDec(uint64(r.Card)))
}

// Keyscan36 is the 36 bit Keyscan format.
type Keyscan36 struct {
	OEM      uint16 `json:"oem"`
	Facility uint8  `json:"facility"`
	Card     uint16 `json:"card"`
}

func (*Keyscan36) Format() string { return "KS36" }
func (*Keyscan36) Bits() int      { return 36 }
func (*Keyscan36) record()        {}

func (r *Keyscan36) Summary() string {
	return fmt.Sprintf("OEM: %s\nFC: %s\nCard: %s",
		hexDec(uint64(r.OEM)), hexDec(uint64(r.Facility)), hexDec(uint64(r.Card)))
}

// H10304 is the 37 bit format with a 16 bit facility code.
type H10304 struct {
	Facility   uint16 `json:"facility"`
	Card       uint32 `json:"card"`
	EvenParity bool   `json:"even_parity"`
	OddParity  bool   `json:"odd_parity"`
}

func (*H10304) Format() string { return "H10304" }
func (*H10304) Bits() int      { return 37 }
func (*H10304) record()        {}

// Valid reports whether both parity checks passed.
func (r *H10304) Valid() bool { return r.EvenParity && r.OddParity }

func (r *H10304) Summary() string {
	return fmt.Sprintf("FC: %s\nCard: %s\nEven Parity: %s\nOdd Parity: %s",
		hexDec(uint64(r.Facility)), hexDec(uint64(r.Card)), status(r.EvenParity), status(r.OddParity))
}

// Corporate48 is the HID Corporate 1000 48 bit format (H2004064).
//
// The three parity bits (0, 1 and 47) are kept but not validated.
type Corporate48 struct {
	Company    uint32  `json:"company"`
	Card       uint32  `json:"card"`
	ParityBits [3]bool `json:"parity_bits"`
}

func (*Corporate48) Format() string { return "C1k48s" }
func (*Corporate48) Bits() int      { return 48 }
func (*Corporate48) record()        {}

func (r *Corporate48) Summary() string {
	return fmt.Sprintf("CC: %s\nCard: %s\nParity: not checked",
		hexDec(uint64(r.Company)), hexDec(uint64(r.Card)))
}

// Unknown is a frame of a length no format is known for.
type Unknown struct {
	Length int    `json:"length"`
	Raw    string `json:"raw"`
}

func (*Unknown) Format() string { return "unknown" }
func (u *Unknown) Bits() int    { return u.Length }
func (*Unknown) record()        {}

func (u *Unknown) Summary() string {
	return fmt.Sprintf("Unknown %d bit format", u.Length)
}
