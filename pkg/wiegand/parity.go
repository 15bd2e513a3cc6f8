package wiegand

// Parity is the kind of a parity check.
type Parity bool

const (
	// Even parity: the number of set bits including the parity bit is even.
	Even Parity = true
	// Odd parity: the number of set bits including the parity bit is odd.
	Odd Parity = false
)

// Check reports whether bits[from..to] (inclusive, parity bit included) satisfy p.
// A range outside of bits never does.
func (p Parity) Check(bits []bool, from, to int) bool {
	if from < 0 || to >= len(bits) || from > to {
		return false
	}

	n := 0
	for _, b := range bits[from : to+1] {
		if b {
			n++
		}
	}

	if p == Even {
		return n%2 == 0
	}
	return n%2 == 1
}

func (p Parity) String() string {
	if p == Even {
		return "Even"
	}
	return "Odd"
}
