// Package keyfile reads and writes captured frames in the Wiegand key file format.
//
//	Filetype: Flipper Wiegand Key File
//	Version: 1
//	Protocol: RAW
//	Bits: 4
//	RAW_Data: D1 0 64 D0 100 164 D1 200 264 D0 300 364
//
// Each RAW_Data entry is the bit (line) followed by the falling and rising edge of
// its pulse in ticks, relative to the first falling edge.
package keyfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"wgscan/pkg/frame"
	"wgscan/pkg/tick"
)

const (
	// Filetype is the value of the Filetype header.
	Filetype = "Flipper Wiegand Key File"
	// Version is the supported file version.
	Version = 1
	// Protocol is the only supported protocol.
	Protocol = "RAW"
)

const (
	keyFiletype = "Filetype"
	keyVersion  = "Version"
	keyProtocol = "Protocol"
	keyBits     = "Bits"
	keyRawData  = "RAW_Data"
)

var (
	// ErrInvalidFile is returned for any content that is not a valid key file.
	ErrInvalidFile = errors.New("invalid key file")
	// ErrEmptyFrame is returned when encoding a frame without bits.
	ErrEmptyFrame = errors.New("frame has no bits")
)

// Encode writes f in key file format.
func Encode(w io.Writer, f *frame.Frame) error {
	if f.Len() == 0 {
		return ErrEmptyFrame
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s: %s\n", keyFiletype, Filetype)
	fmt.Fprintf(bw, "%s: %d\n", keyVersion, Version)
	fmt.Fprintf(bw, "%s: %s\n", keyProtocol, Protocol)
	fmt.Fprintf(bw, "%s: %d\n", keyBits, f.Len())
	fmt.Fprintf(bw, "%s:", keyRawData)
	for i := 0; i < f.Len(); i++ {
		d := 0
		if f.Bits[i] {
			d = 1
		}
		fmt.Fprintf(bw, " D%d %d %d", d, f.FallDelta(i), f.RiseDelta(i))
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// Decode reads a frame in key file format. The timestamps of the returned frame
// are based at zero. Anything malformed is rejected, a partial frame is never
// returned.
func Decode(r io.Reader) (frame.Frame, error) {
	var (
		f        frame.Frame
		bits     = -1
		seen     = map[string]bool{}
		scanner  = bufio.NewScanner(r)
		lineNo   = 0
		finished = false
	)

	invalid := func(format string, a ...interface{}) (frame.Frame, error) {
		return frame.Frame{}, fmt.Errorf("%w: line %d: %s", ErrInvalidFile, lineNo, fmt.Sprintf(format, a...))
	}

	for !finished && scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return invalid("missing ':'")
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		seen[key] = true

		switch key {
		case keyFiletype:
			if value != Filetype {
				return invalid("unsupported filetype %q", value)
			}
		case keyVersion:
			if v, err := strconv.Atoi(value); err != nil || v != Version {
				return invalid("unsupported version %q", value)
			}
		case keyProtocol:
			if value != Protocol {
				return invalid("unsupported protocol %q", value)
			}
		case keyBits:
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 || n > frame.Capacity {
				return invalid("bad bit count %q", value)
			}
			bits = n
		case keyRawData:
			if bits < 0 {
				return invalid("%s before %s", keyRawData, keyBits)
			}
			if err := parseRaw(&f, value); err != nil {
				return invalid("%v", err)
			}
			if f.Len() != bits {
				return invalid("%d bits announced, %d found", bits, f.Len())
			}
			// RAW_Data is the last line, whatever follows is ignored
			finished = true
		}
	}
	if err := scanner.Err(); err != nil {
		return frame.Frame{}, err
	}

	for _, k := range []string{keyFiletype, keyVersion, keyProtocol, keyBits, keyRawData} {
		if !seen[k] {
			return frame.Frame{}, fmt.Errorf("%w: missing %s", ErrInvalidFile, k)
		}
	}
	return f, nil
}

// parseRaw parses the RAW_Data value into f.
func parseRaw(f *frame.Frame, value string) error {
	fields := strings.Fields(value)
	if len(fields)%3 != 0 {
		return fmt.Errorf("%d tokens do not form complete entries", len(fields))
	}

	var prevRise uint64
	for i := 0; i < len(fields); i += 3 {
		var bit bool
		switch fields[i] {
		case "D0":
		case "D1":
			bit = true
		default:
			return fmt.Errorf("bad line %q in entry %d", fields[i], i/3)
		}

		fall, err := strconv.ParseUint(fields[i+1], 10, 32)
		if err != nil {
			return fmt.Errorf("bad falling edge %q in entry %d", fields[i+1], i/3)
		}
		rise, err := strconv.ParseUint(fields[i+2], 10, 32)
		if err != nil {
			return fmt.Errorf("bad rising edge %q in entry %d", fields[i+2], i/3)
		}

		// deltas are relative to the first fall, so a capture is always ordered
		if rise < fall {
			return fmt.Errorf("rising edge %d before falling edge %d in entry %d", rise, fall, i/3)
		}
		if i > 0 && fall < prevRise {
			return fmt.Errorf("falling edge %d before previous rising edge %d in entry %d", fall, prevRise, i/3)
		}
		prevRise = rise

		if !f.Append(bit, tick.Ticks(fall), tick.Ticks(rise)) {
			return fmt.Errorf("more than %d entries", frame.Capacity)
		}
	}
	return nil
}
