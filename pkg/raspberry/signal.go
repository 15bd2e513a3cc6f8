package raspberry

import (
	"sync"
	"time"

	"github.com/warthog618/gpio"
)

// Signal drives the LED and the beeper of a badge reader.
// Both inputs of the reader are active low.
type Signal struct {
	led    *gpio.Pin
	beeper *gpio.Pin
	// mapped is true if the gpio memory range is open.
	mapped bool
	wg     sync.WaitGroup
}

// OpenSignal maps the gpio memory from /dev/gpiomem and sets up the LED and beeper pins.
// The pin numbers are BCM GPIO numbers, a negative number disables the pin.
func OpenSignal(led, beeper int) (*Signal, error) {
	s := &Signal{}
	if led < 0 && beeper < 0 {
		return s, nil
	}

	if err := gpio.Open(); err != nil {
		return nil, err
	}
	s.mapped = true

	setup := func(n int) *gpio.Pin {
		if n < 0 {
			return nil
		}
		p := gpio.NewPin(n)
		p.High()
		p.Output()
		return p
	}
	s.led = setup(led)
	s.beeper = setup(beeper)
	return s, nil
}

// Blink turns the LED on for d.
func (s *Signal) Blink(d time.Duration) {
	s.pulse(s.led, d)
}

// Beep sounds the beeper for d.
func (s *Signal) Beep(d time.Duration) {
	s.pulse(s.beeper, d)
}

func (s *Signal) pulse(p *gpio.Pin, d time.Duration) {
	if p == nil {
		return
	}

	p.Low()
	s.wg.Add(1)
	time.AfterFunc(d, func() {
		defer s.wg.Done()
		p.High()
	})
}

// Close switches LED and beeper off and unmaps the gpio memory.
func (s *Signal) Close() error {
	s.wg.Wait()
	if !s.mapped {
		return nil
	}

	for _, p := range []*gpio.Pin{s.led, s.beeper} {
		if p != nil {
			p.High()
			p.Input()
		}
	}
	return gpio.Close()
}
