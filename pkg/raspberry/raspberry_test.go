package raspberry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/gpiod"
	"wgscan/pkg/port"
	"wgscan/pkg/tick"
)

func TestToEvent(t *testing.T) {
	ts := 1500 * time.Microsecond

	ev, ok := toEvent(gpiod.LineEvent{Offset: 17, Timestamp: ts, Type: gpiod.LineEventFallingEdge}, 17, 18)
	require.True(t, ok)
	assert.Equal(t, port.Event{Line: port.D0, Type: port.FallingEdge, Tick: 1500 * tick.PerMicrosecond}, ev)

	ev, ok = toEvent(gpiod.LineEvent{Offset: 18, Timestamp: ts, Type: gpiod.LineEventRisingEdge}, 17, 18)
	require.True(t, ok)
	assert.Equal(t, port.D1, ev.Line)
	assert.Equal(t, port.RisingEdge, ev.Type)

	_, ok = toEvent(gpiod.LineEvent{Offset: 4, Timestamp: ts, Type: gpiod.LineEventRisingEdge}, 17, 18)
	assert.False(t, ok)
}

func TestInvalidParams(t *testing.T) {
	c := &Chip{}

	_, err := c.Watch(17, 17, "none", func(port.Event) {})
	assert.ErrorIs(t, err, ErrInvalidParam)
	_, err = c.Watch(-1, 18, "none", func(port.Event) {})
	assert.ErrorIs(t, err, ErrInvalidParam)
	_, err = c.Watch(17, 18, "sideways", func(port.Event) {})
	assert.ErrorIs(t, err, ErrInvalidParam)
	_, err = c.Output(18, 18)
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestSignalDisabled(t *testing.T) {
	s, err := OpenSignal(-1, -1)
	require.NoError(t, err)

	s.Blink(time.Millisecond)
	s.Beep(time.Millisecond)
	assert.NoError(t, s.Close())
}
