package replay

import (
	"context"
	"errors"
	"testing"
	"time"

	"wgscan/pkg/frame"
	"wgscan/pkg/port"
	"wgscan/pkg/tick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	ops    []string
	failOn string
}

func (d *fakeDriver) op(s string) error {
	d.ops = append(d.ops, s)
	if s == d.failOn {
		return errors.New("line busy")
	}
	return nil
}

func (d *fakeDriver) Pull(l port.Line) error    { return d.op("pull " + l.String()) }
func (d *fakeDriver) Release(l port.Line) error { return d.op("release " + l.String()) }

const us = tick.PerMicrosecond

func TestPlan(t *testing.T) {
	var f frame.Frame
	// pulse 50us, gap 1950us
	f.Append(true, 0, 50*us)
	// pulse shorter than 1us, gap of exactly 5us
	f.Append(false, 2000*us, 2000*us+10)
	// pulse 40us, gap 0
	f.Append(true, 2000*us+10+5*us, 2000*us+10+45*us)
	f.Append(false, 2000*us+10+45*us, 2000*us+10+100*us)

	p := Plan(&f)
	require.Len(t, p, 4)

	assert.Equal(t, Pulse{Line: port.D1, Low: 50 * time.Microsecond, High: 1949 * time.Microsecond}, p[0])
	assert.Equal(t, Pulse{Line: port.D0, Low: time.Microsecond, High: 5 * time.Microsecond}, p[1])
	assert.Equal(t, Pulse{Line: port.D1, Low: 40 * time.Microsecond, High: time.Microsecond}, p[2])
	assert.Equal(t, Pulse{Line: port.D0, Low: 55 * time.Microsecond}, p[3])
}

func TestPlanGapNotCorrectedUpTo5(t *testing.T) {
	var f frame.Frame
	f.Append(true, 0, 10*us)
	f.Append(true, 15*us, 25*us)
	f.Append(true, 31*us, 41*us)

	p := Plan(&f)
	assert.Equal(t, 5*time.Microsecond, p[0].High)
	assert.Equal(t, 5*time.Microsecond, p[1].High)
}

func TestReplay(t *testing.T) {
	var f frame.Frame
	f.Append(true, 0, 50*us)
	f.Append(false, 2000*us, 2050*us)

	d := &fakeDriver{}
	var waits []time.Duration
	p := &Player{Driver: d, Wait: func(w time.Duration) { waits = append(waits, w) }}

	require.NoError(t, p.Replay(context.Background(), &f))
	assert.Equal(t, []string{
		"pull D1", "release D1",
		"pull D0", "release D0",
		"release D0", "release D1",
	}, d.ops)
	assert.Equal(t, []time.Duration{50 * time.Microsecond, 1949 * time.Microsecond, 50 * time.Microsecond}, waits)
}

func TestReplayCancelled(t *testing.T) {
	var f frame.Frame
	f.Append(true, 0, 50*us)
	f.Append(false, 2000*us, 2050*us)

	ctx, cancel := context.WithCancel(context.Background())
	d := &fakeDriver{}
	p := &Player{Driver: d, Wait: func(time.Duration) { cancel() }}

	err := p.Replay(ctx, &f)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"pull D1", "release D1", "release D0", "release D1"}, d.ops)
}

func TestReplayCancelledDuringLongGap(t *testing.T) {
	var f frame.Frame
	f.Append(true, 0, 50*us)
	f.Append(false, tick.FromDuration(time.Minute), tick.FromDuration(time.Minute)+50*us)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	d := &fakeDriver{}
	p := &Player{Driver: d, Wait: func(time.Duration) {}}

	start := time.Now()
	err := p.Replay(ctx, &f)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, []string{"pull D1", "release D1", "release D0", "release D1"}, d.ops)
}

func TestReplayDriverError(t *testing.T) {
	var f frame.Frame
	f.Append(false, 0, 50*us)

	d := &fakeDriver{failOn: "pull D0"}
	p := &Player{Driver: d, Wait: func(time.Duration) {}}

	err := p.Replay(context.Background(), &f)
	require.Error(t, err)
	assert.Equal(t, "line busy", err.Error())
	assert.Equal(t, []string{"pull D0", "release D0", "release D1"}, d.ops)
}

func TestBusy(t *testing.T) {
	for _, d := range []time.Duration{20 * time.Microsecond, 3 * time.Millisecond} {
		start := time.Now()
		Busy(d)
		assert.GreaterOrEqual(t, time.Since(start), d)
	}
}
