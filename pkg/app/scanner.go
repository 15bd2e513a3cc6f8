package app

import (
	"sync"
	"time"

	"wgscan/pkg/frame"
	"wgscan/pkg/wiegand"

	"github.com/womat/debug"
)

// Read is a decoded frame as published to mqtt and the web service.
type Read struct {
	Time    time.Time      `json:"time"`
	Bits    int            `json:"bits"`
	Raw     string         `json:"raw"`
	Format  string         `json:"format"`
	Valid   bool           `json:"valid"`
	Record  wiegand.Record `json:"record"`
	KeyFile string         `json:"keyfile,omitempty"`
}

// validator is implemented by the records of formats with parity or check bits.
type validator interface {
	Valid() bool
}

func newRead(t time.Time, f *frame.Frame) Read {
	r := wiegand.DecodeFrame(f)
	valid := true
	if v, ok := r.(validator); ok {
		valid = v.Valid()
	}

	return Read{
		Time:   t,
		Bits:   f.Len(),
		Raw:    f.String(),
		Format: r.Format(),
		Valid:  valid,
		Record: r,
	}
}

// handleFrame is called by the detector for every complete frame.
// It decodes the frame, saves it as key file, signals the result on the reader
// and publishes it.
func (app *App) handleFrame(f frame.Frame) {
	r := newRead(time.Now(), &f)
	debug.InfoLog.Printf("received %d bit frame, format %s, valid %v", r.Bits, r.Format, r.Valid)
	debug.DebugLog.Printf("frame:\n%s", wiegand.Render(&f))

	if app.config.AutoSave {
		name := app.store.NextName(r.Time)
		if p, err := app.store.Save(name, &f); err != nil {
			debug.ErrorLog.Printf("can't save key file %v: %v", name, err)
		} else {
			debug.DebugLog.Printf("saved key file %v", p)
			r.KeyFile = name
		}
	}

	app.reads.add(r)

	if r.Valid {
		app.signal.Blink(app.config.Signal.Blink)
	} else {
		app.signal.Beep(app.config.Signal.Blink)
	}

	if err := app.mqtt.Publish(app.config.MQTT.Topic, r); err != nil {
		debug.ErrorLog.Printf("can't publish frame: %v", err)
	}
}

// history keeps the last reads.
type history struct {
	sync.Mutex
	max   int
	reads []Read
}

func newHistory(max int) *history {
	return &history{max: max}
}

func (h *history) add(r Read) {
	h.Lock()
	defer h.Unlock()

	h.reads = append(h.reads, r)
	if len(h.reads) > h.max {
		h.reads = h.reads[len(h.reads)-h.max:]
	}
}

// list returns the reads, newest first.
func (h *history) list() []Read {
	h.Lock()
	defer h.Unlock()

	l := make([]Read, len(h.reads))
	for i, r := range h.reads {
		l[len(h.reads)-1-i] = r
	}
	return l
}
