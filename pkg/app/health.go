package app

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// health is the /health response.
type health struct {
	// scanner
	State    string
	Frames   uint64
	Noise    uint64
	Dropped  uint64
	Pending  int
	KeyFiles int
	LastRead *time.Time `json:",omitempty"`

	// process
	NumGoroutines   int
	HeapAllocatedMB uint64
	SysMemoryMB     uint64
	Version         string
	ProgLang        string
	HostName        string
	Time            string
}

// HandleHealth returns data about the health of the scanner and the process.
// output example:
//
//	{"State":"idle","Frames":3,"Noise":1,"Dropped":0,"Pending":0,"KeyFiles":3,
//	 "LastRead":"2026-10-01T08:12:44+02:00","NumGoroutines":11,"HeapAllocatedMB":3,
//	 "SysMemoryMB":12,"Version":"1.0.10+20261001","ProgLang":"go1.23.0",...}
//
// KeyFiles is -1 if the key file directory can't be read.
func (app *App) HandleHealth() fiber.Handler {
	host, _ := os.Hostname()

	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request health")

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		s := app.detector.Stats()
		h := health{
			State:           s.State,
			Frames:          s.Frames,
			Noise:           s.Noise,
			Dropped:         s.Dropped,
			Pending:         s.Pending,
			KeyFiles:        -1,
			NumGoroutines:   runtime.NumGoroutine(),
			HeapAllocatedMB: m.Alloc / 1024 / 1024,
			SysMemoryMB:     m.Sys / 1024 / 1024,
			Version:         VERSION,
			ProgLang:        runtime.Version(),
			HostName:        host,
			Time:            time.Now().Format(time.RFC3339),
		}

		if names, err := app.store.List(); err != nil {
			debug.ErrorLog.Printf("can't list key files: %v", err)
		} else {
			h.KeyFiles = len(names)
		}
		if reads := app.reads.list(); len(reads) > 0 {
			h.LastRead = &reads[0].Time
		}

		ctx.Status(http.StatusOK)
		return ctx.JSON(h)
	}
}
