package app

import (
	"errors"
	"os"

	"wgscan/pkg/keyfile"
	"wgscan/pkg/wiegand"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// keyFileResp is the web response of a single key file.
type keyFileResp struct {
	Name   string         `json:"name"`
	Bits   int            `json:"bits"`
	Raw    string         `json:"raw"`
	Format string         `json:"format"`
	Record wiegand.Record `json:"record"`
	Text   string         `json:"text"`
}

// runWebServer starts the applications web server and listens for web requests.
// It blocks until the server stops, so App.Run calls it in its own goroutine.
func (app *App) runWebServer() {
	err := app.web.Listen(app.urlParsed.Host)
	debug.ErrorLog.Print(err)
}

// HandleData returns the last decoded frames, newest first.
func (app *App) HandleData() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request data")

		return ctx.JSON(app.reads.list())
	}
}

// HandleStats returns the state and the counters of the frame detector.
func (app *App) HandleStats() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request stats")

		s := app.detector.Stats()
		return ctx.JSON(fiber.Map{
			"state":   s.State,
			"frames":  s.Frames,
			"noise":   s.Noise,
			"dropped": s.Dropped,
			"pending": s.Pending,
			"lengths": s.Lengths,
		})
	}
}

// HandleKeyFiles lists the names of the saved key files.
func (app *App) HandleKeyFiles() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request keyfiles")

		l, err := app.store.List()
		if err != nil {
			debug.ErrorLog.Printf("can't list key files: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return ctx.JSON(l)
	}
}

// HandleKeyFile loads and decodes a saved key file.
func (app *App) HandleKeyFile() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		name := ctx.Params("name")
		debug.InfoLog.Printf("web request keyfile %v", name)

		f, err := app.store.Load(name)
		switch {
		case errors.Is(err, keyfile.ErrInvalidName):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, os.ErrNotExist):
			return fiber.NewError(fiber.StatusNotFound, "key file not found")
		case errors.Is(err, keyfile.ErrInvalidFile):
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		r := wiegand.DecodeFrame(&f)
		return ctx.JSON(keyFileResp{
			Name:   name,
			Bits:   f.Len(),
			Raw:    f.String(),
			Format: r.Format(),
			Record: r,
			Text:   wiegand.Render(&f),
		})
	}
}
