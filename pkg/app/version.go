package app

import (
	"fmt"
	"strings"

	"wgscan/pkg/capture"
	"wgscan/pkg/keyfile"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// VERSION holds the version information. The first number is fixed, the
// second counts the years since 2026 and the third is the month of the year.
// The date after the + is always the first of that month.
//
// VERSION differs from semantic versioning as described in https://semver.org/
// but we keep the correct syntax.
const (
	VERSION = "1.0.10+20261001"
	MODULE  = "wgscan"
)

// HandleVersion is the get application version web handler.
// Besides the version it reports the key file format written and the frame
// lengths the scanner accepts by default.
func (app *App) HandleVersion() fiber.Handler {
	keyFile := fmt.Sprintf("%s v%d (%s)", keyfile.Filetype, keyfile.Version, keyfile.Protocol)

	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request version")

		return ctx.JSON(fiber.Map{
			"version":     VERSION,
			"description": MODULE,
			"about":       Version(),
			"keyfile":     keyFile,
			"lengths":     capture.DefaultLengths,
		})
	}
}

// Version is the get application version as string.
func Version() string {
	return strings.TrimSpace(MODULE + " V" + strings.Split(VERSION, "+")[0])
}
