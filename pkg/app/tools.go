package app

import (
	"context"

	"wgscan/pkg/app/config"
	"wgscan/pkg/keyfile"
	"wgscan/pkg/raspberry"
	"wgscan/pkg/replay"
	"wgscan/pkg/wiegand"

	"github.com/womat/debug"
)

// DecodeFile loads the key file at path and returns the decoded frame as text.
func DecodeFile(path string) (string, error) {
	f, err := keyfile.LoadFile(path)
	if err != nil {
		return "", err
	}
	return wiegand.Render(&f), nil
}

// ReplayFile plays the key file at path on the data lines of cfg.
// The data lines are driven open drain, so the reader must be disconnected or
// have open collector outputs.
func ReplayFile(ctx context.Context, cfg *config.Config, path string) error {
	f, err := keyfile.LoadFile(path)
	if err != nil {
		return err
	}

	chip, err := raspberry.Open(cfg.Chip)
	if err != nil {
		debug.ErrorLog.Printf("can't open gpio chip %v: %v", cfg.Chip, err)
		return err
	}
	defer func() { _ = chip.Close() }()

	out, err := chip.Output(cfg.D0, cfg.D1)
	if err != nil {
		debug.ErrorLog.Printf("can't request data lines as output: %v", err)
		return err
	}
	defer func() { _ = out.Close() }()

	debug.InfoLog.Printf("replaying %d bit frame from %v", f.Len(), path)
	debug.DebugLog.Printf("frame:\n%s", wiegand.Render(&f))

	p := replay.Player{Driver: out}
	return p.Replay(ctx, &f)
}
