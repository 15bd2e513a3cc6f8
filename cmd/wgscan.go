package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"wgscan/pkg/app"
	"wgscan/pkg/app/config"

	"github.com/urfave/cli/v2"
	"github.com/womat/debug"
)

const defaultConfigFile = "/opt/womat/config/" + app.MODULE + ".yaml"

func main() {
	exitCode := 1
	defer func() {
		os.Exit(exitCode)
	}()

	// cfg holds the application configuration
	cfg := config.NewConfig()

	cliApp := &cli.App{
		Name:    app.MODULE,
		Usage:   "Wiegand badge reader scanner",
		Version: app.VERSION,
		Description: "Capture the frames of a Wiegand badge reader connected to two gpio lines," +
			"\n decode the card or key data, save the raw timing as key file and publish it to mqtt." +
			"\n Saved key files can be decoded offline and replayed on the data lines.",
		UsageText: "wgscan [--config <file>] [--log standard|debug|trace] [scan|decode|replay]" +
			"\n\nEXAMPLE:" +
			"\n\tstart scanning and use the configuration file wgscan.yaml" +
			"\n\t\twgscan --config /opt/womat/wgscan.yaml scan" +
			"\n\tshow the content of a key file" +
			"\n\t\twgscan decode /opt/womat/data/wiegand/front_door.wgn",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Destination: &cfg.Flag.ConfigFile, Value: defaultConfigFile, Usage: "load configuration from `FILE`"},
			&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Destination: &cfg.Flag.LogLevel, Value: "standard", Usage: "`LEVEL` defines the log level (standard|debug|trace)"},
		},
		Commands: []*cli.Command{
			{
				Name:   "scan",
				Usage:  "capture and decode frames until interrupted (default)",
				Action: func(ctx *cli.Context) error { return scan(cfg) },
			},
			{
				Name:      "decode",
				Usage:     "decode a key file",
				ArgsUsage: "FILE",
				Action: func(ctx *cli.Context) error {
					if ctx.NArg() != 1 {
						return cli.Exit("decode expects exactly one key file", 2)
					}
					s, err := app.DecodeFile(ctx.Args().First())
					if err != nil {
						return err
					}
					fmt.Println(s)
					return nil
				},
			},
			{
				Name:      "replay",
				Usage:     "replay a key file on the data lines",
				ArgsUsage: "FILE",
				Action: func(ctx *cli.Context) error {
					if ctx.NArg() != 1 {
						return cli.Exit("replay expects exactly one key file", 2)
					}
					if err := cfg.LoadConfig(); err != nil {
						return err
					}
					debug.SetDebug(cfg.Debug.File, cfg.Debug.Flag)

					c, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
					defer cancel()
					return app.ReplayFile(c, cfg, ctx.Args().First())
				},
			},
		},
		Action: func(ctx *cli.Context) error {
			return scan(cfg)
		},
	}

	// we expect to have more command line flags in the future - sort them
	sort.Sort(cli.FlagsByName(cliApp.Flags))
	sort.Sort(cli.CommandsByName(cliApp.Commands))

	err := cliApp.Run(os.Args)
	if err != nil {
		debug.FatalLog.Print(err)
		exitCode = 1
		return
	}

	exitCode = 0
	return
}

// scan runs the scanner until an os.Interrupt or SIGTERM arrives.
func scan(cfg *config.Config) error {
	if err := cfg.LoadConfig(); err != nil {
		return err
	}

	debug.SetDebug(cfg.Debug.File, cfg.Debug.Flag)
	defer func() {
		debug.InfoLog.Printf("closing debug file %s", cfg.Debug.FileString)
		_ = cfg.Debug.File.Close()
	}()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		debug.InfoLog.Printf("closing app %s", app.Version())
		_ = a.Close()
	}()

	debug.InfoLog.Printf("starting app %s", app.Version())
	if err = a.Run(); err != nil {
		return err
	}

	// capture exit signals to ensure resources are released on exit.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	// wait for am os.Interrupt signal (CTRL C)
	sig := <-quit
	debug.InfoLog.Printf("Got %s signal. Aborting...", sig)

	return nil
}
