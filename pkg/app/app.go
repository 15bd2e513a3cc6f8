package app

import (
	"context"
	"net/url"

	"wgscan/pkg/app/config"
	"wgscan/pkg/capture"
	"wgscan/pkg/keyfile"
	"wgscan/pkg/mqtt"
	"wgscan/pkg/raspberry"
	"wgscan/pkg/tick"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// historySize is the number of reads kept for the web service.
const historySize = 16

// App is the main application struct.
// App is where the application is wired up.
type App struct {
	// web is the fiber web framework instance
	web *fiber.App

	// config is the application configuration
	config *config.Config

	// urlParsed contains the parsed Config.Url parameter
	// and makes it easier to get params out of e.g.
	// url: https://0.0.0.0:7844/?minTls=1.2&bodyLimit=50MB
	urlParsed *url.URL

	// mqtt is the handler to the mqtt broker
	mqtt *mqtt.Handler

	// chip is the gpio chip of the data lines
	chip *raspberry.Chip
	// watcher delivers the edges of the data lines to the capturer
	watcher *raspberry.Watcher
	// signal drives LED and beeper of the reader
	signal *raspberry.Signal

	// capturer records the edges, detector cuts them into frames
	capturer *capture.Capturer
	detector *capture.Detector

	// store keeps the captured frames as key files
	store *keyfile.Store
	// reads are the last decoded frames
	reads *history

	// cancel stops the detector, done is closed once it has stopped
	cancel context.CancelFunc
	done   chan struct{}
}

// New checks the Web server URL and initialize the main app structure
func New(config *config.Config) (*App, error) {
	u, err := url.Parse(config.Webserver.URL)
	if err != nil {
		debug.ErrorLog.Printf("Error parsing url %q: %s", config.Webserver.URL, err.Error())
		return &App{}, err
	}

	c := capture.NewCapturer()
	return &App{
		config:    config,
		urlParsed: u,

		web:  fiber.New(),
		mqtt: mqtt.New(),

		signal:   &raspberry.Signal{},
		capturer: c,
		detector: capture.NewDetector(c, capture.Options{
			Lengths:  config.Lengths,
			Timeout:  config.Timeout,
			Interval: config.Interval,
		}),
		store: keyfile.NewStore(config.KeyFiles),
		reads: newHistory(historySize),
	}, nil
}

// Run starts the application.
func (app *App) Run() error {
	if err := app.init(); err != nil {
		return err
	}

	go app.mqtt.Service()
	go app.runWebServer()

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.done = make(chan struct{})
	go func() {
		defer close(app.done)
		app.detector.Run(ctx, tick.Monotonic{}, app.handleFrame)
	}()

	debug.InfoLog.Printf("waiting for wiegand frames on %s D0=%d D1=%d", app.config.Chip, app.config.D0, app.config.D1)
	return nil
}

// init initializes the application.
func (app *App) init() (err error) {
	if app.chip, err = raspberry.Open(app.config.Chip); err != nil {
		debug.ErrorLog.Printf("can't open gpio chip %v: %v", app.config.Chip, err)
		return err
	}

	if app.watcher, err = app.chip.Watch(app.config.D0, app.config.D1, app.config.Terminator, app.capturer.OnEdge); err != nil {
		debug.ErrorLog.Printf("can't watch data lines: %v", err)
		return err
	}

	if app.signal, err = raspberry.OpenSignal(app.config.Signal.LED, app.config.Signal.Beeper); err != nil {
		debug.ErrorLog.Printf("can't open signal pins: %v", err)
		return err
	}

	if err = app.mqtt.Connect(app.config.MQTT.Connection, app.config.MQTT.ClientID); err != nil {
		debug.ErrorLog.Printf("can't open mqtt broker %v", err)
		return err
	}

	// initDefaultRoutes should be always called last because it may access things
	// which must be initialized before
	app.initDefaultRoutes()

	return nil
}

// Close stops capturing and releases the gpio lines, the broker connection and the web server.
func (app *App) Close() error {
	if app.cancel != nil {
		app.cancel()
		<-app.done
	}

	if app.watcher != nil {
		_ = app.watcher.Close()
	}
	if app.chip != nil {
		_ = app.chip.Close()
	}
	if app.signal != nil {
		_ = app.signal.Close()
	}
	if app.mqtt != nil {
		_ = app.mqtt.Disconnect()
	}
	if app.web != nil {
		_ = app.web.Shutdown()
	}
	return nil
}
