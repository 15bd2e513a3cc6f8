package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"wgscan/pkg/capture"
	"wgscan/pkg/frame"

	"github.com/womat/debug"
	"gopkg.in/yaml.v2"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the application configuration. Attention!
// To make it possible to overwrite fields with the -overwrite command
// line option each of the struct fields must be in the format
// first letter uppercase -> followed by CamelCase as in the config file.
// Config defines the struct of global config and the struct of the configuration file
type Config struct {
	Chip        string          `yaml:"chip"`
	D0          int             `yaml:"d0"`
	D1          int             `yaml:"d1"`
	Terminator  string          `yaml:"terminator"`
	TimeoutInt  int             `yaml:"timeout"`
	Timeout     time.Duration   `yaml:"-"`
	IntervalInt int             `yaml:"interval"`
	Interval    time.Duration   `yaml:"-"`
	Lengths     []int           `yaml:"lengths"`
	KeyFiles    string          `yaml:"keyfiles"`
	AutoSave    bool            `yaml:"autosave"`
	Signal      SignalConfig    `yaml:"signal"`
	Flag        FlagConfig      `yaml:"-"`
	Debug       DebugConfig     `yaml:"debug"`
	Webserver   WebserverConfig `yaml:"webserver"`
	MQTT        MQTTConfig      `yaml:"mqtt"`
}

// FlagConfig defines the configured flags (parameters)
type FlagConfig struct {
	LogLevel   string
	ConfigFile string
}

// SignalConfig defines the LED and beeper pins of the badge reader, -1 disables a pin
type SignalConfig struct {
	LED      int           `yaml:"led"`
	Beeper   int           `yaml:"beeper"`
	BlinkInt int           `yaml:"blink"`
	Blink    time.Duration `yaml:"-"`
}

// WebserverConfig defines the struct of the webserver and webservice configuration and configuration file
type WebserverConfig struct {
	URL         string          `yaml:"url"`
	Webservices map[string]bool `yaml:"webservices"`
}

// MQTTConfig defines the struct of the mqtt client configuration and configuration file
type MQTTConfig struct {
	Connection string `yaml:"connection"`
	ClientID   string `yaml:"clientid"`
	Topic      string `yaml:"topic"`
}

// DebugConfig defines the struct of the debug configuration and configuration file
type DebugConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

func NewConfig() *Config {
	return &Config{
		Chip:        "gpiochip0",
		D0:          17,
		D1:          18,
		Terminator:  "pullup",
		TimeoutInt:  int(capture.DefaultTimeout / time.Millisecond),
		IntervalInt: int(capture.DefaultInterval / time.Millisecond),
		Lengths:     append([]int(nil), capture.DefaultLengths...),
		KeyFiles:    "/opt/womat/data/wiegand",
		AutoSave:    true,
		Signal: SignalConfig{
			LED:      -1,
			Beeper:   -1,
			BlinkInt: 50,
		},
		Flag: FlagConfig{},
		Debug: DebugConfig{
			FileString: "stderr",
			FlagString: "standard",
		},
		Webserver: WebserverConfig{
			URL: "http://0.0.0.0:4000",
			Webservices: map[string]bool{
				"version":  true,
				"health":   true,
				"data":     true,
				"stats":    true,
				"keyfiles": true,
			},
		},
		MQTT: MQTTConfig{
			ClientID: "wgscan",
			Topic:    "wiegand/frame",
		},
	}
}

func (c *Config) LoadConfig() error {
	if err := c.readConfigFile(); err != nil {
		return fmt.Errorf("error reading config file %q: %w", c.Flag.ConfigFile, err)
	}

	if c.Flag.LogLevel != "" {
		c.Debug.FlagString = c.Flag.LogLevel
	}
	if err := c.setDebugConfig(); err != nil {
		return fmt.Errorf("unable to open debug file %q: %w", c.Debug.FileString, err)
	}

	c.setDurations()
	return c.Validate()
}

func (c *Config) setDurations() {
	c.Timeout = time.Duration(c.TimeoutInt) * time.Millisecond
	c.Interval = time.Duration(c.IntervalInt) * time.Millisecond
	c.Signal.Blink = time.Duration(c.Signal.BlinkInt) * time.Millisecond
}

// Validate checks the settings which can't be checked by the yaml decoder.
func (c *Config) Validate() error {
	if c.D0 < 0 || c.D1 < 0 || c.D0 == c.D1 {
		return fmt.Errorf("%w: d0 (%d) and d1 (%d) must be distinct gpio lines", ErrInvalidConfig, c.D0, c.D1)
	}
	if c.Timeout <= 0 || c.Interval <= 0 {
		return fmt.Errorf("%w: timeout and interval must be positive", ErrInvalidConfig)
	}
	if len(c.Lengths) == 0 {
		return fmt.Errorf("%w: no frame lengths", ErrInvalidConfig)
	}
	for _, n := range c.Lengths {
		if n < 1 || n > frame.Capacity {
			return fmt.Errorf("%w: frame length %d not within 1..%d", ErrInvalidConfig, n, frame.Capacity)
		}
	}
	return nil
}

func (c *Config) readConfigFile() error {
	file, err := os.Open(c.Flag.ConfigFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	if err = decoder.Decode(c); err != nil {
		return err
	}

	return nil
}

func (c *Config) setDebugConfig() (err error) {
	// defines Debug section of global.Config
	switch c.Debug.FlagString {
	case "trace", "full":
		c.Debug.Flag = debug.Full
	case "debug":
		c.Debug.Flag = debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug
	case "standard":
		c.Debug.Flag = debug.Standard
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Debug.FlagString)
	}

	switch c.Debug.FileString {
	case "stderr":
		c.Debug.File = os.Stderr
	case "stdout":
		c.Debug.File = os.Stdout
	default:
		if c.Debug.File, err = os.OpenFile(c.Debug.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return
		}
	}

	return
}
