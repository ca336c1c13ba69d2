// Package config loads the start-up configuration file. The file is read
// once and never written back.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leandrodaf/midivol/sdk/contracts"
)

// MIDI selects the source and filter.
type MIDI struct {
	Device     int  `yaml:"device"`
	Channel    int  `yaml:"channel"`    // 0 accepts every channel
	Controller *int `yaml:"controller"` // omitted accepts every controller
}

// Volume configures the actuator and the output.
type Volume struct {
	SampleTime   time.Duration `yaml:"sample_time"`
	InitialLevel float64       `yaml:"initial_level"`
	MaxLevel     float64       `yaml:"max_level"`
	Card         uint          `yaml:"card"`
	Control      string        `yaml:"control"`
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config is the start-up configuration.
type Config struct {
	MIDI   MIDI   `yaml:"midi"`
	Volume Volume `yaml:"volume"`
	Log    Log    `yaml:"log"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Volume: Volume{
			SampleTime:   100 * time.Millisecond,
			InitialLevel: 5.0,
			MaxLevel:     7.0,
			Control:      "Master Playback Volume",
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath returns ~/.config/midivol/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "midivol", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LogLevel maps the textual level onto contracts.LogLevel.
func (c *Config) LogLevel() (contracts.LogLevel, error) {
	switch c.Log.Level {
	case "debug":
		return contracts.DebugLevel, nil
	case "", "info":
		return contracts.InfoLevel, nil
	case "warn":
		return contracts.WarnLevel, nil
	case "error":
		return contracts.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.Log.Level)
	}
}

// Options converts the configuration into bridge options.
func (c *Config) Options() ([]contracts.Option, error) {
	level, err := c.LogLevel()
	if err != nil {
		return nil, err
	}
	controller := contracts.AnyController
	if c.MIDI.Controller != nil {
		controller = *c.MIDI.Controller
	}
	opts := []contracts.Option{
		contracts.WithLogLevel(level),
		contracts.WithSourceIndex(c.MIDI.Device),
		contracts.WithChannel(c.MIDI.Channel),
		contracts.WithController(controller),
		contracts.WithSampleTime(c.Volume.SampleTime),
		contracts.WithInitialLevel(c.Volume.InitialLevel),
		contracts.WithMaxLevel(c.Volume.MaxLevel),
		contracts.WithMixerConfig(contracts.MixerConfig{Card: c.Volume.Card, Control: c.Volume.Control}),
	}
	if c.Log.File != "" {
		opts = append(opts, contracts.WithLogFile(c.Log.File))
	}
	return opts, nil
}
