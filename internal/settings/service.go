// Package settings implements the request/response operations used by the
// tray menu and the settings window.
package settings

import (
	"fmt"
	"time"

	"github.com/leandrodaf/midivol/internal/connection"
	"github.com/leandrodaf/midivol/internal/logger"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

// Service exposes a Connection to the UI.
type Service struct {
	conn   *connection.Connection
	driver contracts.Driver
	logger contracts.Logger
}

// New creates a settings service. A nil logger discards output.
func New(conn *connection.Connection, driver contracts.Driver, log contracts.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{conn: conn, driver: driver, logger: log}
}

// GetSettings returns the current configuration and the available sources.
func (s *Service) GetSettings() contracts.Settings {
	cfg := s.conn.Config()
	return contracts.Settings{
		SampleTimeMs: int(cfg.SampleTime / time.Millisecond),
		Devices:      s.deviceList(),
		Channel:      cfg.Channel,
		CCNumber:     cfg.Controller,
		Enabled:      s.Enabled(),
	}
}

// SetSettings validates and applies a full configuration, then rebinds.
// Invalid values leave everything unchanged. While processing is disabled the
// configuration is stored and bound on the next enable.
func (s *Service) SetSettings(deviceIndex, sampleTimeMs, channel, ccNumber int) string {
	if err := validate(sampleTimeMs, channel, ccNumber); err != nil {
		s.logger.Warn("Rejected settings", s.logger.Field().Error("error", err))
		return err.Error()
	}

	s.conn.Apply(connection.Config{
		SourceIndex: deviceIndex,
		Channel:     channel,
		Controller:  ccNumber,
		SampleTime:  time.Duration(sampleTimeMs) * time.Millisecond,
	})
	s.logger.Info("Settings updated",
		s.logger.Field().Int("device", deviceIndex),
		s.logger.Field().Int("sample_time_ms", sampleTimeMs),
		s.logger.Field().Int("channel", channel),
		s.logger.Field().Int("controller", ccNumber))

	if !s.Enabled() {
		return ""
	}
	return s.AttemptRestart()
}

// GetError returns the recorded fault description, or "" while bound.
func (s *Service) GetError() string {
	if err := s.conn.Error(); err != nil {
		return err.Error()
	}
	return ""
}

// AttemptRestart rebinds with the current configuration.
func (s *Service) AttemptRestart() string {
	s.conn.SetPort(s.conn.CreateCallback())
	return s.GetError()
}

// SetEnabled starts or stops packet processing.
func (s *Service) SetEnabled(enabled bool) string {
	if !enabled {
		s.conn.SetPort(connection.Stopped())
		return ""
	}
	return s.AttemptRestart()
}

// Toggle flips the enabled state and returns the new state with any fault.
func (s *Service) Toggle() (bool, string) {
	enabled := !s.Enabled()
	return enabled, s.SetEnabled(enabled)
}

// Enabled reports whether processing is on, i.e. not stopped by the user.
func (s *Service) Enabled() bool {
	return s.conn.State() != connection.StateStopped
}

func (s *Service) deviceList() []string {
	devices, err := s.driver.ListDevices()
	if err != nil {
		s.logger.Warn("Failed to list MIDI devices", s.logger.Field().Error("error", err))
		return []string{}
	}
	names := make([]string, len(devices))
	for i, d := range devices {
		names[i] = d.Label(i)
	}
	return names
}

func validate(sampleTimeMs, channel, ccNumber int) error {
	if sampleTimeMs <= 0 {
		return fmt.Errorf("sample time must be positive, got %d ms", sampleTimeMs)
	}
	if channel < contracts.AnyChannel || channel > 16 {
		return fmt.Errorf("channel must be between 1 and 16, or 0 for all channels, got %d", channel)
	}
	if ccNumber < contracts.AnyController || ccNumber > 127 {
		return fmt.Errorf("CC number must be between 0 and 127, or -1 for all controllers, got %d", ccNumber)
	}
	return nil
}
