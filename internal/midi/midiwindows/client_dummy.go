//go:build !windows
// +build !windows

package midiwindows

import (
	"errors"

	"github.com/leandrodaf/midivol/sdk/contracts"
)

// ErrUnavailable is returned by every operation off Windows.
var ErrUnavailable = errors.New("winmm MIDI is not available on this platform")

type dummyMIDIClient struct {
	logger contracts.Logger
}

// NewMIDIClient initializes a dummy MIDI client for non-Windows systems.
func NewMIDIClient(options *contracts.Options) (contracts.Driver, error) {
	options.Logger.Info("Using dummy MIDI client for non-Windows system")
	return &dummyMIDIClient{logger: options.Logger}, nil
}

// ListDevices logs a warning and returns ErrUnavailable.
func (m *dummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI client")
	return nil, ErrUnavailable
}

// Listen logs a warning and returns ErrUnavailable.
func (m *dummyMIDIClient) Listen(int, contracts.PacketListener) (contracts.Port, error) {
	m.logger.Warn("Listen called on dummy MIDI client")
	return nil, ErrUnavailable
}

// Close does nothing.
func (m *dummyMIDIClient) Close() error {
	return nil
}
