//go:build !darwin
// +build !darwin

package mididarwin

import (
	"errors"

	"github.com/leandrodaf/midivol/sdk/contracts"
)

// ErrUnavailable is returned by every operation off macOS.
var ErrUnavailable = errors.New("CoreMIDI is not available on this platform")

type dummyMIDIClient struct {
	logger contracts.Logger
}

// NewMIDIClient returns a placeholder driver for non-macOS systems.
func NewMIDIClient(options *contracts.Options) (contracts.Driver, error) {
	options.Logger.Info("Using dummy MIDI client for non-macOS system")
	return &dummyMIDIClient{logger: options.Logger}, nil
}

func (m *dummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI client")
	return nil, ErrUnavailable
}

func (m *dummyMIDIClient) Listen(int, contracts.PacketListener) (contracts.Port, error) {
	m.logger.Warn("Listen called on dummy MIDI client")
	return nil, ErrUnavailable
}

func (m *dummyMIDIClient) Close() error {
	return nil
}
