//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/youpy/go-coremidi"

	"github.com/leandrodaf/midivol/internal/midi/wire"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices       = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI device")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// ClientMid lists CoreMIDI sources and opens one input port per listener.
type ClientMid struct {
	logger         contracts.Logger
	client         coremidi.Client
	coreMIDIConfig *contracts.CoreMIDIConfig
	mu             sync.Mutex
	ports          map[*portConnection]struct{}
}

// NewMIDIClient initializes a CoreMIDI client.
func NewMIDIClient(options *contracts.Options) (contracts.Driver, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("MIDI client successfully created")

	return &ClientMid{
		logger:         options.Logger,
		client:         client,
		coreMIDIConfig: options.CoreMIDIConfig,
		ports:          map[*portConnection]struct{}{},
	}, nil
}

// ListDevices retrieves and returns available MIDI sources. An empty list is
// not an error.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		sourceEntity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			Name:         source.Name(),
			EntityName:   sourceEntity.Name(),
			Manufacturer: sourceEntity.Manufacturer(),
		}
	}
	return devices, nil
}

// Listen connects a new input port to the source at deviceID.
func (m *ClientMid) Listen(deviceID int, listener contracts.PacketListener) (contracts.Port, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, deviceID)
	}

	source := sources[deviceID]
	inputPort, err := coremidi.NewInputPort(m.client, m.coreMIDIConfig.ClientName+" input", func(_ coremidi.Source, packet coremidi.Packet) {
		for _, p := range wire.ControlChanges(packet.Data) {
			listener.OnPacket(p)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	conn, err := inputPort.Connect(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", source.Name()))

	pc := &portConnection{client: m, conn: conn}
	m.mu.Lock()
	m.ports[pc] = struct{}{}
	m.mu.Unlock()
	return pc, nil
}

// Close disconnects every open port.
func (m *ClientMid) Close() error {
	m.mu.Lock()
	ports := m.ports
	m.ports = map[*portConnection]struct{}{}
	m.mu.Unlock()

	for pc := range ports {
		pc.disconnect()
	}
	m.logger.Info("MIDI client closed")
	return nil
}

type portConnection struct {
	client *ClientMid
	conn   internalPortConnection
	once   sync.Once
}

func (p *portConnection) Close() error {
	p.client.mu.Lock()
	delete(p.client.ports, p)
	p.client.mu.Unlock()
	p.disconnect()
	return nil
}

func (p *portConnection) disconnect() {
	p.once.Do(p.conn.Disconnect)
}
