// Package gomididrv adapts gitlab.com/gomidi/midi/v2 and its rtmidi backend
// to contracts.Driver.
package gomididrv

import (
	"errors"
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // registers the rtmidi driver
	"go.uber.org/multierr"

	"github.com/leandrodaf/midivol/internal/midi/wire"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

var (
	// ErrInvalidMIDIDevice is returned for indexes outside the input port list.
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
	// ErrListen is returned when the port cannot be opened for listening.
	ErrListen = errors.New("error listening to MIDI port")
)

// Driver lists and opens MIDI inputs through gomidi.
type Driver struct {
	logger contracts.Logger
	ports  func() []drivers.In
}

// New returns a driver backed by the registered gomidi driver.
func New(options *contracts.Options) (contracts.Driver, error) {
	options.Logger.Info("Using rtmidi MIDI driver")
	return &Driver{
		logger: options.Logger,
		ports:  func() []drivers.In { return gomidi.GetInPorts() },
	}, nil
}

// ListDevices returns all input ports in driver order.
func (d *Driver) ListDevices() ([]contracts.DeviceInfo, error) {
	ins := d.ports()
	devices := make([]contracts.DeviceInfo, len(ins))
	for i, in := range ins {
		devices[i] = contracts.DeviceInfo{Name: in.String(), EntityName: in.String()}
	}
	return devices, nil
}

// Listen opens input deviceID and forwards its Control-Change messages.
func (d *Driver) Listen(deviceID int, listener contracts.PacketListener) (contracts.Port, error) {
	ins := d.ports()
	if deviceID < 0 || deviceID >= len(ins) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, deviceID)
	}
	in := ins[deviceID]

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, _ int32) {
		if p, ok := wire.Decode(msg); ok {
			listener.OnPacket(p)
		}
	}, gomidi.HandleError(listener.OnError))
	if err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("%w %q: %v", ErrListen, in.String(), err)
	}

	d.logger.Info("MIDI device selected",
		d.logger.Field().Int("deviceID", deviceID),
		d.logger.Field().String("deviceName", in.String()))
	return &port{in: in, stop: stop}, nil
}

// Close shuts the underlying gomidi driver down.
func (d *Driver) Close() error {
	gomidi.CloseDriver()
	return nil
}

type port struct {
	in   drivers.In
	stop func()
	once sync.Once
	err  error
}

func (p *port) Close() error {
	p.once.Do(func() {
		p.stop()
		p.err = multierr.Append(p.err, p.in.Close())
	})
	return p.err
}
