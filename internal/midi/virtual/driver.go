// Package virtual implements an in-process MIDI driver. Sources can be
// plugged, unplugged and fed packets programmatically, which makes it useful
// for dry runs and tests.
package virtual

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/midivol/sdk/contracts"
)

var (
	// ErrInvalidMIDIDevice is returned for indexes outside the source list.
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
	// ErrDriverClosed is returned after Close.
	ErrDriverClosed = errors.New("driver closed")
	// ErrDeviceUnplugged is reported to listeners of a removed source.
	ErrDeviceUnplugged = errors.New("device unplugged")
)

type source struct {
	name    string
	present bool
	ports   map[*port]struct{}
}

// Driver is an in-memory contracts.Driver.
type Driver struct {
	mu      sync.Mutex
	sources []*source
	closed  bool
}

// New creates a driver with one present source per name. An empty name models
// a source that reports no display name.
func New(names ...string) *Driver {
	d := &Driver{}
	for _, n := range names {
		d.sources = append(d.sources, &source{name: n, present: true, ports: map[*port]struct{}{}})
	}
	return d
}

// ListDevices lists present sources in plug order.
func (d *Driver) ListDevices() ([]contracts.DeviceInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrDriverClosed
	}
	var devices []contracts.DeviceInfo
	for _, s := range d.present() {
		devices = append(devices, contracts.DeviceInfo{Name: s.name, EntityName: s.name, Manufacturer: "virtual"})
	}
	return devices, nil
}

// Listen registers listener with the present source at deviceID.
func (d *Driver) Listen(deviceID int, listener contracts.PacketListener) (contracts.Port, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrDriverClosed
	}
	s, err := d.lookup(deviceID)
	if err != nil {
		return nil, err
	}
	p := &port{driver: d, source: s, listener: listener}
	s.ports[p] = struct{}{}
	return p, nil
}

// Close detaches every listener.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for _, s := range d.sources {
		s.ports = map[*port]struct{}{}
	}
	return nil
}

// Send delivers p synchronously to every listener of the source at deviceID.
func (d *Driver) Send(deviceID int, p contracts.Packet) error {
	listeners, err := d.listeners(deviceID)
	if err != nil {
		return err
	}
	for _, l := range listeners {
		l.OnPacket(p)
	}
	return nil
}

// Broadcast delivers p to the listeners of every present source.
func (d *Driver) Broadcast(p contracts.Packet) error {
	d.mu.Lock()
	var listeners []contracts.PacketListener
	for _, s := range d.present() {
		for port := range s.ports {
			listeners = append(listeners, port.listener)
		}
	}
	d.mu.Unlock()

	for _, l := range listeners {
		l.OnPacket(p)
	}
	return nil
}

// Fail reports err to every listener of the source at deviceID.
func (d *Driver) Fail(deviceID int, err error) error {
	listeners, lerr := d.listeners(deviceID)
	if lerr != nil {
		return lerr
	}
	for _, l := range listeners {
		l.OnError(err)
	}
	return nil
}

// Unplug removes the named source. Its listeners receive ErrDeviceUnplugged.
func (d *Driver) Unplug(name string) {
	d.mu.Lock()
	var listeners []contracts.PacketListener
	for _, s := range d.sources {
		if s.name == name && s.present {
			s.present = false
			for p := range s.ports {
				listeners = append(listeners, p.listener)
			}
			s.ports = map[*port]struct{}{}
		}
	}
	d.mu.Unlock()

	for _, l := range listeners {
		l.OnError(fmt.Errorf("%w: %s", ErrDeviceUnplugged, name))
	}
}

// Plug makes the named source present again, adding it when unknown.
func (d *Driver) Plug(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.sources {
		if s.name == name {
			s.present = true
			return
		}
	}
	d.sources = append(d.sources, &source{name: name, present: true, ports: map[*port]struct{}{}})
}

// OpenPorts returns the number of open registrations on the source at deviceID.
func (d *Driver) OpenPorts(deviceID int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, err := d.lookup(deviceID)
	if err != nil {
		return 0
	}
	return len(s.ports)
}

func (d *Driver) listeners(deviceID int) ([]contracts.PacketListener, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, err := d.lookup(deviceID)
	if err != nil {
		return nil, err
	}
	out := make([]contracts.PacketListener, 0, len(s.ports))
	for p := range s.ports {
		out = append(out, p.listener)
	}
	return out, nil
}

func (d *Driver) present() []*source {
	var out []*source
	for _, s := range d.sources {
		if s.present {
			out = append(out, s)
		}
	}
	return out
}

func (d *Driver) lookup(deviceID int) (*source, error) {
	present := d.present()
	if deviceID < 0 || deviceID >= len(present) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, deviceID)
	}
	return present[deviceID], nil
}

type port struct {
	driver   *Driver
	source   *source
	listener contracts.PacketListener
	once     sync.Once
}

func (p *port) Close() error {
	p.once.Do(func() {
		p.driver.mu.Lock()
		defer p.driver.mu.Unlock()
		delete(p.source.ports, p)
	})
	return nil
}
