//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/leandrodaf/midivol/internal/midi/wire"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

// Type definitions for MIDI handles
type HMIDIIN windows.Handle

// Constants for callback flags
const (
	CALLBACK_FUNCTION = 0x00030000 // Indicates that the callback is a function
	MIDI_IO_STATUS    = 0x00000020 // MIDI input/output status
)

// Constants for MIDI message types
const (
	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // MIDI data received
	MIM_ERROR     = 0x3C5 // MIDI error
	MIM_LONGERROR = 0x3C6 // Long MIDI error
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

var (
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
	ErrOpenDevice        = errors.New("failed to open MIDI device")
	ErrStartCapture      = errors.New("failed to start MIDI capture")
	ErrMIDIDriver        = errors.New("MIDI driver error")
)

// Struct representing MIDI device capabilities
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// Load the winmm.dll library and required functions
var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen       = winmm.NewProc("midiInOpen")
	procMidiInStart      = winmm.NewProc("midiInStart")
	procMidiInStop       = winmm.NewProc("midiInStop")
	procMidiInClose      = winmm.NewProc("midiInClose")
)

// Open ports are looked up by the instance id winmm hands back to the
// callback, so no Go pointer crosses into the driver.
var (
	callback  = windows.NewCallback(midiInCallback)
	registry  sync.Map // uintptr -> *inputPort
	nextID    uintptr
	nextIDMux sync.Mutex
)

// ClientMid lists and opens winmm MIDI inputs.
type ClientMid struct {
	logger contracts.Logger
}

// NewMIDIClient creates a MIDI client for Windows
func NewMIDIClient(options *contracts.Options) (contracts.Driver, error) {
	options.Logger.Info("MIDI client created for Windows")
	return &ClientMid{logger: options.Logger}, nil
}

// ListDevices lists the available MIDI devices. Devices whose capabilities
// cannot be read keep their slot with an empty name.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		m.logger.Warn("No MIDI devices found")
	}

	devices := make([]contracts.DeviceInfo, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			m.logger.Warn("Failed to get information for MIDI device", m.logger.Field().Int("deviceID", int(i)))
			continue
		}
		deviceName := windows.UTF16ToString(caps.szPname[:])
		devices[i] = contracts.DeviceInfo{
			Name:         deviceName,
			EntityName:   deviceName,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		}
	}
	return devices, nil
}

// Listen opens and starts device deviceID.
func (m *ClientMid) Listen(deviceID int, listener contracts.PacketListener) (contracts.Port, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	if deviceID < 0 || deviceID >= int(uint32(r0)) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, deviceID)
	}

	nextIDMux.Lock()
	nextID++
	id := nextID
	nextIDMux.Unlock()

	p := &inputPort{id: id, deviceID: deviceID, listener: listener, logger: m.logger}
	registry.Store(id, p)

	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&p.handle)),
		uintptr(deviceID),
		callback,
		id,
		uintptr(CALLBACK_FUNCTION|MIDI_IO_STATUS),
	)
	if r1 != 0 {
		registry.Delete(id)
		return nil, fmt.Errorf("%w %d: %v", ErrOpenDevice, deviceID, err)
	}

	r1, _, err = procMidiInStart.Call(uintptr(p.handle))
	if r1 != 0 {
		procMidiInClose.Call(uintptr(p.handle))
		registry.Delete(id)
		return nil, fmt.Errorf("%w: %v", ErrStartCapture, err)
	}

	m.logger.Info("MIDI device connected", m.logger.Field().Int("deviceID", deviceID))
	return p, nil
}

// Close is a no-op; ports are closed individually.
func (m *ClientMid) Close() error {
	return nil
}

type inputPort struct {
	id       uintptr
	deviceID int
	handle   HMIDIIN
	listener contracts.PacketListener
	logger   contracts.Logger
	once     sync.Once
	err      error
}

// Close stops capture and releases the device handle.
func (p *inputPort) Close() error {
	p.once.Do(func() {
		registry.Delete(p.id)
		if r1, _, err := procMidiInStop.Call(uintptr(p.handle)); r1 != 0 {
			p.logger.Error("Failed to stop MIDI capture", p.logger.Field().Error("error", err))
			p.err = err
			return
		}
		if r1, _, err := procMidiInClose.Call(uintptr(p.handle)); r1 != 0 {
			p.logger.Error("Failed to close MIDI device", p.logger.Field().Error("error", err))
			p.err = err
		}
	})
	return p.err
}

// midiInCallback processes incoming MIDI messages
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	v, ok := registry.Load(dwInstance)
	if !ok {
		return 0
	}
	p := v.(*inputPort)

	switch wMsg {
	case MIM_OPEN:
		p.logger.Debug("MIDI device opened", p.logger.Field().Int("deviceID", p.deviceID))
	case MIM_CLOSE:
		p.logger.Debug("MIDI device closed", p.logger.Field().Int("deviceID", p.deviceID))
	case MIM_DATA, MIM_MOREDATA:
		if pkt, ok := wire.Unpack(uint32(dwParam1)); ok {
			p.listener.OnPacket(pkt)
		}
	case MIM_ERROR, MIM_LONGERROR:
		p.listener.OnError(fmt.Errorf("%w: msg=0x%X", ErrMIDIDriver, wMsg))
	default:
		p.logger.Warn("Unknown MIDI message", p.logger.Field().Int64("msg", int64(wMsg)))
	}

	return 0
}
