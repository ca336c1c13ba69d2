package bridge

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/midivol/internal/midi/gomididrv"
	"github.com/leandrodaf/midivol/internal/midi/mididarwin"
	"github.com/leandrodaf/midivol/internal/midi/midiwindows"
	"github.com/leandrodaf/midivol/internal/volume/alsavol"
	"github.com/leandrodaf/midivol/internal/volume/osascript"
	"github.com/leandrodaf/midivol/internal/volume/winvol"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

// ErrUnsupportedOS is returned when no volume writer exists for the operating system.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// driverInitializers maps OS names to MIDI driver initializers. Other systems use gomidi.
var driverInitializers = map[string]func(*contracts.Options) (contracts.Driver, error){
	"darwin":  mididarwin.NewMIDIClient,  // macOS (Darwin) CoreMIDI.
	"windows": midiwindows.NewMIDIClient, // Windows winmm.
}

// writerInitializers maps OS names to volume writer initializers.
var writerInitializers = map[string]func(*contracts.Options) (contracts.VolumeWriter, error){
	"darwin":  osascript.New,
	"linux":   alsavol.New,
	"windows": winvol.New,
}

// NewDriver returns the MIDI driver for goos.
func NewDriver(goos string, opts *contracts.Options) (contracts.Driver, error) {
	if initializer, exists := driverInitializers[goos]; exists {
		return initializer(opts)
	}
	return gomididrv.New(opts)
}

// NewVolumeWriter returns the volume writer for goos.
func NewVolumeWriter(goos string, opts *contracts.Options) (contracts.VolumeWriter, error) {
	if initializer, exists := writerInitializers[goos]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
}

func defaultDriver(opts *contracts.Options) (contracts.Driver, error) {
	return NewDriver(runtime.GOOS, opts)
}

func defaultVolumeWriter(opts *contracts.Options) (contracts.VolumeWriter, error) {
	return NewVolumeWriter(runtime.GOOS, opts)
}
