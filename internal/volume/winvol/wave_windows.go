//go:build windows

// Package winvol sets the Windows wave output volume through winmm.
package winvol

import (
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/leandrodaf/midivol/internal/volume"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procWaveOutSetVolume = winmm.NewProc("waveOutSetVolume")
)

// Writer calls waveOutSetVolume on the default device.
type Writer struct{}

// New checks that winmm is loadable.
func New(options *contracts.Options) (contracts.VolumeWriter, error) {
	if err := procWaveOutSetVolume.Find(); err != nil {
		return nil, err
	}
	options.Logger.Info("Using winmm volume writer")
	return &Writer{}, nil
}

// SetVolume sets both channels to level.
func (Writer) SetVolume(level float64) error {
	v := uint32(volume.Percent(level)) * 0xFFFF / 100
	r1, _, err := procWaveOutSetVolume.Call(0, uintptr(v<<16|v))
	if r1 != 0 {
		return fmt.Errorf("waveOutSetVolume: %v", err)
	}
	return nil
}
