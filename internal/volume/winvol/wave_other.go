//go:build !windows

// Package winvol sets the Windows wave output volume through winmm.
package winvol

import (
	"errors"

	"github.com/leandrodaf/midivol/sdk/contracts"
)

// ErrUnavailable is returned off Windows.
var ErrUnavailable = errors.New("winmm is not available on this platform")

// New always fails off Windows.
func New(*contracts.Options) (contracts.VolumeWriter, error) {
	return nil, ErrUnavailable
}
