//go:build !linux

// Package alsavol writes the output level to an ALSA mixer control.
package alsavol

import (
	"errors"

	"github.com/leandrodaf/midivol/sdk/contracts"
)

// ErrUnavailable is returned off Linux.
var ErrUnavailable = errors.New("ALSA is not available on this platform")

// New always fails off Linux.
func New(*contracts.Options) (contracts.VolumeWriter, error) {
	return nil, ErrUnavailable
}
