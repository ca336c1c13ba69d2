//go:build linux

// Package alsavol writes the output level to an ALSA mixer control.
package alsavol

import (
	"fmt"

	"github.com/gen2brain/alsa"

	"github.com/leandrodaf/midivol/internal/volume"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

// Writer sets every channel of one mixer control to the same percentage.
type Writer struct {
	mixer *alsa.Mixer
	ctl   *alsa.MixerCtl
}

// New opens the mixer and control named in options.MixerConfig.
func New(options *contracts.Options) (contracts.VolumeWriter, error) {
	cfg := options.MixerConfig
	mixer, err := alsa.MixerOpen(cfg.Card)
	if err != nil {
		return nil, err
	}

	ctl, err := mixer.CtlByName(cfg.Control)
	if err != nil {
		_ = mixer.Close()
		return nil, fmt.Errorf("mixer %q: %w", mixer.Name(), err)
	}

	options.Logger.Info("ALSA mixer control opened",
		options.Logger.Field().String("card", mixer.Name()),
		options.Logger.Field().String("control", ctl.Name()))
	return &Writer{mixer: mixer, ctl: ctl}, nil
}

// SetVolume writes level to all values of the control.
func (w *Writer) SetVolume(level float64) error {
	percent := volume.Percent(level)
	for i := uint(0); i < uint(w.ctl.NumValues()); i++ {
		if err := w.ctl.SetPercent(i, percent); err != nil {
			return fmt.Errorf("set %s[%d] to %d%%: %w", w.ctl.Name(), i, percent, err)
		}
	}
	return nil
}

// Close releases the mixer handle.
func (w *Writer) Close() error {
	return w.mixer.Close()
}
