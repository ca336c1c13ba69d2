// Package osascript sets the macOS output volume through AppleScript.
package osascript

import (
	"fmt"
	"os/exec"

	"github.com/leandrodaf/midivol/internal/volume"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

// Writer runs `osascript -e "set volume output volume N"`.
type Writer struct {
	run func(name string, args ...string) ([]byte, error)
}

// New returns a writer that shells out to osascript.
func New(options *contracts.Options) (contracts.VolumeWriter, error) {
	path, err := exec.LookPath("osascript")
	if err != nil {
		return nil, err
	}
	options.Logger.Info("Using osascript volume writer", options.Logger.Field().String("path", path))
	return &Writer{run: combinedOutput}, nil
}

func combinedOutput(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// SetVolume sets the output volume to level.
func (w *Writer) SetVolume(level float64) error {
	script := fmt.Sprintf("set volume output volume %d", volume.Percent(level))
	if out, err := w.run("osascript", "-e", script); err != nil {
		return fmt.Errorf("osascript: %w: %s", err, out)
	}
	return nil
}
