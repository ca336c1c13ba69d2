package volume

import "github.com/leandrodaf/midivol/sdk/contracts"

// LogWriter logs levels instead of changing the host volume.
type LogWriter struct {
	Logger contracts.Logger
}

// SetVolume logs level.
func (w LogWriter) SetVolume(level float64) error {
	w.Logger.Info("Output volume (dry run)",
		w.Logger.Field().Float64("level", level),
		w.Logger.Field().Int("percent", Percent(level)))
	return nil
}
