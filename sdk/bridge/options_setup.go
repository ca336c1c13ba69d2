package bridge

import (
	"fmt"
	"time"

	"github.com/leandrodaf/midivol/internal/logger"
	"github.com/leandrodaf/midivol/internal/volume"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

const (
	// DefaultSampleTime is the default minimum interval between volume writes.
	DefaultSampleTime = 100 * time.Millisecond
	// DefaultInitialLevel is the level assumed before the first write.
	DefaultInitialLevel = 5.0
)

// applyDefaultOptions sets default values for Options if not explicitly provided.
func applyDefaultOptions(opts ...contracts.Option) (contracts.Options, error) {
	options := &contracts.Options{
		InitialLevel: DefaultInitialLevel,
		MaxLevel:     volume.DefaultMaxLevel,
		SampleTime:   DefaultSampleTime,
		Channel:      contracts.AnyChannel,
		Controller:   contracts.AnyController,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: "midivol"}
	}
	if options.MixerConfig == nil {
		options.MixerConfig = &contracts.MixerConfig{Card: 0, Control: "Master Playback Volume"}
	}

	options.Logger.SetLevel(options.LogLevel)
	if options.LogFilePath != "" {
		if err := options.Logger.SetDestination(contracts.FileLog, options.LogFilePath); err != nil {
			return *options, err
		}
	}

	return *options, validateOptions(options)
}

func validateOptions(o *contracts.Options) error {
	switch {
	case o.SampleTime <= 0:
		return fmt.Errorf("sample time must be positive, got %s", o.SampleTime)
	case o.Channel < contracts.AnyChannel || o.Channel > 16:
		return fmt.Errorf("channel must be between 1 and 16, or 0 for all channels, got %d", o.Channel)
	case o.Controller < contracts.AnyController || o.Controller > 127:
		return fmt.Errorf("CC number must be between 0 and 127, or -1 for all controllers, got %d", o.Controller)
	case o.MaxLevel <= 0 || o.MaxLevel > contracts.VolumeScale:
		return fmt.Errorf("max level must be in (0, %g], got %g", contracts.VolumeScale, o.MaxLevel)
	case o.InitialLevel < 0 || o.InitialLevel > contracts.VolumeScale:
		return fmt.Errorf("initial level must be in [0, %g], got %g", contracts.VolumeScale, o.InitialLevel)
	}
	return nil
}
