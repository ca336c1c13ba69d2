package contracts

import "time"

const (
	// AnyChannel disables channel filtering.
	AnyChannel = 0
	// AnyController disables controller-number filtering.
	AnyController = -1
)

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// MixerConfig selects the ALSA control written on Linux.
type MixerConfig struct {
	Card    uint   // Sound card number (/dev/snd/controlC<Card>).
	Control string // Control name, e.g. "Master Playback Volume".
}

// Options defines the configuration of a bridge.
type Options struct {
	Logger         Logger          // Logger for logging events and errors.
	LogLevel       LogLevel        // Level of logging to use.
	LogFilePath    string          // File path for logging if file logging is enabled.
	Driver         Driver          // MIDI transport; selected per OS when nil.
	VolumeWriter   VolumeWriter    // Output volume sink; selected per OS when nil.
	CoreMIDIConfig *CoreMIDIConfig // Configuration specific to CoreMIDI.
	MixerConfig    *MixerConfig    // Configuration specific to ALSA.

	SourceIndex  int           // Initial input source.
	Channel      int           // 1-16, or AnyChannel.
	Controller   int           // 0-127, or AnyController.
	SampleTime   time.Duration // Minimum interval between volume writes.
	InitialLevel float64       // Level assumed before the first write.
	MaxLevel     float64       // Level produced by controller value 127.
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithLogger sets the logger for the bridge.
func WithLogger(l Logger) Option {
	return func(opts *Options) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the bridge.
func WithLogLevel(level LogLevel) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithLogFile sends log output to path instead of the console.
func WithLogFile(path string) Option {
	return func(opts *Options) {
		opts.LogFilePath = path
	}
}

// WithDriver overrides the MIDI transport.
func WithDriver(d Driver) Option {
	return func(opts *Options) {
		opts.Driver = d
	}
}

// WithVolumeWriter overrides the output volume sink.
func WithVolumeWriter(w VolumeWriter) Option {
	return func(opts *Options) {
		opts.VolumeWriter = w
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *Options) {
		opts.CoreMIDIConfig = &config
	}
}

// WithMixerConfig sets the ALSA mixer configuration.
func WithMixerConfig(config MixerConfig) Option {
	return func(opts *Options) {
		opts.MixerConfig = &config
	}
}

// WithSourceIndex selects the input source bound at start-up.
func WithSourceIndex(index int) Option {
	return func(opts *Options) {
		opts.SourceIndex = index
	}
}

// WithChannel accepts only packets on channel (1-16).
func WithChannel(channel int) Option {
	return func(opts *Options) {
		opts.Channel = channel
	}
}

// WithController accepts only packets for controller number cc (0-127).
func WithController(cc int) Option {
	return func(opts *Options) {
		opts.Controller = cc
	}
}

// WithSampleTime sets the minimum interval between volume writes.
func WithSampleTime(d time.Duration) Option {
	return func(opts *Options) {
		opts.SampleTime = d
	}
}

// WithInitialLevel sets the level assumed before the first write.
func WithInitialLevel(level float64) Option {
	return func(opts *Options) {
		opts.InitialLevel = level
	}
}

// WithMaxLevel sets the level produced by controller value 127.
func WithMaxLevel(level float64) Option {
	return func(opts *Options) {
		opts.MaxLevel = level
	}
}
