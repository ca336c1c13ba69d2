package contracts

// Settings is the snapshot shown by a settings window.
type Settings struct {
	SampleTimeMs int      `json:"vol_sample_time"`
	Devices      []string `json:"midi_devices"`
	Channel      int      `json:"channel"`
	CCNumber     int      `json:"cc_num"`
	Enabled      bool     `json:"enabled"`
}

// SettingsSurface is the request/response API used by the tray and settings UI.
// Operations that can fail return an empty string on success or a
// human-readable fault description.
type SettingsSurface interface {
	GetSettings() Settings
	SetSettings(deviceIndex, sampleTimeMs, channel, ccNumber int) string
	GetError() string
	AttemptRestart() string
	SetEnabled(enabled bool) string
	Toggle() (enabled bool, message string)
	Enabled() bool
}

// Bridge is a running MIDI-to-volume bridge.
type Bridge interface {
	SettingsSurface
	Close() error // Releases the binding, the driver and the volume sink.
}
