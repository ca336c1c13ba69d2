package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/midivol/internal/config"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
midi:
  device: 1
  channel: 2
  controller: 7
volume:
  sample_time: 250ms
  card: 1
log:
  level: debug
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.MIDI.Device)
	assert.Equal(t, 2, cfg.MIDI.Channel)
	require.NotNil(t, cfg.MIDI.Controller)
	assert.Equal(t, 7, *cfg.MIDI.Controller)
	assert.Equal(t, 250*time.Millisecond, cfg.Volume.SampleTime)
	assert.Equal(t, uint(1), cfg.Volume.Card)
	assert.Equal(t, "Master Playback Volume", cfg.Volume.Control, "unset keys keep their defaults")
	assert.Equal(t, 7.0, cfg.Volume.MaxLevel)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, contracts.DebugLevel, level)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := config.Load(writeFile(t, "midi: [unterminated"))
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cc := 11
	cfg.MIDI.Controller = &cc
	cfg.MIDI.Channel = 4
	cfg.Log.File = "/tmp/midivol.log"

	opts, err := cfg.Options()
	require.NoError(t, err)

	var o contracts.Options
	for _, opt := range opts {
		opt(&o)
	}
	assert.Equal(t, 4, o.Channel)
	assert.Equal(t, 11, o.Controller)
	assert.Equal(t, 100*time.Millisecond, o.SampleTime)
	assert.Equal(t, "/tmp/midivol.log", o.LogFilePath)
	assert.Equal(t, "Master Playback Volume", o.MixerConfig.Control)

	cfg.MIDI.Controller = nil
	opts, err = cfg.Options()
	require.NoError(t, err)
	o = contracts.Options{}
	for _, opt := range opts {
		opt(&o)
	}
	assert.Equal(t, contracts.AnyController, o.Controller)

	cfg.Log.Level = "loud"
	_, err = cfg.Options()
	assert.Error(t, err)
}
