package settings_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/midivol/internal/connection"
	"github.com/leandrodaf/midivol/internal/midi/virtual"
	"github.com/leandrodaf/midivol/internal/settings"
	"github.com/leandrodaf/midivol/internal/volume"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

type recordingWriter struct {
	mu     sync.Mutex
	levels []float64
}

func (w *recordingWriter) SetVolume(level float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.levels = append(w.levels, level)
	return nil
}

func (w *recordingWriter) Levels() []float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]float64(nil), w.levels...)
}

type fixture struct {
	drv    *virtual.Driver
	conn   *connection.Connection
	svc    *settings.Service
	writer *recordingWriter
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	drv := virtual.New(names...)
	w := &recordingWriter{}
	conn := connection.New(drv, 0, volume.NewActuator(5.0, 0, w), connection.WithFilter(1, 7))
	t.Cleanup(func() { _ = conn.Close() })
	return &fixture{drv: drv, conn: conn, svc: settings.New(conn, drv, nil), writer: w}
}

var _ contracts.SettingsSurface = (*settings.Service)(nil)

func TestGetSettings(t *testing.T) {
	f := newFixture(t, "Knob Controller", "")
	f.conn.SetSampleTime(100 * time.Millisecond)

	got := f.svc.GetSettings()
	assert.Equal(t, contracts.Settings{
		SampleTimeMs: 100,
		Devices:      []string{"Knob Controller", "Unnamed source: 1"},
		Channel:      1,
		CCNumber:     7,
		Enabled:      true,
	}, got)
	assert.Equal(t, "", f.svc.GetError())
}

func TestGetSettingsWhenEnumerationFails(t *testing.T) {
	f := newFixture(t, "Knob Controller")
	require.NoError(t, f.drv.Close())

	got := f.svc.GetSettings()
	assert.Empty(t, got.Devices)
	assert.NotNil(t, got.Devices)
}

func TestSetSettingsRebinds(t *testing.T) {
	f := newFixture(t, "A", "B")

	msg := f.svc.SetSettings(1, 40, 2, 11)
	assert.Equal(t, "", msg)
	assert.Equal(t, 0, f.drv.OpenPorts(0))
	assert.Equal(t, 1, f.drv.OpenPorts(1))

	require.NoError(t, f.drv.Send(1, contracts.Packet{Channel: 2, Controller: 11, Value: 64}))
	assert.Equal(t, []float64{3.5}, f.writer.Levels())

	s := f.svc.GetSettings()
	assert.Equal(t, 40, s.SampleTimeMs)
	assert.Equal(t, 2, s.Channel)
	assert.Equal(t, 11, s.CCNumber)
}

func TestSetSettingsInvalidDevice(t *testing.T) {
	f := newFixture(t, "A")

	msg := f.svc.SetSettings(4, 100, 1, 7)
	assert.NotEmpty(t, msg)
	assert.Equal(t, msg, f.svc.GetError())
	assert.Equal(t, connection.StateFaulted, f.conn.State())

	require.NoError(t, f.drv.Send(0, contracts.Packet{Channel: 1, Controller: 7, Value: 64}))
	assert.Empty(t, f.writer.Levels(), "the previous binding must be inert")
	assert.True(t, f.svc.Enabled(), "a fault is not a user stop")
}

func TestSetSettingsValidation(t *testing.T) {
	f := newFixture(t, "A", "B")

	for _, c := range []struct {
		name                    string
		device, ms, channel, cc int
	}{
		{"zero sample time", 1, 0, 1, 7},
		{"channel too high", 1, 100, 17, 7},
		{"negative channel", 1, 100, -1, 7},
		{"cc too high", 1, 100, 1, 128},
		{"cc too low", 1, 100, 1, -2},
	} {
		t.Run(c.name, func(t *testing.T) {
			msg := f.svc.SetSettings(c.device, c.ms, c.channel, c.cc)
			assert.NotEmpty(t, msg)
			assert.Equal(t, 1, f.drv.OpenPorts(0), "rejected settings keep the binding")
			assert.Equal(t, connection.Config{SourceIndex: 0, Channel: 1, Controller: 7}, f.conn.Config())
		})
	}
}

func TestSetSettingsValidationMentionsWildcards(t *testing.T) {
	f := newFixture(t, "A")

	assert.Contains(t, f.svc.SetSettings(0, 100, 17, 7), "0 for all channels")
	assert.Contains(t, f.svc.SetSettings(0, 100, 1, 128), "-1 for all controllers")
	assert.Empty(t, f.svc.SetSettings(0, 100, 0, -1))
}

func TestSetSettingsWhileDisabled(t *testing.T) {
	f := newFixture(t, "A", "B")

	assert.Equal(t, "", f.svc.SetEnabled(false))
	assert.False(t, f.svc.Enabled())
	assert.NotEmpty(t, f.svc.GetError(), "a user stop is reported")

	assert.Equal(t, "", f.svc.SetSettings(1, 100, 1, 7))
	assert.False(t, f.svc.Enabled())
	assert.Equal(t, 0, f.drv.OpenPorts(1))

	assert.Equal(t, "", f.svc.SetEnabled(true))
	assert.Equal(t, 1, f.drv.OpenPorts(1))
}

func TestToggle(t *testing.T) {
	f := newFixture(t, "A")

	enabled, msg := f.svc.Toggle()
	assert.False(t, enabled)
	assert.Equal(t, "", msg)

	require.NoError(t, f.drv.Send(0, contracts.Packet{Channel: 1, Controller: 7, Value: 127}))
	assert.Empty(t, f.writer.Levels())

	enabled, msg = f.svc.Toggle()
	assert.True(t, enabled)
	assert.Equal(t, "", msg)

	require.NoError(t, f.drv.Send(0, contracts.Packet{Channel: 1, Controller: 7, Value: 127}))
	assert.Equal(t, []float64{7.0}, f.writer.Levels())
}

func TestAttemptRestart(t *testing.T) {
	f := newFixture(t, "Knob Controller")

	f.drv.Unplug("Knob Controller")
	assert.NotEmpty(t, f.svc.GetError())

	assert.NotEmpty(t, f.svc.AttemptRestart(), "device still missing")
	assert.Equal(t, connection.StateFaulted, f.conn.State())

	f.drv.Plug("Knob Controller")
	assert.Equal(t, "", f.svc.AttemptRestart())
	assert.Equal(t, connection.StateActive, f.conn.State())
}
