package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/leandrodaf/midivol/internal/midi/wire"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

func TestControlChangesSingle(t *testing.T) {
	got := wire.ControlChanges([]byte{0xB0, 7, 64})
	assert.Equal(t, []contracts.Packet{{Channel: 1, Controller: 7, Value: 64}}, got)
}

func TestControlChangesRunningStatusAndRealtime(t *testing.T) {
	data := []byte{
		0xB1, 7, 10,
		0xF8, // clock in the middle of a running-status stream
		7, 20,
		0x91, 60, 100, // note on, skipped
		0xB1, 8, 0x7F,
	}
	got := wire.ControlChanges(data)
	assert.Equal(t, []contracts.Packet{
		{Channel: 2, Controller: 7, Value: 10},
		{Channel: 2, Controller: 7, Value: 20},
		{Channel: 2, Controller: 8, Value: 127},
	}, got)
}

func TestControlChangesSkipsSysExAndProgramChange(t *testing.T) {
	data := []byte{
		0xF0, 0x7E, 0x01, 0xB0, 0xF7,
		0xC0, 5,
		0xBF, 1, 2,
	}
	got := wire.ControlChanges(data)
	assert.Equal(t, []contracts.Packet{{Channel: 16, Controller: 1, Value: 2}}, got)
}

func TestControlChangesTruncated(t *testing.T) {
	assert.Empty(t, wire.ControlChanges([]byte{0xB0, 7}))
	assert.Empty(t, wire.ControlChanges([]byte{7, 64}), "data without status is ignored")
	assert.Empty(t, wire.ControlChanges(nil))
}

func TestControlChangesInterruptedMessage(t *testing.T) {
	got := wire.ControlChanges([]byte{0xB0, 0x07, 0xB1, 0x07, 0x40})
	assert.Equal(t, []contracts.Packet{{Channel: 2, Controller: 7, Value: 64}}, got)

	got = wire.ControlChanges([]byte{0xB0, 0x07, 0x91, 60, 100, 0xB2, 1, 2})
	assert.Equal(t, []contracts.Packet{{Channel: 3, Controller: 1, Value: 2}}, got,
		"a partial message never turns the following status into a value")
}

func TestControlChangesRealtimeInsideMessage(t *testing.T) {
	got := wire.ControlChanges([]byte{0xB0, 7, 0xF8, 64})
	assert.Equal(t, []contracts.Packet{{Channel: 1, Controller: 7, Value: 64}}, got)
}

func TestDecode(t *testing.T) {
	p, ok := wire.Decode(gomidi.ControlChange(3, 11, 99))
	assert.True(t, ok)
	assert.Equal(t, contracts.Packet{Channel: 4, Controller: 11, Value: 99}, p)

	_, ok = wire.Decode(gomidi.NoteOn(0, 60, 100))
	assert.False(t, ok)
}

func TestUnpack(t *testing.T) {
	p, ok := wire.Unpack(0x00_40_07_B0)
	assert.True(t, ok)
	assert.Equal(t, contracts.Packet{Channel: 1, Controller: 7, Value: 64}, p)

	_, ok = wire.Unpack(0x00_40_3C_90)
	assert.False(t, ok)
}
