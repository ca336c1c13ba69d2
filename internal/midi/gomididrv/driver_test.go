package gomididrv

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/testdrv"

	"github.com/leandrodaf/midivol/internal/logger"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

type recorder struct {
	mu      sync.Mutex
	packets []contracts.Packet
}

func (r *recorder) OnPacket(p contracts.Packet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packets = append(r.packets, p)
}

func (r *recorder) OnError(error) {}

func (r *recorder) Packets() []contracts.Packet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]contracts.Packet(nil), r.packets...)
}

func newTestDriver(t *testing.T) (*Driver, drivers.Out) {
	t.Helper()
	drv := testdrv.New("loopback")
	t.Cleanup(func() { _ = drv.Close() })

	outs, err := drv.Outs()
	require.NoError(t, err)
	require.NotEmpty(t, outs)
	require.NoError(t, outs[0].Open())

	return &Driver{
		logger: logger.NewNop(),
		ports: func() []drivers.In {
			ins, _ := drv.Ins()
			return ins
		},
	}, outs[0]
}

func TestListenForwardsControlChanges(t *testing.T) {
	d, out := newTestDriver(t)

	devices, err := d.ListDevices()
	require.NoError(t, err)
	require.Len(t, devices, 1)

	r := &recorder{}
	port, err := d.Listen(0, r)
	require.NoError(t, err)
	defer port.Close()

	require.NoError(t, out.Send(gomidi.NoteOn(0, 60, 100)))
	require.NoError(t, out.Send(gomidi.ControlChange(0, 7, 64)))

	assert.Eventually(t, func() bool { return len(r.Packets()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, contracts.Packet{Channel: 1, Controller: 7, Value: 64}, r.Packets()[0])
}

func TestListenInvalidDevice(t *testing.T) {
	d, _ := newTestDriver(t)
	_, err := d.Listen(3, &recorder{})
	assert.ErrorIs(t, err, ErrInvalidMIDIDevice)
}
