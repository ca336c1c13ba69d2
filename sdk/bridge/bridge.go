// Package bridge assembles a MIDI-to-volume bridge from functional options.
package bridge

import (
	"io"

	"go.uber.org/multierr"

	"github.com/leandrodaf/midivol/internal/connection"
	"github.com/leandrodaf/midivol/internal/settings"
	"github.com/leandrodaf/midivol/internal/volume"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

// NewBridge creates a bridge with the specified options and binds the
// configured source. A source that cannot be bound does not fail the call;
// the fault is reported through GetError.
//
// opts ...contracts.Option: A variadic list of option functions to customize the bridge.
//
// Returns:
//   - contracts.Bridge: The running bridge. Close releases the driver and the
//     volume writer, including ones supplied through options.
//   - error: An error if the options are invalid or no driver or writer could be created.
func NewBridge(opts ...contracts.Option) (contracts.Bridge, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return newBridge(&options)
}

type bridge struct {
	*settings.Service
	conn   *connection.Connection
	driver contracts.Driver
	writer contracts.VolumeWriter
	logger contracts.Logger
}

func newBridge(o *contracts.Options) (*bridge, error) {
	drv := o.Driver
	if drv == nil {
		var err error
		if drv, err = defaultDriver(o); err != nil {
			return nil, err
		}
	}

	writer := o.VolumeWriter
	if writer == nil {
		var err error
		if writer, err = defaultVolumeWriter(o); err != nil {
			return nil, multierr.Append(err, drv.Close())
		}
	}

	actuator := volume.NewActuator(o.InitialLevel, o.SampleTime, writer, volume.WithLogger(o.Logger))
	conn := connection.New(drv, o.SourceIndex, actuator,
		connection.WithLogger(o.Logger),
		connection.WithFilter(o.Channel, o.Controller),
		connection.WithMaxLevel(o.MaxLevel),
	)

	o.Logger.Info("Bridge started",
		o.Logger.Field().Int("device", o.SourceIndex),
		o.Logger.Field().Int("channel", o.Channel),
		o.Logger.Field().Int("controller", o.Controller),
		o.Logger.Field().Duration("sample_time", o.SampleTime))

	return &bridge{
		Service: settings.New(conn, drv, o.Logger),
		conn:    conn,
		driver:  drv,
		writer:  writer,
		logger:  o.Logger,
	}, nil
}

// Close releases the binding, then the driver and the volume writer.
func (b *bridge) Close() error {
	err := b.conn.Close()
	err = multierr.Append(err, b.driver.Close())
	if c, ok := b.writer.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	if err != nil {
		b.logger.Error("Bridge closed with errors", b.logger.Field().Error("error", err))
		return err
	}
	b.logger.Info("Bridge closed")
	return nil
}
