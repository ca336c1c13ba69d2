// Package connection binds a MIDI source to a volume actuator.
//
// A Connection owns exactly one driver registration at a time. The driver
// delivers packets on its own thread; settings changes arrive from the UI.
// Both paths go through the same mutex, which also guards the actuator.
package connection

import (
	"sync"
	"time"

	"github.com/leandrodaf/midivol/internal/logger"
	"github.com/leandrodaf/midivol/internal/volume"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

// Connection forwards matching Control-Change packets from one MIDI source
// to a volume actuator.
type Connection struct {
	driver   contracts.Driver
	logger   contracts.Logger
	maxLevel float64

	mu          sync.Mutex
	sourceIndex int
	channel     int
	controller  int
	binding     Binding
	active      uint64 // generation allowed to deliver; 0 when none
	generation  uint64
	actuator    *volume.Actuator
	closed      bool
}

// Config is a complete filter and timing configuration, applied as one unit.
type Config struct {
	SourceIndex int
	Channel     int
	Controller  int
	SampleTime  time.Duration
}

// Option customizes a Connection.
type Option func(*Connection)

// WithLogger sets the logger.
func WithLogger(l contracts.Logger) Option {
	return func(c *Connection) {
		c.logger = l
	}
}

// WithFilter sets the initial channel and controller filters.
func WithFilter(channel, controller int) Option {
	return func(c *Connection) {
		c.channel = channel
		c.controller = controller
	}
}

// WithMaxLevel sets the level produced by controller value 127.
func WithMaxLevel(max float64) Option {
	return func(c *Connection) {
		c.maxLevel = max
	}
}

// New creates a connection and binds it to sourceIndex. A failed bind does
// not fail construction; it is recorded and reported by Error.
func New(driver contracts.Driver, sourceIndex int, actuator *volume.Actuator, opts ...Option) *Connection {
	c := &Connection{
		driver:      driver,
		logger:      logger.NewNop(),
		maxLevel:    volume.DefaultMaxLevel,
		sourceIndex: sourceIndex,
		channel:     contracts.AnyChannel,
		controller:  contracts.AnyController,
		actuator:    actuator,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.SetPort(c.CreateCallback())
	return c
}

// Error returns the recorded failure, or nil while a binding is active.
func (c *Connection) Error() *contracts.ConnectionError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.binding.Err()
}

// State returns the current state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.binding.state()
}

// CreateCallback registers a new listener for the current source and returns
// the resulting binding. The current binding is left untouched; the new one
// delivers nothing until it is installed with SetPort.
func (c *Connection) CreateCallback() Binding {
	c.mu.Lock()
	c.generation++
	l := &listener{conn: c, gen: c.generation, source: c.sourceIndex}
	c.mu.Unlock()

	port, err := c.driver.Listen(l.source, l)
	if err != nil {
		c.logger.Error("Failed to bind MIDI source",
			c.logger.Field().Int("device", l.source),
			c.logger.Field().Error("error", err))
		return Failed(contracts.NewBindError(l.source, err))
	}
	return Binding{port: port, listener: l}
}

// SetPort installs b as the current binding. The previous binding stops
// delivering before SetPort returns and its port is then closed. Passing
// Stopped() disables processing.
func (c *Connection) SetPort(b Binding) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.release(b)
		return
	}
	old := c.binding
	c.binding = b
	c.active = 0
	if b.Ok() {
		c.active = b.listener.gen
	}
	c.mu.Unlock()

	if old.listener != b.listener {
		c.release(old)
	}

	switch b.state() {
	case StateActive:
		c.logger.Info("MIDI source connected", c.logger.Field().Int("device", b.listener.source))
	case StateStopped:
		c.logger.Info("MIDI processing stopped")
	case StateFaulted:
		c.logger.Warn("MIDI source unavailable", c.logger.Field().Error("error", b.err))
	}
}

// SetSourceIndex selects the source used by the next CreateCallback.
func (c *Connection) SetSourceIndex(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sourceIndex = index
}

// SetChannel changes the accepted channel (1-16, or contracts.AnyChannel).
func (c *Connection) SetChannel(channel int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channel = channel
}

// SetCC changes the accepted controller number (0-127, or contracts.AnyController).
func (c *Connection) SetCC(controller int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = controller
}

// Apply replaces source, filters and sample time in one critical section.
// Like the individual setters, it does not rebind.
func (c *Connection) Apply(cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sourceIndex = cfg.SourceIndex
	c.channel = cfg.Channel
	c.controller = cfg.Controller
	c.actuator.SetSleepTime(cfg.SampleTime)
}

// Config returns the current configuration.
func (c *Connection) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Config{
		SourceIndex: c.sourceIndex,
		Channel:     c.channel,
		Controller:  c.controller,
		SampleTime:  c.actuator.SleepTime(),
	}
}

// SampleTime returns the actuator's sample interval.
func (c *Connection) SampleTime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actuator.SleepTime()
}

// SetSampleTime replaces the actuator's sample interval.
func (c *Connection) SetSampleTime(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actuator.SetSleepTime(d)
}

// Level returns the most recently requested volume level.
func (c *Connection) Level() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actuator.Level()
}

// Close releases the binding. Later SetPort calls release what they are given.
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	old := c.binding
	c.binding = Binding{}
	c.active = 0
	c.mu.Unlock()

	if old.Ok() {
		return old.port.Close()
	}
	return nil
}

func (c *Connection) handlePacket(l *listener, p contracts.Packet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l.gen != c.active {
		return
	}
	if c.channel != contracts.AnyChannel && int(p.Channel) != c.channel {
		return
	}
	if c.controller != contracts.AnyController && int(p.Controller) != c.controller {
		return
	}
	c.actuator.Set(volume.Convert(p.Value, c.maxLevel))
}

func (c *Connection) handleFault(l *listener, err error) {
	c.mu.Lock()
	if l.gen != c.active {
		c.mu.Unlock()
		return
	}
	old := c.binding
	c.binding = Failed(contracts.NewDriverFault(l.source, err))
	c.active = 0
	c.mu.Unlock()

	c.logger.Error("MIDI source failed",
		c.logger.Field().Int("device", l.source),
		c.logger.Field().Error("error", err))

	// The driver may wait for this callback to return before it can stop.
	go c.release(old)
}

func (c *Connection) release(b Binding) {
	if !b.Ok() {
		return
	}
	if err := b.port.Close(); err != nil {
		c.logger.Warn("Failed to close MIDI port", c.logger.Field().Error("error", err))
	}
}

// listener is the registration handed to the driver. Its generation decides
// whether its packets still count.
type listener struct {
	conn   *Connection
	gen    uint64
	source int
}

func (l *listener) OnPacket(p contracts.Packet) {
	l.conn.handlePacket(l, p)
}

func (l *listener) OnError(err error) {
	l.conn.handleFault(l, err)
}
