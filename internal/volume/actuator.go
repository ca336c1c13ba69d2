// Package volume debounces level changes before they reach the host.
package volume

import (
	"time"

	"github.com/leandrodaf/midivol/internal/logger"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

// Actuator holds the most recently requested level and writes it to the host
// at most once per sample interval. Writes happen synchronously inside Set;
// there is no timer, so a value requested inside a closed window is applied
// only by the next Set that finds the window open again.
//
// Actuator is not safe for concurrent use. The connection that owns it
// serializes access.
type Actuator struct {
	writer    contracts.VolumeWriter
	logger    contracts.Logger
	now       func() time.Time
	level     float64
	interval  time.Duration
	lastWrite time.Time
}

// ActuatorOption customizes an Actuator.
type ActuatorOption func(*Actuator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ActuatorOption {
	return func(a *Actuator) {
		a.now = now
	}
}

// WithLogger sets the logger used to report failed writes.
func WithLogger(l contracts.Logger) ActuatorOption {
	return func(a *Actuator) {
		a.logger = l
	}
}

// NewActuator returns an actuator at initialLevel whose window starts now.
func NewActuator(initialLevel float64, interval time.Duration, writer contracts.VolumeWriter, opts ...ActuatorOption) *Actuator {
	a := &Actuator{
		writer:   writer,
		logger:   logger.NewNop(),
		now:      time.Now,
		level:    initialLevel,
		interval: interval,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.lastWrite = a.now()
	return a
}

// Set records level and writes it if the sample interval has elapsed since
// the last write.
func (a *Actuator) Set(level float64) {
	a.level = level

	now := a.now()
	if now.Sub(a.lastWrite) < a.interval {
		return
	}
	a.lastWrite = now

	if err := a.writer.SetVolume(a.level); err != nil {
		a.logger.Warn("Failed to set output volume",
			a.logger.Field().Float64("level", a.level),
			a.logger.Field().Error("error", err))
		return
	}
	a.logger.Debug("Output volume set", a.logger.Field().Float64("level", a.level))
}

// Level returns the most recently requested level.
func (a *Actuator) Level() float64 {
	return a.level
}

// SleepTime returns the sample interval.
func (a *Actuator) SleepTime() time.Duration {
	return a.interval
}

// SetSleepTime replaces the sample interval. The current window keeps its
// start time.
func (a *Actuator) SetSleepTime(d time.Duration) {
	a.interval = d
}
