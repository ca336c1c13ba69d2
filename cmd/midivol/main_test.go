package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leandrodaf/midivol/internal/logger"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

type flakySurface struct {
	contracts.SettingsSurface

	mu       sync.Mutex
	enabled  bool
	failures int
	attempts int
}

func (s *flakySurface) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *flakySurface) GetError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempts > s.failures {
		return ""
	}
	return "MIDI source 0 reported an error"
}

func (s *flakySurface) AttemptRestart() string {
	s.mu.Lock()
	s.attempts++
	s.mu.Unlock()
	return s.GetError()
}

func (s *flakySurface) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func TestSuperviseRestartsRecovers(t *testing.T) {
	s := &flakySurface{enabled: true, failures: 2}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go superviseRestarts(ctx, s, time.Millisecond, logger.NewNop())

	assert.Eventually(t, func() bool { return s.GetError() == "" }, time.Second, time.Millisecond)
	attempts := s.Attempts()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, attempts, s.Attempts(), "a healthy source is left alone")
}

func TestSuperviseRestartsSkipsDisabled(t *testing.T) {
	s := &flakySurface{enabled: false, failures: 100}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	superviseRestarts(ctx, s, time.Millisecond, logger.NewNop())
	assert.Zero(t, s.Attempts())
}
