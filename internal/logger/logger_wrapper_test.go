package logger_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/leandrodaf/midivol/internal/logger"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

func TestZapLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewFromCore(core)

	log.Info("bound",
		log.Field().Int("device", 2),
		log.Field().String("name", "Knob Controller"),
		log.Field().Error("error", errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "bound", entry.Message)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	ctx := entry.ContextMap()
	assert.EqualValues(t, 2, ctx["device"])
	assert.Equal(t, "Knob Controller", ctx["name"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestZapLoggerSetLevel(t *testing.T) {
	log := logger.NewZapLogger()
	assert.NotPanics(t, func() {
		log.SetLevel(contracts.ErrorLevel)
		log.Debug("hidden")
		log.Info("hidden")
	})
}

func TestZapLoggerFileDestination(t *testing.T) {
	log := logger.NewZapLogger()

	err := log.SetDestination(contracts.FileLog)
	assert.Error(t, err, "file destination without a path should fail")

	path := filepath.Join(t.TempDir(), "midivol.log")
	require.NoError(t, log.SetDestination(contracts.FileLog, path))
	log.Warn("written to file")

	assert.FileExists(t, path)
	assert.NoError(t, log.SetDestination(contracts.ConsoleLog))
	assert.Error(t, log.SetDestination("syslog"))
}

func TestNopLogger(t *testing.T) {
	log := logger.NewNop()
	assert.NotPanics(t, func() {
		log.Error("ignored", log.Field().Bool("ok", true))
	})
}

func TestZapLoggerFromCoreHonoursSetLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewFromCore(core)

	log.SetLevel(contracts.ErrorLevel)
	log.Info("hidden")
	log.Warn("hidden")
	log.Error("shown")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)

	log.SetLevel(contracts.DebugLevel)
	log.Debug("shown again")
	assert.Equal(t, 2, logs.Len())
}
