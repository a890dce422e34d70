package builtin

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"dai/internal/provider"
	"dai/internal/services"
	"dai/pkg/logging"
)

func TestLogService_Subsystem(t *testing.T) {
	var buf bytes.Buffer
	logging.InitForCLI(logging.LevelDebug, &buf)

	c := initialized(t, map[string]provider.ServiceConfig{
		LogRole: provider.Enabled(services.Settings{"subsystem": "maker"}),
	})
	log := get[*LogService](t, c, LogRole)
	assert.False(t, log.IsNull())

	log.Info("hello %s", "world")
	log.Error(errors.New("boom"), "failed")

	out := buf.String()
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "subsystem=maker")
	assert.Contains(t, out, "error=boom")
}

func TestLogService_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logging.InitForCLI(logging.LevelDebug, &buf)

	c := initialized(t, map[string]provider.ServiceConfig{
		LogRole: provider.Disabled(),
	})
	log := get[*LogService](t, c, LogRole)
	assert.True(t, log.IsNull())

	log.Debug("quiet")
	log.Info("quiet")
	log.Warn("quiet")
	log.Error(errors.New("quiet"), "quiet")
	assert.Empty(t, buf.String())
}

func TestLogService_InvalidSubsystem(t *testing.T) {
	c := build(t, map[string]provider.ServiceConfig{
		LogRole: provider.Enabled(services.Settings{"subsystem": 42}),
	})
	assert.Error(t, c.Initialize(t.Context()))
}
