package gamutcheck

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_NewLogger(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, RoundHalfUp, cfg.Rounding)
	assert.Equal(t, 95, cfg.JPEGQuality)

	log, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	var buf bytes.Buffer
	cfg.LogLevel = "warn"
	cfg.LogOutput = &buf
	log, err = cfg.NewLogger()
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "time=")

	cfg.LogLevel = "loud"
	_, err = cfg.NewLogger()
	assert.Error(t, err)
}
