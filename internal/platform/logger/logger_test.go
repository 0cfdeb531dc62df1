package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerCarriesServiceAttribute(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf)

	log.Info("ping")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "cookiegate", line["service"])
	assert.Equal(t, "ping", line["msg"])
}

func TestLoggerSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf)

	log.Debug("noise")

	assert.Zero(t, buf.Len())
}
