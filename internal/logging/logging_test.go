package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"liquefy/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(config.LogConfig{Level: "debug", Format: "json"}, &buf)

	log.WithField("file", "a.xlsx").Debug("file processed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "a.xlsx", entry["file"])
	assert.Equal(t, "file processed", entry["msg"])
}

func TestNewWithOutput_UnknownLevel(t *testing.T) {
	log := NewWithOutput(config.LogConfig{Level: "chatty", Format: "text"}, &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
