package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roblox-discovery/internal/config"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf)
	l.Debug().Str("query", "doors").Msg("searching games")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "doors", entry["query"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry, "caller")
}

func TestApplyLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	l := newLogger(&buf)

	require.NoError(t, ApplyLevel(&config.Config{LogLevel: "warn"}, l))
	buf.Reset()
	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())
	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")

	assert.Error(t, ApplyLevel(&config.Config{LogLevel: "loud"}, l))
}
