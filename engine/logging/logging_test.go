package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" Warn ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var console, file bytes.Buffer
	logger := New(&console, "warn", &file)

	logger.Info().Msg("hidden")
	logger.Warn().Str("component", "camera").Msg("shown")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
	assert.Contains(t, file.String(), "component=camera")
	assert.NotContains(t, file.String(), "\x1b[", "extra writers are uncolored")
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}
