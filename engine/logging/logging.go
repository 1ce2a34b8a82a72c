package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a configured level name to a zerolog level.
// Unknown names fall back to info.
//
// Parameters:
//   - name: DEBUG, INFO, WARN, ERROR or TRACE in any case
//
// Returns:
//   - zerolog.Level: the matching level
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "TRACE":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// New builds the process logger: a colored console writer on console plus a
// plain console writer on each extra writer (log files), with RFC3339 UTC
// timestamps.
//
// Parameters:
//   - console: the primary output, usually os.Stderr
//   - level: the configured level name
//   - extra: additional outputs written without color
//
// Returns:
//   - zerolog.Logger: the configured logger
func New(console io.Writer, level string, extra ...io.Writer) zerolog.Logger {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	writers := make([]io.Writer, 0, len(extra)+1)
	writers = append(writers, zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
	})
	for _, w := range extra {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(level)).
		With().Timestamp().Logger()
}
