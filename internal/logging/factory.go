package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatText    = "text"
	FormatZerolog = "zerolog"
	FormatConsole = "console"
)

// New builds a Logger writing to w in the requested format. Unknown formats
// fall back to slog JSON.
func New(w io.Writer, format string, debug bool) Logger {
	switch format {
	case FormatText:
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, slogOptions(debug))))
	case FormatZerolog:
		return NewZerologLogger(zerolog.New(w).Level(zerologLevel(debug)).With().Timestamp().Logger())
	case FormatConsole:
		cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		return NewZerologLogger(zerolog.New(cw).Level(zerologLevel(debug)).With().Timestamp().Logger())
	default:
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, slogOptions(debug))))
	}
}

func slogOptions(debug bool) *slog.HandlerOptions {
	if debug {
		return &slog.HandlerOptions{Level: slog.LevelDebug}
	}
	return &slog.HandlerOptions{Level: slog.LevelInfo}
}

func zerologLevel(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
