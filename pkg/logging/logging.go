// Package logging builds the process logger from the environment.
//
// TICKETBOT_LOG_LEVEL picks the level (debug, info, warn, error; info
// when unset or unknown). TICKETBOT_LOG_SINK set to "file:/path" appends
// to that file; otherwise logs go to the fallback writer, which the CLI
// sets to stderr so they stay out of the console transcript.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment variables read by FromEnv.
const (
	EnvLevel = "TICKETBOT_LOG_LEVEL"
	EnvSink  = "TICKETBOT_LOG_SINK"
)

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger at level writing to sink. The returned close
// function releases a file sink and is a no-op otherwise. A file that
// cannot be opened is reported on fallback and fallback is used instead.
func New(level, sink string, fallback io.Writer) (*slog.Logger, func() error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if path, ok := strings.CutPrefix(sink, "file:"); ok {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err == nil {
			return slog.New(slog.NewTextHandler(f, opts)), f.Close
		}
		fmt.Fprintf(fallback, "failed to open log file %s: %v\n", path, err)
	}
	return slog.New(slog.NewTextHandler(fallback, opts)), func() error { return nil }
}

// FromEnv is New with level and sink read from the environment.
func FromEnv(fallback io.Writer) (*slog.Logger, func() error) {
	return New(os.Getenv(EnvLevel), os.Getenv(EnvSink), fallback)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
