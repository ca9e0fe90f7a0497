// Package logging provides structured logging setup for the pipeline CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup initializes the default slog logger writing human-readable text to
// stderr so report output on stdout stays clean. Debug mode lowers the level.
func Setup(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// SetupWriter is Setup with an explicit destination, used by tests.
func SetupWriter(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
