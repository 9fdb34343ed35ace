package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/motoki/aniterm/internal/config"
)

// SetupLogger opens the configured log file and returns a JSON-structured
// logger writing to it. The log never goes to the terminal, which belongs
// to the TUI.
func SetupLogger(cfg *config.LoggingConfig) (*slog.Logger, error) {
	path, err := cfg.ExpandedFile()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level: Level(cfg.Level),
	})
	return slog.New(handler), nil
}

// Level parses a configured level name ("debug", "INFO", "warn", "error",
// any case). Anything unrecognized falls back to info.
func Level(name string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// NullLogger returns a logger that discards all output.
func NullLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
