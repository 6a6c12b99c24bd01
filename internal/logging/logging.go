package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hvacdesk/hv/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup builds the process logger. Records go to a rotated file when
// cfg.File is set and are discarded otherwise, so command output stays clean.
// The returned closer releases the log file.
func Setup(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	writer, closer, err := openWriter(cfg)
	if err != nil {
		return nil, nil, err
	}

	logger := New(writer, cfg.Level, cfg.Format)
	slog.SetDefault(logger)

	return logger, closer, nil
}

// New returns a logger writing to w at the named level.
func New(w io.Writer, level string, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func openWriter(cfg config.LogConfig) (io.Writer, io.Closer, error) {
	if cfg.File == "" {
		return io.Discard, nopCloser{}, nil
	}
	if cfg.File == "-" {
		return os.Stderr, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   false,
	}
	return rotated, rotated, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
