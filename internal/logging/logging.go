// Package logging builds the zap logger used across budgetdash.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel overrides the configured log level (DEBUG, INFO, WARN, ERROR).
const EnvLevel = "LOG_LEVEL"

// Options controls where and how much to log.
type Options struct {
	Level string // config level, used when LOG_LEVEL is unset
	File  string // log file path; the TUI owns the terminal so logs go here
	// Stderr sends logs to stderr instead of File.
	Stderr bool
}

// New builds a logger and the func that flushes it and releases the log
// file. Errors opening the log file are returned so the caller can fall
// back to Nop.
func New(opts Options) (*zap.Logger, func() error, error) {
	level := ParseLevel(os.Getenv(EnvLevel))
	if os.Getenv(EnvLevel) == "" {
		level = ParseLevel(opts.Level)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var (
		sink    zapcore.WriteSyncer
		encoder zapcore.Encoder
		file    *os.File
	)
	if opts.Stderr || opts.File == "" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
		sink = zapcore.Lock(os.Stderr)
	} else {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			return nil, nil, fmt.Errorf("creating log dir: %w", err)
		}
		//nolint:gosec // log path is configured by the local user
		f, err := os.OpenFile(opts.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		file = f
		encoder = zapcore.NewJSONEncoder(encCfg)
		sink = zapcore.AddSync(f)
	}

	core := zapcore.NewCore(encoder, sink, level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	closeFn := func() error {
		// Sync on a terminal stderr fails on some platforms; nothing to report.
		_ = logger.Sync()
		if file == nil {
			return nil
		}
		return file.Close()
	}
	return logger, closeFn, nil
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
