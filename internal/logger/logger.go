package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appName = "job-ranker"

// New builds the process logger. Output goes to stderr because stdout carries the
// ranking table. Console output is meant for a terminal, json output for log shippers.
func New(json bool, debug bool) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	encoder := zapcore.EncoderConfig{
		MessageKey: "step",
		LevelKey:   "level",
		TimeKey:    "time",
		NameKey:    "logger",
		CallerKey:  "caller",

		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(time.TimeOnly),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	encoding := "console"
	if json {
		encoding = "json"
		encoder.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder.EncodeTime = zapcore.RFC3339TimeEncoder
	}

	cfg := zap.Config{
		Encoding:          encoding,
		Level:             level,
		DisableStacktrace: !debug,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		EncoderConfig:     encoder,
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger.Named(appName), nil
}
