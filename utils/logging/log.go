// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Logger = (*log)(nil)

// Logger defines the interface that is used to keep a record of all events
// that happen to the program.
type Logger interface {
	// Fatal that the program can not recover from
	Fatal(msg string, fields ...zap.Field)
	// Error that the program can recover from
	Error(msg string, fields ...zap.Field)
	// Warn is for warnings about unexpected but tolerable events
	Warn(msg string, fields ...zap.Field)
	// Info is for normal operational messages
	Info(msg string, fields ...zap.Field)
	// Debug is for messages only useful when debugging
	Debug(msg string, fields ...zap.Field)

	// Stop flushes any buffered log entries
	Stop()
}

type log struct {
	internalLogger *zap.Logger
}

func newTermEncoder() zapcore.Encoder {
	config := zap.NewProductionEncoderConfig()
	config.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewConsoleEncoder(config)
}

// NewLogger returns a logger that writes entries at or above [level] to [w],
// tagged with [prefix].
func NewLogger(prefix string, level Level, w io.Writer) Logger {
	core := zapcore.NewCore(newTermEncoder(), zapcore.AddSync(w), zapcore.Level(level))
	logger := zap.New(core)
	if prefix != "" {
		logger = logger.Named(prefix)
	}
	return &log{internalLogger: logger}
}

func (l *log) Fatal(msg string, fields ...zap.Field) {
	l.internalLogger.Fatal(msg, fields...)
}

func (l *log) Error(msg string, fields ...zap.Field) {
	l.internalLogger.Error(msg, fields...)
}

func (l *log) Warn(msg string, fields ...zap.Field) {
	l.internalLogger.Warn(msg, fields...)
}

func (l *log) Info(msg string, fields ...zap.Field) {
	l.internalLogger.Info(msg, fields...)
}

func (l *log) Debug(msg string, fields ...zap.Field) {
	l.internalLogger.Debug(msg, fields...)
}

func (l *log) Stop() {
	_ = l.internalLogger.Sync()
}
