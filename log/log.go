// Package log provides console logging for the vault-audit tool,
// wrapping zap behind a small stable API.
package log

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// mainLoggerName is the name of the global logger.
const mainLoggerName = "vault-audit"

// where logs go by default.
var logWriter io.Writer = os.Stderr

// AppLog is the app singleton logger.
var (
	mu     sync.RWMutex
	AppLog Log
)

// GetLogger gets the global logger.
func GetLogger() Log {
	mu.RLock()
	defer mu.RUnlock()

	return AppLog
}

// SetupGlobal overwrites the global logger.
func SetupGlobal(logger Log) {
	mu.Lock()
	defer mu.Unlock()
	AppLog = NewFromLog(logger.logger.Named(mainLoggerName))
}

func init() {
	SetupGlobal(NewWithLevel(mainLoggerName,
		zap.NewAtomicLevelAt(zapcore.InfoLevel),
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
	))
}

// NewNop creates a silent logger.
func NewNop() Log {
	return NewFromLog(zap.NewNop())
}

// NewWithLevel creates a logger with a fixed level.
func NewWithLevel(module string, level zap.AtomicLevel, encoder zapcore.Encoder) Log {
	syncer := zapcore.AddSync(logWriter)
	core := zapcore.NewCore(encoder, syncer, level)
	return NewFromLog(zap.New(core).Named(module))
}

// NewFromLog creates a Log from an existing zap logger.
func NewFromLog(l *zap.Logger) Log {
	return Log{logger: l, sugar: l.Sugar()}
}

// public wrappers abstracting away the logging lib impl

// Info prints formatted info level log message.
func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

// Debug prints formatted debug level log message.
func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

// Warning prints formatted warning level log message.
func Warning(msg string, args ...any) {
	GetLogger().Warning(msg, args...)
}

// Error prints formatted error level log message.
func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// With returns a FieldLogger appending fields to the global logger.
func With() FieldLogger {
	return FieldLogger{l: GetLogger().logger}
}
