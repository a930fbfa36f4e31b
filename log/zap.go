package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is an exported type that embeds our logger.
type Log struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

// Info prints formatted info level log message.
func (l Log) Info(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

// Debug prints formatted debug level log message.
func (l Log) Debug(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

// Error prints formatted error level log message.
func (l Log) Error(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

// Warning prints formatted warning level log message.
func (l Log) Warning(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

// Fatal prints the log message and exits.
func (l Log) Fatal(format string, args ...any) {
	l.sugar.Fatalf(format, args...)
}

// WithName returns a named sub-logger.
func (l Log) WithName(name string) Log {
	return NewFromLog(l.logger.Named(name))
}

// Zap exposes the underlying zap logger.
func (l Log) Zap() *zap.Logger {
	return l.logger
}

// Wrap and export field logic

// Field is a log field holding a name and value.
type Field zap.Field

// Field satisfies the LoggableField interface.
func (f Field) Field() Field { return f }

// String returns a string Field.
func String(name, val string) Field {
	return Field(zap.String(name, val))
}

// Int returns an int Field.
func Int(name string, val int) Field {
	return Field(zap.Int(name, val))
}

// Uint64 returns an uint64 Field.
func Uint64(name string, val uint64) Field {
	return Field(zap.Uint64(name, val))
}

// Int64 returns an int64 Field.
func Int64(name string, val int64) Field {
	return Field(zap.Int64(name, val))
}

// Bool returns a bool Field.
func Bool(name string, val bool) Field {
	return Field(zap.Bool(name, val))
}

// Stringer returns a Field for a fmt.Stringer.
func Stringer(name string, val interface{ String() string }) Field {
	return Field(zap.Stringer(name, val))
}

// Account returns a String field (key "account").
func Account(val string) Field {
	return String("account", val)
}

// Mint returns a String field (key "mint").
func Mint(val string) Field {
	return String("mint", val)
}

// Amount returns a Uint64 field (key "amount").
func Amount(val uint64) Field {
	return Uint64("amount", val)
}

// Err returns an error field.
func Err(v error) Field {
	return Field(zap.Error(v))
}

// LoggableField is an interface to enable every type to be used as a log field.
type LoggableField interface {
	Field() Field
}

func unpack(fields []LoggableField) []zap.Field {
	flds := make([]zap.Field, len(fields))
	for i, f := range fields {
		flds[i] = zap.Field(f.Field())
	}
	return flds
}

// FieldLogger is a logger that only logs messages with fields. It does not
// support formatting.
type FieldLogger struct {
	l *zap.Logger
}

// With returns a logger object that logs fields.
func (l Log) With() FieldLogger {
	return FieldLogger{l: l.logger}
}

// WithFields returns a logger with fields permanently appended to it.
func (l Log) WithFields(fields ...LoggableField) Log {
	return NewFromLog(l.logger.With(unpack(fields)...))
}

// SetLevel returns a copy of l that logs at the given level.
func (l Log) SetLevel(level zapcore.Level) Log {
	lgr := l.logger.WithOptions(zap.IncreaseLevel(level))
	return NewFromLog(lgr)
}

// Info prints message with fields.
func (fl FieldLogger) Info(msg string, fields ...LoggableField) {
	fl.l.Info(msg, unpack(fields)...)
}

// Debug prints message with fields.
func (fl FieldLogger) Debug(msg string, fields ...LoggableField) {
	fl.l.Debug(msg, unpack(fields)...)
}

// Error prints message with fields.
func (fl FieldLogger) Error(msg string, fields ...LoggableField) {
	fl.l.Error(msg, unpack(fields)...)
}

// Warning prints message with fields.
func (fl FieldLogger) Warning(msg string, fields ...LoggableField) {
	fl.l.Warn(msg, unpack(fields)...)
}
