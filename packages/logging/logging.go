// Package logging builds the structured logger used by the CLI.
//
// Diagnostics go to stderr in zap's console encoding so they never mix with
// rendered reports on stdout.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a typed structured logging field.
type Field = zap.Field

// Common field constructors.
var (
	String   = zap.String
	Int      = zap.Int
	Err      = zap.Error
	Duration = zap.Duration
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// Logger is a leveled structured logger. A nil *Logger discards everything.
type Logger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

// New creates a logger writing to w at the given level name
// (debug, info, warn, error). An empty level means DefaultLevel.
func New(level string, w io.Writer) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	atomic := zap.NewAtomicLevelAt(lvl)

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), atomic)
	return &Logger{logger: zap.New(core), level: atomic}, nil
}

// Nop returns a logger that discards all output.
func Nop() *Logger {
	return &Logger{logger: zap.NewNop(), level: zap.NewAtomicLevelAt(zapcore.FatalLevel)}
}

// ParseLevel converts a level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		level = DefaultLevel
	}
	var parsed zapcore.Level
	if err := parsed.Set(level); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return parsed, nil
}

func (l *Logger) must() *zap.Logger {
	if l == nil || l.logger == nil {
		return zap.NewNop()
	}
	return l.logger
}

// SetLevel changes the level at runtime.
func (l *Logger) SetLevel(level string) error {
	if l == nil {
		return nil
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	l.level.SetLevel(lvl)
	return nil
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level zapcore.Level) bool {
	return l.must().Core().Enabled(level)
}

// With returns a child logger carrying fields.
func (l *Logger) With(fields ...Field) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{logger: l.must().With(fields...), level: l.level}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.must().Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.must().Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.must().Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.must().Error(msg, fields...) }

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.must().Sync()
}
