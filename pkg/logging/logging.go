// Package logging provides the structured logger used across audio-risk.
//
// Components attach their identity once with WithFields and add per-call
// context on top:
//
//	logger := logging.WithFields(logging.Fields{"component": "feature_extractor"})
//	logger.Debug("Extracting features", logging.Fields{"samples": len(pcm)})
package logging

import (
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields is a set of key/value pairs attached to a log entry.
type Fields map[string]any

// Level is a logging severity.
type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

// Logger is the logging interface handed to every component.
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

var (
	level    = zap.NewAtomicLevelAt(InfoLevel)
	rootOnce sync.Once
	root     Logger
)

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewDefaultLogger returns the process-wide logger writing to stderr.
func NewDefaultLogger() Logger {
	rootOnce.Do(func() {
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderCfg),
			zapcore.Lock(os.Stderr),
			level,
		)
		root = NewWithCore(core)
	})
	return root
}

// NewWithCore wraps an arbitrary zap core. Tests use it with an observer core.
func NewWithCore(core zapcore.Core) Logger {
	return &zapLogger{sugar: zap.New(core).Sugar()}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

// SetLevel changes the level of the default logger.
func SetLevel(l Level) {
	level.SetLevel(l)
}

// GetLevel reports the level of the default logger.
func GetLevel() Level {
	return level.Level()
}

// ParseLevel converts names such as "debug" or "WARN" to a Level.
// Unknown names fall back to InfoLevel.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error", "fatal":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// WithFields returns the default logger with fields attached.
func WithFields(fields Fields) Logger {
	return NewDefaultLogger().WithFields(fields)
}

// Debug logs on the default logger.
func Debug(msg string, fields ...Fields) { NewDefaultLogger().Debug(msg, fields...) }

// Info logs on the default logger.
func Info(msg string, fields ...Fields) { NewDefaultLogger().Info(msg, fields...) }

// Warn logs on the default logger.
func Warn(msg string, fields ...Fields) { NewDefaultLogger().Warn(msg, fields...) }

// Error logs on the default logger.
func Error(err error, msg string, fields ...Fields) {
	NewDefaultLogger().Error(err, msg, fields...)
}

func (l *zapLogger) Debug(msg string, fields ...Fields) {
	l.sugar.Debugw(msg, keysAndValues(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...Fields) {
	l.sugar.Infow(msg, keysAndValues(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...Fields) {
	l.sugar.Warnw(msg, keysAndValues(fields)...)
}

func (l *zapLogger) Error(err error, msg string, fields ...Fields) {
	kv := keysAndValues(fields)
	if err != nil {
		kv = append(kv, "error", err.Error())
	}
	l.sugar.Errorw(msg, kv...)
}

func (l *zapLogger) WithFields(fields Fields) Logger {
	return &zapLogger{sugar: l.sugar.With(keysAndValues([]Fields{fields})...)}
}

// keysAndValues flattens field sets into zap's alternating key/value form.
// Keys are sorted so entries render deterministically.
func keysAndValues(sets []Fields) []any {
	if len(sets) == 0 {
		return nil
	}
	merged := make(Fields)
	for _, set := range sets {
		for k, v := range set {
			merged[k] = v
		}
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		kv = append(kv, k, merged[k])
	}
	return kv
}
