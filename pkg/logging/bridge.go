package logging

import (
	"context"
	"os"

	commonlog "github.com/RyanBlaney/latency-benchmark-common/logging"
	sonidolog "github.com/RyanBlaney/sonido-sonar/logging"
)

// RouteLibraryLogs makes the decoder libraries log through l. Their default
// loggers print debug and info lines to stdout, where reports are written.
func RouteLibraryLogs(l Logger) {
	commonlog.SetGlobalLogger(&commonBridge{target: l.WithFields(Fields{"library": "latency-benchmark-common"})})
	sonidolog.SetGlobalLogger(&sonidoBridge{target: l.WithFields(Fields{"library": "sonido-sonar"})})
}

// commonBridge satisfies the latency-benchmark-common logger interface.
// Levels stay under the application's control, so SetLevel is ignored.
type commonBridge struct {
	target Logger
}

func (b *commonBridge) Debug(msg string, fields ...commonlog.Fields) {
	b.target.Debug(msg, fromCommon(fields)...)
}

func (b *commonBridge) Info(msg string, fields ...commonlog.Fields) {
	b.target.Info(msg, fromCommon(fields)...)
}

func (b *commonBridge) Warn(msg string, fields ...commonlog.Fields) {
	b.target.Warn(msg, fromCommon(fields)...)
}

func (b *commonBridge) Error(err error, msg string, fields ...commonlog.Fields) {
	b.target.Error(err, msg, fromCommon(fields)...)
}

func (b *commonBridge) Fatal(err error, msg string, fields ...commonlog.Fields) {
	b.target.Error(err, msg, fromCommon(fields)...)
	os.Exit(1)
}

func (b *commonBridge) WithFields(fields commonlog.Fields) commonlog.Logger {
	return &commonBridge{target: b.target.WithFields(Fields(fields))}
}

func (b *commonBridge) WithContext(ctx context.Context) commonlog.Logger { return b }

func (b *commonBridge) SetLevel(level commonlog.Level) {}

func fromCommon(sets []commonlog.Fields) []Fields {
	out := make([]Fields, len(sets))
	for i, f := range sets {
		out[i] = Fields(f)
	}
	return out
}

// sonidoBridge satisfies the sonido-sonar logger interface.
type sonidoBridge struct {
	target Logger
}

func (b *sonidoBridge) Debug(msg string, fields ...sonidolog.Fields) {
	b.target.Debug(msg, fromSonido(fields)...)
}

func (b *sonidoBridge) Info(msg string, fields ...sonidolog.Fields) {
	b.target.Info(msg, fromSonido(fields)...)
}

func (b *sonidoBridge) Warn(msg string, fields ...sonidolog.Fields) {
	b.target.Warn(msg, fromSonido(fields)...)
}

func (b *sonidoBridge) Error(err error, msg string, fields ...sonidolog.Fields) {
	b.target.Error(err, msg, fromSonido(fields)...)
}

func (b *sonidoBridge) Fatal(err error, msg string, fields ...sonidolog.Fields) {
	b.target.Error(err, msg, fromSonido(fields)...)
	os.Exit(1)
}

func (b *sonidoBridge) WithFields(fields sonidolog.Fields) sonidolog.Logger {
	return &sonidoBridge{target: b.target.WithFields(Fields(fields))}
}

func (b *sonidoBridge) WithContext(ctx context.Context) sonidolog.Logger { return b }

func (b *sonidoBridge) SetLevel(level sonidolog.Level) {}

func fromSonido(sets []sonidolog.Fields) []Fields {
	out := make([]Fields, len(sets))
	for i, f := range sets {
		out[i] = Fields(f)
	}
	return out
}
