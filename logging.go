package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap to expose the seven levels spec.md §6 names as the
// log(level, fmt, args…) collaborator. zap has no native "data" or "notice"
// level; both map onto Info with a "kind" field so the distinction survives
// in structured output instead of inventing custom zap levels.
type Logger struct {
	z *zap.SugaredLogger
}

// NewLogger builds a console logger when stderr is a terminal (colorized,
// human-oriented) and a JSON logger otherwise (piped to a file or another
// process, e.g. under a supervisor) — go-isatty decides which, rather than
// a --json flag the caller would otherwise have to remember to pass when
// redirecting output. debug controls whether Debug-level lines are emitted.
func NewLogger(debug bool) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	if isatty.IsTerminal(os.Stderr.Fd()) {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{z: z.Sugar()}, nil
}

func (l *Logger) sync() { _ = l.z.Sync() }

func (l *Logger) Data(format string, args ...any) {
	l.z.With("kind", "data").Infof(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.z.Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.z.Infof(format, args...)
}

func (l *Logger) Notice(format string, args ...any) {
	l.z.With("kind", "notice").Infof(format, args...)
}

func (l *Logger) Warning(format string, args ...any) {
	l.z.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.z.Errorf(format, args...)
}

func (l *Logger) Fatal(format string, args ...any) {
	l.z.Fatalf(format, args...)
}
