// Package logger provides the process-wide structured logger used by every
// worker and handler. It mirrors the teacher's libs/go/logger: a package
// level *zap.Logger swapped between production and development encoders by
// deploy stage, plus thin wrapper functions so call sites never import zap
// directly.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	StageProd  = "prod"
	StageDev   = "dev"
	StageLocal = "local"
	StageTest  = "test"
)

// Log is the global logger instance. Nil until InitLogger runs.
var Log *zap.Logger

// InitLogger initializes the logger with the configuration appropriate for
// stage. Production and dev/local/test all build a real *zap.Logger; only
// the encoder and level coloring differ.
func InitLogger(stage string) {
	var cfg zap.Config
	if stage == StageProd {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	built, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Log = built
}

func Info(msg string, fields ...zapcore.Field) {
	if Log == nil {
		return
	}
	Log.Info(msg, fields...)
}

func Error(msg string, fields ...zapcore.Field) {
	if Log == nil {
		return
	}
	Log.Error(msg, fields...)
}

func Debug(msg string, fields ...zapcore.Field) {
	if Log == nil {
		return
	}
	Log.Debug(msg, fields...)
}

func Warn(msg string, fields ...zapcore.Field) {
	if Log == nil {
		return
	}
	Log.Warn(msg, fields...)
}

// Fatal logs at FatalLevel then calls os.Exit(1) via zap's own behavior.
func Fatal(msg string, fields ...zapcore.Field) {
	if Log == nil {
		panic(msg)
	}
	Log.Fatal(msg, fields...)
}

func With(fields ...zapcore.Field) *zap.Logger {
	if Log == nil {
		return zap.NewNop()
	}
	return Log.With(fields...)
}

func Sync() error {
	if Log == nil {
		return nil
	}
	return Log.Sync()
}
