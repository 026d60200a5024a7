package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	baseLogger *zap.Logger
	atomicLVL  zap.AtomicLevel
)

func init() {
	atomicLVL = zap.NewAtomicLevelAt(ParseLevel(getEnv("ENVELOPE_LOG_LEVEL", "info")))
	l, err := config(atomicLVL).Build(zap.AddCaller())
	if err != nil {
		l = zap.NewNop()
	}
	baseLogger = l
}

func config(lvl zap.AtomicLevel) zap.Config {
	return zap.Config{
		Level:       lvl,
		Development: false,
		Encoding:    "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stack",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
}

// L returns the process-wide logger.
func L() *zap.Logger { return baseLogger }

// SetLevel changes the level of L() at runtime.
func SetLevel(level string) { atomicLVL.SetLevel(ParseLevel(level)) }

// New builds an independent JSON logger at the given level.
func New(level string) (*zap.Logger, error) {
	return config(zap.NewAtomicLevelAt(ParseLevel(level))).Build(zap.AddCaller())
}

func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
