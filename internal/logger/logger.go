package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a logger
type Logger struct {
	*zap.SugaredLogger
}

// New creates a new logger that writes to stdout and stderr
func New(loglevel zapcore.Level) *Logger {
	return NewWithOutput(loglevel, os.Stdout, os.Stderr)
}

// NewWithOutput creates a new logger with the given outputs.
// Entries below error level go to stdout, the rest to stderr.
func NewWithOutput(loglevel zapcore.Level, stdout, stderr io.Writer) *Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoder := zapcore.NewJSONEncoder(encoderConfig)

	stderrLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= loglevel && lvl >= zapcore.ErrorLevel
	})

	stdoutLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= loglevel && lvl < zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(stderr)), stderrLevel),
		zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(stdout)), stdoutLevel),
	)

	// Errors are fatal for a run, so they carry a stack trace
	log := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	// Redirect stdlib log package to zap
	_, _ = zap.RedirectStdLogAt(log, zapcore.ErrorLevel)

	return &Logger{
		log.Sugar(),
	}
}
