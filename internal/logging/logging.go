package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func level(verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	return zapcore.WarnLevel
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// New returns a console logger on stderr. It logs warnings and errors, or
// everything down to debug when verbose is set.
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig = encoderConfig()
	config.Level = zap.NewAtomicLevelAt(level(verbose))
	config.Sampling = nil
	config.DisableStacktrace = !verbose
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, nil
}

// NewWriter returns a console logger writing to w.
func NewWriter(w io.Writer, verbose bool) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(w),
		level(verbose),
	)
	return zap.New(core)
}
