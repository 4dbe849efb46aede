package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the global logger instance. It defaults to a no-op logger so
// library code and tests can log without calling Init first.
var L = zap.NewNop()

// Init builds the global logger. level is one of "debug", "info",
// "warn", "error"; isProduction switches between JSON output and a
// human-readable console format.
func Init(level string, isProduction bool) error {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
		fmt.Fprintf(os.Stderr, "invalid log level %q, falling back to info\n", level)
	}

	var err error
	if isProduction {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
		L, err = config.Build()
	} else {
		config := zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.Level = zap.NewAtomicLevelAt(zapLevel)
		L, err = config.Build()
	}
	if err != nil {
		return fmt.Errorf("building zap logger: %w", err)
	}
	return nil
}

// Sync flushes any buffered log entries. Call it before the
// application exits.
func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}
