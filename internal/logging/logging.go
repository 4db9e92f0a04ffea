// Package logging builds the zap loggers used by the command-line tools.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugLevel is the level selected by --verbose
const DebugLevel = "debug"

// New creates a console logger writing to stderr at the given level
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.DisableCaller = lvl > zapcore.DebugLevel
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}
	return logger, nil
}

// ForVerbosity picks the debug level when verbose is set, otherwise level
func ForVerbosity(level string, verbose bool) string {
	if verbose {
		return DebugLevel
	}
	return level
}

// RedirectStdLog routes the standard library logger, used by the platform
// client, into logger at debug level. The returned function restores it.
func RedirectStdLog(logger *zap.Logger) (func(), error) {
	return zap.RedirectStdLogAt(logger.Named("ytdlp"), zapcore.DebugLevel)
}
