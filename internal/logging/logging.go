// Package logging builds the structured logger shared by the command line
// tools. The numerical packages never log.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger at the given level (debug, info, warn, error;
// anything else means info). Output goes to stderr, plus file when set.
func New(level, file string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	outputPath := []string{"stderr"}
	if file != "" {
		outputPath = append(outputPath, file)
	}
	config.OutputPaths = outputPath
	config.ErrorOutputPaths = outputPath
	config.EncoderConfig.TimeKey = "t"
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	config.DisableCaller = false

	return config.Build()
}

// Nop is used by tests and library callers that do not care about logs.
func Nop() *zap.Logger { return zap.NewNop() }

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
