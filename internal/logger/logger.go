package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rdo34/phonebook/internal/config"
)

// New builds a zap logger from the log section of the config.
// File "-" means stdout; os.DevNull discards everything.
func New(c config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var zc zap.Config
	switch strings.ToLower(c.Format) {
	case "json":
		zc = zap.NewProductionConfig()
	case "console":
		zc = zap.NewDevelopmentConfig()
		zc.Development = false
		zc.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	switch c.File {
	case "", "stderr":
		zc.OutputPaths = []string{"stderr"}
	case "-", "stdout":
		zc.OutputPaths = []string{"stdout"}
	case os.DevNull:
		return zap.NewNop(), nil
	default:
		zc.OutputPaths = []string{c.File}
	}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}
