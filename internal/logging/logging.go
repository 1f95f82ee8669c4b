// Package logging builds the CLI's zap logger.
package logging

import (
	"fmt"

	"github.com/ukaji3/planingest-go/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config returns the zap configuration for cfg. Logs go to stderr; stdout
// carries the ingested data. verbose forces the debug level.
func Config(cfg config.LoggingConfig, verbose bool) (zap.Config, error) {
	var zc zap.Config
	switch cfg.Format {
	case "json":
		zc = zap.NewProductionConfig()
	case "console", "":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return zap.Config{}, fmt.Errorf("invalid log format: %s", cfg.Format)
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return zap.Config{}, fmt.Errorf("invalid log level: %w", err)
		}
		level = l
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	return zc, nil
}

// New builds a logger from cfg.
func New(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc, err := Config(cfg, verbose)
	if err != nil {
		return nil, err
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
