// internal/util/logger.go
package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// InitLogger initializes the global structured logger.
// Production emits JSON; "development" switches to a colored console encoder.
func InitLogger(env string) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger = zap.Must(cfg.Build())
	zap.ReplaceGlobals(logger) // Packages without an injected logger use zap.L()
}

// GetLogger returns the initialized global logger.
func GetLogger() *zap.Logger {
	if logger == nil {
		InitLogger("production") // Should be called explicitly at app start
	}
	return logger
}
