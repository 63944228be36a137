// Package logging builds the zap logger used across the service
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger for the named environment. "local" logs everything to a
// readable console, "development" logs info and above, anything else is production JSON.
func New(environment string) (*zap.Logger, error) {
	switch environment {
	case "local":
		return zap.NewDevelopment()
	case "development":
		conf := zap.NewDevelopmentConfig()
		conf.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		return conf.Build()
	default:
		return zap.NewProduction()
	}
}
