// Package logging builds the process zap logger.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// New returns a JSON production logger for mode "prod"/"production" and a
// console development logger otherwise. An empty level keeps the mode's
// default (info for production, debug for development).
func New(mode, level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		cfg.Level = lvl
	}

	return cfg.Build()
}

// Must is New for process startup.
func Must(mode, level string) *zap.Logger {
	l, err := New(mode, level)
	if err != nil {
		panic(err)
	}
	return l
}
