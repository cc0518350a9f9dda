// Package logging builds the zap logger shared by the CLI, TUI and web server.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level string
	// Dev selects zap's human-readable development encoder.
	Dev bool
	// File redirects output away from stderr (the TUI owns the terminal).
	File string
}

func New(opt Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opt.Dev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}

	level := zapcore.WarnLevel
	if v := strings.TrimSpace(opt.Level); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, err
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	out := "stderr"
	if f := strings.TrimSpace(opt.File); f != "" {
		if err := os.MkdirAll(filepath.Dir(f), 0o755); err != nil {
			return nil, err
		}
		out = f
	}
	cfg.OutputPaths = []string{out}
	cfg.ErrorOutputPaths = []string{out}
	return cfg.Build()
}
