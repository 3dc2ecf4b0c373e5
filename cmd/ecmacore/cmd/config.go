package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ssrlive/ecmacore/internal/interp"
)

// fileConfig is the optional --config document shape: engine limits an
// operator wants enforced on untrusted scripts, kept separate from the
// CLI's own flags since it's meant to be checked in alongside a script
// rather than retyped on every invocation.
//
//	limits:
//	  maxLoopIterations: 5000000
//	  minTimerResolutionMs: 4
type fileConfig struct {
	Limits struct {
		MaxLoopIterations    uint64 `yaml:"maxLoopIterations"`
		MinTimerResolutionMS int    `yaml:"minTimerResolutionMs"`
	} `yaml:"limits"`
}

func loadConfig(path string) (interp.Limits, error) {
	var limits interp.Limits
	if path == "" {
		return limits, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return limits, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return limits, fmt.Errorf("parsing config %s: %w", path, err)
	}
	limits.MaxLoopIterations = cfg.Limits.MaxLoopIterations
	limits.MinTimerResolutionMS = cfg.Limits.MinTimerResolutionMS
	return limits, nil
}
