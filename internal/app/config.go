package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/releaseplan/internal/config"
	"github.com/specialistvlad/releaseplan/internal/statespace"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// DefaultScenario fills whatever neither the command line nor the input file
// declared.
var DefaultScenario = config.Scenario{Start: "AA", SoloMinutes: config.Minutes(30), DuoMinutes: config.Minutes(26)}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	InputPath string
	// Scenario holds only the values set explicitly on the command line.
	Scenario config.Scenario
	Limits   statespace.Limits
	Workers  int

	LogFormat       string
	LogLevel        string
	OutputFormat    string
	HealthcheckPort int

	EmitHCL bool
	Verify  bool
}

// NewConfig validates cfg and returns a copy with defaults applied.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}
	if solo, duo := cfg.Scenario.Budgets(); solo < 0 || duo < 0 {
		return nil, fmt.Errorf("time budgets must not be negative (solo=%d, duo=%d)", solo, duo)
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = OutputText
	}
	if cfg.OutputFormat != OutputText && cfg.OutputFormat != OutputJSON {
		return nil, fmt.Errorf("invalid output format %q: must be 'text' or 'json'", cfg.OutputFormat)
	}
	return &cfg, nil
}
