package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/specialistvlad/releaseplan/internal/app"
	"github.com/specialistvlad/releaseplan/internal/config"
	"github.com/specialistvlad/releaseplan/internal/statespace"
)

// EnvLogLevel supplies the log level when -log-level is not given.
const EnvLogLevel = "RELEASEPLAN_LOG_LEVEL"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("releaseplan", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
releaseplan - Plans which nodes to activate, and when, to maximise total release.

Usage:
  releaseplan [options] [INPUT_PATH]

Arguments:
  INPUT_PATH
    A line-format report, a single .hcl file, or a directory of .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	inputFlag := flagSet.String("input", "", "Path to the input report or HCL file/directory.")
	iFlag := flagSet.String("i", "", "Path to the input report or HCL file/directory (shorthand).")
	startFlag := flagSet.String("start", app.DefaultScenario.Start, "Name of the node both agents start at.")
	soloFlag := flagSet.Int("solo-minutes", *app.DefaultScenario.SoloMinutes, "Time budget of the single agent.")
	duoFlag := flagSet.Int("duo-minutes", *app.DefaultScenario.DuoMinutes, "Time budget of each of the two agents.")
	maxRateFlag := flagSet.Int("max-rate-positive", statespace.DefaultMaxRatePositive, "Refuse inputs with more rate-positive nodes than this.")
	maxCellsFlag := flagSet.Int64("max-cells", statespace.DefaultMaxCells, "Refuse tables with more cells than this.")
	workersFlag := flagSet.Int("workers", runtime.GOMAXPROCS(0), "Number of goroutines filling each table layer.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", envOrDefault(EnvLogLevel, "info"), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	outputFlag := flagSet.String("output", app.OutputText, "Result format. Options: 'text' or 'json'.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	emitHCLFlag := flagSet.Bool("emit-hcl", false, "Print the resolved input as HCL instead of solving.")
	verifyFlag := flagSet.Bool("verify", false, "Cross-check both answers with the branch-and-bound search.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *inputFlag != "" {
		path = *inputFlag
	} else if *iFlag != "" {
		path = *iFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		slog.Debug("No input path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	// Only explicit scenario flags override the input file. An explicit zero
	// is kept.
	var scenario config.Scenario
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "start":
			scenario.Start = *startFlag
		case "solo-minutes":
			scenario.SoloMinutes = config.Minutes(*soloFlag)
		case "duo-minutes":
			scenario.DuoMinutes = config.Minutes(*duoFlag)
		}
	})
	if solo, duo := scenario.Budgets(); solo < 0 || duo < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid time budget: must not be negative"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	outputFormat := strings.ToLower(*outputFlag)
	if outputFormat != app.OutputText && outputFormat != app.OutputJSON {
		return nil, false, &ExitError{Code: 2, Message: "invalid output: must be 'text' or 'json'"}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg, err := app.NewConfig(app.Config{
		InputPath: path,
		Scenario:  scenario,
		Limits: statespace.Limits{
			MaxRatePositive: *maxRateFlag,
			MaxCells:        *maxCellsFlag,
		},
		Workers:         *workersFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		OutputFormat:    outputFormat,
		HealthcheckPort: *healthPortFlag,
		EmitHCL:         *emitHCLFlag,
		Verify:          *verifyFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
