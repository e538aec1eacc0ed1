package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/satcolor/internal/app"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitUncolorable = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// ExitCode maps the result of a run onto a process exit code.
func ExitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, app.ErrUncolorable):
		return ExitUncolorable
	default:
		return ExitFailure
	}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("satcolor", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
satcolor - graph coloring through a SAT solver.

Usage:
  satcolor [options] [GRAPH_PATH]
  satcolor [options] -random N
  satcolor [options] -serve -healthcheck-port PORT

Arguments:
  GRAPH_PATH
    Path to a single graph document (.hcl, .yaml, .yml) or a directory of them.

Exit codes:
  0 every graph was colored, 1 runtime failure, 2 usage error,
  3 some graph is not colorable within its budget.

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.String("graph", "", "Path to the graph document or directory.")
	gFlag := flagSet.String("g", "", "Path to the graph document or directory (shorthand).")
	randomFlag := flagSet.Int("random", 0, "Color a random graph with this many nodes instead of reading documents.")
	seedFlag := flagSet.Int64("seed", 0, "Seed for -random. 0 picks one from the clock.")
	budgetFlag := flagSet.Int("budget", 0, "Number of colors to try, 1..8. 0 uses the document budget or 3.")
	keepFlag := flagSet.Bool("keep-colors", false, "Pin nodes that are already colored to their color.")
	solverFlag := flagSet.String("solver", "", "Solver engine. Options: 'external', 'gophersat', 'gini'. Defaults to the document setting or 'external'.")
	solverPathFlag := flagSet.String("solver-path", "", "Executable for the external solver. Defaults to 'minisat' on PATH.")
	solverOutputFlag := flagSet.String("solver-output", "", "Where the external solver writes its answer. Options: 'file' or 'stdout'.")
	solverTimeoutFlag := flagSet.Duration("solver-timeout", 0, fmt.Sprintf("Time limit per solve. 0 uses the document setting or %s.", app.DefaultSolverTimeout))
	outFlag := flagSet.String("out", "", "Write solved documents here: a file for a single document, a directory otherwise.")
	oFlag := flagSet.String("o", "", "Output path (shorthand).")
	watchFlag := flagSet.Bool("watch", false, "Keep running and recolor documents when they change.")
	serveFlag := flagSet.Bool("serve", false, "Keep running and serve POST /v1/color on the healthcheck port.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP server (/health, /metrics, /v1/color). 0 is disabled.")
	originsFlag := flagSet.String("allowed-origins", "", "Comma-separated origins allowed to call the HTTP API from a browser.")
	notifyURLFlag := flagSet.String("notify-url", "", "socket.io endpoint that receives every coloring outcome.")
	notifyEventFlag := flagSet.String("notify-event", "", "socket.io event name for notifications. Defaults to 'coloring'.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *graphFlag != "" {
		path = *graphFlag
	} else if *gFlag != "" {
		path = *gFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args()[1:], " "))}
	}
	slog.Debug("Graph path determined.", "path", path)

	if path == "" && *randomFlag == 0 && !*serveFlag {
		slog.Debug("Nothing to color, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	outPath := *outFlag
	if outPath == "" {
		outPath = *oFlag
	}

	config, err := app.NewConfig(app.Config{
		GraphPath:   path,
		RandomNodes: *randomFlag,
		Seed:        *seedFlag,
		Budget:      *budgetFlag,
		KeepColors:  *keepFlag,
		Solver: app.SolverConfig{
			Kind:    strings.ToLower(*solverFlag),
			Path:    *solverPathFlag,
			Output:  strings.ToLower(*solverOutputFlag),
			Timeout: *solverTimeoutFlag,
		},
		OutPath:         outPath,
		Watch:           *watchFlag,
		Serve:           *serveFlag,
		HealthcheckPort: *healthPortFlag,
		AllowedOrigins:  splitList(*originsFlag),
		NotifyURL:       *notifyURLFlag,
		NotifyEvent:     *notifyEventFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
