package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultSolverTimeout bounds a solve when neither the command line nor the
// document sets a timeout.
const DefaultSolverTimeout = 60 * time.Second

// SolverConfig holds the solver settings given on the command line. Empty
// fields defer to the document.
type SolverConfig struct {
	Kind    string        `validate:"omitempty,oneof=external gophersat gini"`
	Path    string        `validate:"omitempty"`
	Output  string        `validate:"omitempty,oneof=file stdout"`
	Timeout time.Duration `validate:"gte=0"`
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// GraphPath is a document or a directory of documents.
	GraphPath string
	// RandomNodes, when positive, colors a random graph of that many nodes
	// instead of reading documents.
	RandomNodes int   `validate:"gte=0,lte=10000"`
	Seed        int64 `validate:"-"`

	// Budget overrides the document budget when positive.
	Budget     int `validate:"gte=0,lte=8"`
	KeepColors bool
	Solver     SolverConfig

	// OutPath receives solved documents: a file for a single input, a
	// directory for a directory input.
	OutPath string
	Watch   bool
	Serve   bool

	HealthcheckPort int `validate:"gte=0,lte=65535"`
	// AllowedOrigins enables CORS on the HTTP API for these origins.
	AllowedOrigins []string `validate:"omitempty,dive,required"`
	NotifyURL      string   `validate:"omitempty,url"`
	NotifyEvent    string

	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return nil, fmt.Errorf("invalid %s: %q fails %q", e.Namespace(), fmt.Sprint(e.Value()), e.ActualTag())
		}
		return nil, err
	}

	switch {
	case cfg.GraphPath == "" && cfg.RandomNodes == 0 && !cfg.Serve:
		return nil, errors.New("a graph path, -random or -serve is required")
	case cfg.GraphPath != "" && cfg.RandomNodes > 0:
		return nil, errors.New("a graph path and -random are mutually exclusive")
	case cfg.Watch && cfg.GraphPath == "":
		return nil, errors.New("-watch needs a graph path")
	case cfg.Watch && cfg.OutPath != "" && samePath(cfg.OutPath, cfg.GraphPath):
		return nil, errors.New("-watch cannot write solved documents over its own input")
	case cfg.Serve && cfg.HealthcheckPort == 0:
		return nil, errors.New("-serve needs -healthcheck-port")
	}
	return &cfg, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
