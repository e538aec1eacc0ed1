package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/satcolor/internal/app"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		want     *app.Config
		wantExit bool
		wantCode int
		errPart  string
	}{
		{
			name: "positional path with defaults",
			args: []string{"graphs"},
			want: &app.Config{GraphPath: "graphs", LogFormat: "json", LogLevel: "info"},
		},
		{
			name: "every flag",
			args: []string{
				"-graph", "g.hcl", "-budget", "4", "-keep-colors",
				"-solver", "External", "-solver-path", "/usr/bin/kissat", "-solver-output", "stdout", "-solver-timeout", "2s",
				"-out", "solved.hcl", "-healthcheck-port", "8080", "-allowed-origins", "http://a.local, http://b.local",
				"-notify-url", "http://localhost:3000", "-notify-event", "painted",
				"-log-format", "TEXT", "-log-level", "debug",
			},
			want: &app.Config{
				GraphPath:  "g.hcl",
				Budget:     4,
				KeepColors: true,
				Solver: app.SolverConfig{
					Kind:    "external",
					Path:    "/usr/bin/kissat",
					Output:  "stdout",
					Timeout: 2 * time.Second,
				},
				OutPath:         "solved.hcl",
				HealthcheckPort: 8080,
				AllowedOrigins:  []string{"http://a.local", "http://b.local"},
				NotifyURL:       "http://localhost:3000",
				NotifyEvent:     "painted",
				LogFormat:       "text",
				LogLevel:        "debug",
			},
		},
		{
			name: "shorthands",
			args: []string{"-g", "dir", "-o", "out"},
			want: &app.Config{GraphPath: "dir", OutPath: "out", LogFormat: "json", LogLevel: "info"},
		},
		{
			name: "random graph",
			args: []string{"-random", "12", "-seed", "99", "-solver", "gini"},
			want: &app.Config{RandomNodes: 12, Seed: 99, Solver: app.SolverConfig{Kind: "gini"}, LogFormat: "json", LogLevel: "info"},
		},
		{
			name: "serve",
			args: []string{"-serve", "-healthcheck-port", "9000"},
			want: &app.Config{Serve: true, HealthcheckPort: 9000, LogFormat: "json", LogLevel: "info"},
		},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "nothing to do prints usage", args: []string{}, wantExit: true},
		{name: "unknown flag", args: []string{"-colours", "3"}, wantCode: ExitUsage, errPart: "flag provided but not defined"},
		{name: "two paths", args: []string{"a.hcl", "b.hcl"}, wantCode: ExitUsage, errPart: "unexpected arguments: b.hcl"},
		{name: "bad log format", args: []string{"-log-format", "xml", "g.hcl"}, wantCode: ExitUsage, errPart: "log-format"},
		{name: "bad log level", args: []string{"-log-level", "trace", "g.hcl"}, wantCode: ExitUsage, errPart: "log-level"},
		{name: "budget out of range", args: []string{"-budget", "9", "g.hcl"}, wantCode: ExitUsage, errPart: "Budget"},
		{name: "unknown solver", args: []string{"-solver", "z3", "g.hcl"}, wantCode: ExitUsage, errPart: "Kind"},
		{name: "serve without port", args: []string{"-serve"}, wantCode: ExitUsage, errPart: "-healthcheck-port"},
		{name: "path and random", args: []string{"-random", "3", "g.hcl"}, wantCode: ExitUsage, errPart: "mutually exclusive"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, shouldExit, err := Parse(tc.args, out)

			if tc.errPart != "" {
				require.Error(t, err)
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, tc.wantCode, exitErr.Code)
				assert.Contains(t, err.Error(), tc.errPart)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, shouldExit)
			if tc.wantExit {
				assert.Nil(t, cfg)
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			assert.Equal(t, tc.want, cfg)
		})
	}
}

func TestExitCode(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: ExitOK},
		{name: "usage", err: &ExitError{Code: ExitUsage, Message: "bad flag"}, want: ExitUsage},
		{name: "uncolorable", err: fmt.Errorf("%w: 1 of 2 documents", app.ErrUncolorable), want: ExitUncolorable},
		{name: "runtime failure", err: errors.New("solver crashed"), want: ExitFailure},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}
