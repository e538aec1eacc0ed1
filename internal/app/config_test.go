package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/satcolor/internal/testutil"
)

func baseConfig() Config {
	return Config{GraphPath: "graphs", LogFormat: "text", LogLevel: "info"}
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name       string
		mutate     func(c *Config)
		errContain string
	}{
		{name: "graph path", mutate: func(*Config) {}},
		{name: "random graph", mutate: func(c *Config) { c.GraphPath = ""; c.RandomNodes = 10 }},
		{name: "serve only", mutate: func(c *Config) { c.GraphPath = ""; c.Serve = true; c.HealthcheckPort = 8080 }},
		{name: "solver overrides", mutate: func(c *Config) {
			c.Solver = SolverConfig{Kind: "gini", Output: "stdout", Timeout: time.Second}
		}},
		{name: "nothing to do", mutate: func(c *Config) { c.GraphPath = "" }, errContain: "required"},
		{name: "path and random", mutate: func(c *Config) { c.RandomNodes = 3 }, errContain: "mutually exclusive"},
		{name: "budget too large", mutate: func(c *Config) { c.Budget = 9 }, errContain: "Budget"},
		{name: "negative random", mutate: func(c *Config) { c.RandomNodes = -1 }, errContain: "RandomNodes"},
		{name: "unknown solver", mutate: func(c *Config) { c.Solver.Kind = "z3" }, errContain: "Kind"},
		{name: "unknown output mode", mutate: func(c *Config) { c.Solver.Output = "pipe" }, errContain: "Output"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, errContain: "LogFormat"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, errContain: "LogLevel"},
		{name: "bad notify url", mutate: func(c *Config) { c.NotifyURL = "not a url" }, errContain: "NotifyURL"},
		{name: "watch without path", mutate: func(c *Config) { c.GraphPath = ""; c.RandomNodes = 4; c.Watch = true }, errContain: "-watch"},
		{name: "watch writing over input", mutate: func(c *Config) { c.Watch = true; c.OutPath = "graphs" }, errContain: "own input"},
		{name: "serve without port", mutate: func(c *Config) { c.Serve = true }, errContain: "-healthcheck-port"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := baseConfig()
			tc.mutate(&cfg)

			got, err := NewConfig(cfg)
			if tc.errContain != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContain)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cfg, *got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	buf := &testutil.SafeBuffer{}
	logger := newLogger("warn", "json", buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)

	buf = &testutil.SafeBuffer{}
	newLogger("nonsense", "text", buf).Info("info is the fallback")
	assert.Contains(t, buf.String(), "msg=\"info is the fallback\"")
}
