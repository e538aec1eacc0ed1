package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"time"

	"github.com/vk/satcolor/internal/cnf"
	"github.com/vk/satcolor/internal/ctxlog"
)

const (
	inputName  = "input.cnf"
	outputName = "output.txt"

	// stderrExcerpt bounds how much of a failing solver's stderr ends up in
	// the error.
	stderrExcerpt = 512
)

// acceptedExitCodes follows the minisat convention: 10 for satisfiable, 20
// for unsatisfiable. Some builds exit 0 instead.
var acceptedExitCodes = []int{0, 10, 20}

// External runs a solver binary as a subprocess.
type External struct {
	path      string
	args      []string
	probeArgs []string
	mode      OutputMode
	timeout   time.Duration
}

// NewExternal builds an External gateway from s. Empty fields take the
// minisat defaults.
func NewExternal(s Settings) *External {
	e := &External{
		path:      s.Path,
		args:      slices.Clone(s.Args),
		probeArgs: slices.Clone(s.ProbeArgs),
		mode:      s.OutputMode,
		timeout:   s.Timeout,
	}
	if e.path == "" {
		e.path = DefaultPath
	}
	if e.probeArgs == nil {
		e.probeArgs = []string{"-h"}
	}
	if e.mode == "" {
		e.mode = OutputFile
	}
	return e
}

func (e *External) Name() string {
	return "external:" + filepath.Base(e.path)
}

// Probe locates the binary and starts it with the probe arguments. Only a
// failure to start counts; minisat -h exits non-zero and is still fine.
func (e *External) Probe(ctx context.Context) error {
	path, err := exec.LookPath(e.path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, e.path, err)
	}

	cmd := exec.CommandContext(ctx, path, e.probeArgs...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, e.path, err)
	}
	return nil
}

// Solve writes f to a scratch directory, runs the solver on it and returns
// what it wrote. The directory is removed on every path.
func (e *External) Solve(ctx context.Context, f *cnf.Formula) (*Verdict, error) {
	start := time.Now()
	logger := ctxlog.FromContext(ctx).With("engine", e.Name())

	ctx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()

	dir, err := os.MkdirTemp("", "satcolor-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating scratch dir: %v", ErrIOFault, err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("Failed to remove scratch dir.", "dir", dir, "error", err)
		}
	}()

	in := filepath.Join(dir, inputName)
	out := filepath.Join(dir, outputName)
	if err := writeFormula(in, f); err != nil {
		return nil, err
	}

	args := append(slices.Clone(e.args), in)
	if e.mode == OutputFile {
		args = append(args, out)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.path, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	logger.Debug("Running solver.", "args", args, "variables", f.NumVariables, "clauses", f.NumClauses)
	runErr := cmd.Run()
	if ctx.Err() != nil {
		return nil, contextError(ctx, e.Name())
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("%w: starting %s: %v", ErrIOFault, e.path, runErr)
		}
		if !slices.Contains(acceptedExitCodes, exitErr.ExitCode()) {
			return nil, fmt.Errorf("%w: %s exited with status %d: %s",
				ErrIOFault, e.path, exitErr.ExitCode(), excerpt(stderr.Bytes()))
		}
	}

	var output []byte
	if e.mode == OutputStdout {
		output = stdout.Bytes()
	} else {
		output, err = os.ReadFile(out)
		if err != nil {
			return nil, fmt.Errorf("%w: reading result: %v", ErrIOFault, err)
		}
	}

	elapsed := time.Since(start)
	logger.Debug("Solver finished.", "exit_code", cmd.ProcessState.ExitCode(), "bytes", len(output), "elapsed", elapsed)
	return &Verdict{Output: output, Engine: e.Name(), Elapsed: elapsed}, nil
}

func writeFormula(path string, f *cnf.Formula) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating input: %v", ErrIOFault, err)
	}
	if _, err := f.WriteTo(file); err != nil {
		file.Close()
		if errors.Is(err, cnf.ErrCountMismatch) {
			return err
		}
		return fmt.Errorf("%w: writing input: %v", ErrIOFault, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: closing input: %v", ErrIOFault, err)
	}
	return nil
}

func excerpt(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) > stderrExcerpt {
		b = b[len(b)-stderrExcerpt:]
	}
	if len(b) == 0 {
		return "(no stderr)"
	}
	return string(b)
}
