package solver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/vk/satcolor/internal/cnf"
)

var (
	// ErrUnavailable means the decision procedure cannot be started at all.
	ErrUnavailable = errors.New("solver unavailable")
	// ErrIOFault covers every failure between handing over the formula and
	// reading the answer back: temp files, abnormal exit, missing output.
	ErrIOFault = errors.New("solver i/o fault")
	// ErrTimeout means the attempt ran out of time. It is not a verdict.
	ErrTimeout = errors.New("solver timed out")
)

// Gateway is the narrow interface between the coloring pipeline and a SAT
// decision procedure.
type Gateway interface {
	// Name identifies the gateway in logs and metrics.
	Name() string
	// Probe reports ErrUnavailable when the procedure cannot run. It does not
	// solve anything.
	Probe(ctx context.Context) error
	// Solve decides f and returns the solver's textual answer.
	Solve(ctx context.Context, f *cnf.Formula) (*Verdict, error)
}

// Verdict is the raw answer of one solve.
type Verdict struct {
	Output  []byte
	Engine  string
	Elapsed time.Duration
}

// Kind selects a Gateway implementation.
type Kind string

const (
	KindExternal  Kind = "external"
	KindGophersat Kind = "gophersat"
	KindGini      Kind = "gini"
)

// Kinds lists every supported gateway kind.
var Kinds = []Kind{KindExternal, KindGophersat, KindGini}

// OutputMode says where an external solver writes its answer.
type OutputMode string

const (
	OutputFile   OutputMode = "file"
	OutputStdout OutputMode = "stdout"
)

// DefaultPath is the solver binary used when none is configured.
const DefaultPath = "minisat"

// Settings configures New.
type Settings struct {
	Kind       Kind
	Path       string
	Args       []string
	ProbeArgs  []string
	OutputMode OutputMode
	Timeout    time.Duration
}

// New builds the gateway described by s.
func New(s Settings) (Gateway, error) {
	switch s.Kind {
	case KindExternal, "":
		return NewExternal(s), nil
	case KindGophersat:
		return NewGophersat(s.Timeout), nil
	case KindGini:
		return NewGini(s.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown solver kind %q", s.Kind)
	}
}

// withTimeout applies d to ctx when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// contextError maps a finished context onto the gateway errors.
func contextError(ctx context.Context, engine string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", engine, ErrTimeout)
	}
	return fmt.Errorf("%s: %w", engine, ctx.Err())
}

// render produces the minisat result-file text for a model. value reports
// the truth of a 1-based variable.
func render(sat bool, numVars int, value func(v int) bool) []byte {
	if !sat {
		return []byte("UNSAT\n")
	}
	buf := make([]byte, 0, 4+numVars*4)
	buf = append(buf, "SAT\n"...)
	for v := 1; v <= numVars; v++ {
		if value(v) {
			buf = strconv.AppendInt(buf, int64(v), 10)
		} else {
			buf = strconv.AppendInt(buf, int64(-v), 10)
		}
		buf = append(buf, ' ')
	}
	return append(buf, "0\n"...)
}
