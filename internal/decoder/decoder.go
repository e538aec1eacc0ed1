package decoder

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/vk/satcolor/internal/graph"
	"github.com/vk/satcolor/internal/varscheme"
)

// maxLineSize bounds a single line of solver output. Literal lines of large
// formulas easily exceed bufio's default token size.
const maxLineSize = 64 << 20

// NodeSet is the set of nodes an assignment must cover. It is usually the
// live graph, so nodes removed after encoding are simply ignored.
type NodeSet interface {
	NodeIDs() []graph.NodeID
	HasNode(id graph.NodeID) bool
}

type marker int

const (
	markerNone marker = iota
	markerSat
	markerUnsat
	markerUnknown
)

func parseMarker(tok string) marker {
	switch strings.ToUpper(tok) {
	case "SAT", "SATISFIABLE":
		return markerSat
	case "UNSAT", "UNSATISFIABLE":
		return markerUnsat
	case "INDETERMINATE", "UNKNOWN":
		return markerUnknown
	default:
		return markerNone
	}
}

// Decode reads solver output for a formula built with budget k over
// numVars variables.
//
// Accepted shapes are the minisat result file ("SAT" followed by a literal
// line, or "UNSAT"), the competition format with "s " and "v " prefixes, and a
// bare literal line. Comment lines starting with "c" and blank lines are
// skipped. The literal list may span lines and its terminating 0 is
// optional.
func Decode(nodes NodeSet, k, numVars int, output io.Reader) (*Result, error) {
	scheme, err := varscheme.New(k)
	if err != nil {
		return nil, err
	}

	lits, unsat, err := scan(output, numVars)
	if err != nil {
		return nil, err
	}
	if unsat {
		return &Result{Status: Unsatisfiable}, nil
	}

	assignment := make(Assignment)
	for _, lit := range lits {
		if lit < 0 {
			continue
		}
		node, c := scheme.Split(lit)
		id := graph.NodeID(node)
		if !nodes.HasNode(id) {
			continue
		}
		if prev, ok := assignment[id]; ok {
			return nil, fmt.Errorf("%w: node %d has colors %d and %d", ErrMalformedAssignment, id, prev, c)
		}
		assignment[id] = c
	}

	missing := lo.Filter(nodes.NodeIDs(), func(id graph.NodeID, _ int) bool {
		_, ok := assignment[id]
		return !ok
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: no color for node(s) %v", ErrMalformedAssignment, missing)
	}

	return &Result{Status: Satisfiable, Assignment: assignment}, nil
}

// scan extracts the literal list, or reports an unsat verdict.
func scan(r io.Reader, numVars int) (lits []int, unsat bool, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		significant bool
		sat         bool
	)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		line = stripPrefix(line)
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if !significant {
			significant = true
			switch parseMarker(fields[0]) {
			case markerUnsat:
				return nil, true, nil
			case markerUnknown:
				return nil, false, ErrIndeterminate
			case markerSat:
				sat = true
				fields = fields[1:]
			}
		}

		for _, tok := range fields {
			lit, err := strconv.Atoi(tok)
			if err != nil {
				return nil, false, fmt.Errorf("%w: token %q is not a literal", ErrMalformedAssignment, tok)
			}
			if lit == 0 {
				return finish(lits, sat)
			}
			if !varscheme.Valid(lit, numVars) {
				return nil, false, fmt.Errorf("%w: literal %d outside ±%d", ErrMalformedAssignment, lit, numVars)
			}
			lits = append(lits, lit)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, false, fmt.Errorf("%w: reading output: %v", ErrMalformedAssignment, err)
	}
	if !significant {
		return nil, false, fmt.Errorf("%w: empty output", ErrMalformedAssignment)
	}
	return finish(lits, sat)
}

func finish(lits []int, sat bool) ([]int, bool, error) {
	if len(lits) == 0 {
		if sat {
			return nil, false, fmt.Errorf("%w: satisfiable but no assignment", ErrMalformedAssignment)
		}
		return nil, false, fmt.Errorf("%w: empty assignment", ErrMalformedAssignment)
	}
	return lits, false, nil
}

// stripPrefix removes the "s " status and "v " value prefixes of the
// competition output format.
func stripPrefix(line string) string {
	if len(line) >= 2 && (line[0] == 's' || line[0] == 'v') && (line[1] == ' ' || line[1] == '\t') {
		return line[2:]
	}
	if line == "v" || line == "s" {
		return ""
	}
	return line
}
