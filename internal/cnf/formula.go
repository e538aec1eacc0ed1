package cnf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/vk/satcolor/internal/varscheme"
)

// Clause is a disjunction of signed, nonzero literals.
type Clause []int

// Stats counts the clauses of each family.
type Stats struct {
	EdgeExclusion int
	AtLeastOne    int
	AtMostOne     int
	Preassigned   int
}

// Total returns the sum of all families.
func (s Stats) Total() int {
	return s.EdgeExclusion + s.AtLeastOne + s.AtMostOne + s.Preassigned
}

// Formula is a CNF formula together with its declared header counts.
type Formula struct {
	Budget       int
	NumVariables int
	NumClauses   int
	Clauses      []Clause
	Stats        Stats
}

// Validate checks that the header matches the clause list: the clause count
// is exact and every literal is nonzero and within ±NumVariables.
func (f *Formula) Validate() error {
	if f.NumClauses != len(f.Clauses) {
		return fmt.Errorf("%w: declared %d clauses, have %d", ErrCountMismatch, f.NumClauses, len(f.Clauses))
	}
	if f.Stats.Total() != f.NumClauses {
		return fmt.Errorf("%w: families sum to %d, declared %d", ErrCountMismatch, f.Stats.Total(), f.NumClauses)
	}
	for i, cl := range f.Clauses {
		if len(cl) == 0 {
			return fmt.Errorf("%w: clause %d is empty", ErrCountMismatch, i)
		}
		for _, lit := range cl {
			if !varscheme.Valid(lit, f.NumVariables) {
				return fmt.Errorf("%w: clause %d has literal %d outside 1..%d", ErrCountMismatch, i, lit, f.NumVariables)
			}
		}
	}
	return nil
}

// WriteTo writes the formula in DIMACS CNF form. An inconsistent formula is
// refused before anything is written.
func (f *Formula) WriteTo(w io.Writer) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	fmt.Fprintf(bw, "p cnf %d %d\n", f.NumVariables, f.NumClauses)

	buf := make([]byte, 0, 64)
	for _, cl := range f.Clauses {
		buf = buf[:0]
		for _, lit := range cl {
			buf = strconv.AppendInt(buf, int64(lit), 10)
			buf = append(buf, ' ')
		}
		buf = append(buf, '0', '\n')
		if _, err := bw.Write(buf); err != nil {
			return cw.n, err
		}
	}
	err := bw.Flush()
	return cw.n, err
}

// DIMACS renders the formula to a byte slice.
func (f *Formula) DIMACS() ([]byte, error) {
	var b bytes.Buffer
	if _, err := f.WriteTo(&b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// String returns the DIMACS text, or the validation error text.
func (f *Formula) String() string {
	b, err := f.DIMACS()
	if err != nil {
		return err.Error()
	}
	return string(b)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
