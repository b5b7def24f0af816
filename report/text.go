package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/zephyrtronium/rootfind/solve"
)

const (
	traceHeader   = "%-20s%-20s%-20s%-20s%s\n"
	traceRow      = "%-20s%-20.8f%-20.8f%-20.8f%d\n"
	summaryHeader = "%-20s%-30s%-20s%-20s%-20s%-12s%s\n"
	summaryRow    = "%-20s%-30s%-20.8f%-20.8f%-20.8f%-12d%s\n"
	summaryFailed = "%-20s%-30s%-20s%-20s%-20s%-12s%s\n"
)

// table is a fixed-width text table with a header written before the
// first row.
type table struct {
	mu     sync.Mutex
	w      io.Writer
	c      io.Closer
	header func(io.Writer) error
	wrote  bool
}

func (t *table) row(format string, args ...any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.wrote {
		if err := t.header(t.w); err != nil {
			return err
		}
		t.wrote = true
	}
	_, err := fmt.Fprintf(t.w, format, args...)
	return err
}

func (t *table) Close() error {
	if t.c == nil {
		return nil
	}
	return t.c.Close()
}

func create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("couldn't create directory for %s: %w", path, err)
		}
	}
	return os.Create(path)
}

// Trace is a Sink writing one row per iteration: method, estimate, residual,
// step and iteration number.
type Trace struct {
	t table
}

// NewTrace creates a Trace writing to w. Close does not close w.
func NewTrace(w io.Writer) *Trace {
	return &Trace{t: table{w: w, header: func(w io.Writer) error {
		_, err := fmt.Fprintf(w, traceHeader, "Method", "Root", "|f(root)|", "|xn - xn-1|", "Iteration")
		return err
	}}}
}

// CreateTrace creates or truncates the file at path and returns a Trace
// writing to it.
func CreateTrace(path string) (*Trace, error) {
	f, err := create(path)
	if err != nil {
		return nil, err
	}
	t := NewTrace(f)
	t.t.c = f
	return t, nil
}

func (t *Trace) Begin(Entry) error { return nil }

func (t *Trace) Iteration(e Entry, it solve.Iteration) error {
	return t.t.row(traceRow, it.Method.Label(), it.X, it.Residual, it.Step, it.N)
}

func (t *Trace) End(Entry, solve.Result, error) error { return nil }

func (t *Trace) Close() error { return t.t.Close() }

// Summary is a Sink writing one row per line with the final result.
// Lines which failed to parse are omitted.
type Summary struct {
	t table
}

// NewSummary creates a Summary writing to w. Close does not close w.
func NewSummary(w io.Writer) *Summary {
	return &Summary{t: table{w: w, header: func(w io.Writer) error {
		_, err := fmt.Fprintf(w, summaryHeader, "Method", "Function", "Root", "|f(root)|", "|xn - xn-1|", "Iterations", "Status")
		return err
	}}}
}

// CreateSummary creates or truncates the file at path and returns a Summary
// writing to it.
func CreateSummary(path string) (*Summary, error) {
	f, err := create(path)
	if err != nil {
		return nil, err
	}
	s := NewSummary(f)
	s.t.c = f
	return s, nil
}

func (s *Summary) Begin(Entry) error { return nil }

func (s *Summary) Iteration(Entry, solve.Iteration) error { return nil }

func (s *Summary) End(e Entry, res solve.Result, err error) error {
	if e.Method == "" {
		return nil
	}
	if err != nil {
		return s.t.row(summaryFailed, e.Method.Label(), e.Expr, "-", "-", "-", "-", Status(res, err))
	}
	return s.t.row(summaryRow, res.Method.Label(), e.Expr, res.Root, res.Residual, res.Step, res.Iterations, Status(res, err))
}

func (s *Summary) Close() error { return s.t.Close() }
