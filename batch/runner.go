package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"
	"strings"

	"github.com/zephyrtronium/rootfind"
	"github.com/zephyrtronium/rootfind/report"
	"github.com/zephyrtronium/rootfind/solve"
)

// Stats counts the outcomes of the lines of a batch.
type Stats struct {
	Converged int
	Exhausted int
	Failed    int
	Skipped   int
}

// Lines returns the number of lines that named a job.
func (s Stats) Lines() int {
	return s.Converged + s.Exhausted + s.Failed
}

func (s Stats) String() string {
	return fmt.Sprintf("%d lines: %d converged, %d not converged, %d failed, %d skipped",
		s.Lines(), s.Converged, s.Exhausted, s.Failed, s.Skipped)
}

// Runner runs batches.
type Runner struct {
	// Defaults holds the stopping criteria for lines which omit them.
	// Its Trace is ignored.
	Defaults solve.Solver
	// Prec, if not zero, is the precision in bits at which the final
	// residual of each line is recomputed.
	Prec uint
	// Sink receives the records of each line. If nil, records are discarded.
	Sink report.Sink
	// Log receives warnings and per-line failures. If nil, they are
	// discarded.
	Log *log.Logger
}

// Run runs each job in a batch read from in. A line that fails to parse or
// whose method fails is reported and counted, and the batch continues. Run
// returns early with an error if reading fails, a sink fails, or ctx is
// cancelled between lines.
func (r *Runner) Run(ctx context.Context, in io.Reader) (Stats, error) {
	var st Stats
	sink := r.Sink
	if sink == nil {
		sink = report.Discard
	}
	lg := r.Log
	if lg == nil {
		lg = log.New(io.Discard, "", 0)
	}
	sc := bufio.NewScanner(in)
	sc.Buffer(nil, 1<<20)
	n := 0
	for sc.Scan() {
		n++
		if err := ctx.Err(); err != nil {
			return st, err
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			st.Skipped++
			continue
		}
		res, err := r.line(sink, lg, n, text)
		var serr *sinkError
		switch {
		case errors.As(err, &serr):
			return st, fmt.Errorf("line %d: %w", n, serr.err)
		case err != nil:
			lg.Printf("line %d: %v", n, err)
			st.Failed++
		case res.Converged:
			st.Converged++
		default:
			lg.Printf("line %d: warning: %v", n, res.Warning())
			st.Exhausted++
		}
	}
	if err := sc.Err(); err != nil {
		return st, fmt.Errorf("reading batch: %w", err)
	}
	return st, nil
}

type sinkError struct {
	err error
}

func (err *sinkError) Error() string { return err.err.Error() }

// line runs one line and reports it to the sink.
func (r *Runner) line(sink report.Sink, lg *log.Logger, n int, text string) (solve.Result, error) {
	e := report.Entry{Line: n, Text: text}
	j, err := ParseLine(n, text)
	if err != nil {
		if serr := sink.Begin(e); serr != nil {
			return solve.Result{}, &sinkError{serr}
		}
		if serr := sink.End(e, solve.Result{}, err); serr != nil {
			return solve.Result{}, &sinkError{serr}
		}
		return solve.Result{}, err
	}
	s := j.Solver(r.Defaults)
	t := &tracer{sink: sink}
	s.Trace = t
	e.Method = j.Method
	e.Expr = rootfind.Preprocess(j.F)
	e.Params = j.Params(&s)
	t.e = e
	if serr := sink.Begin(e); serr != nil {
		return solve.Result{}, &sinkError{serr}
	}
	res, f, err := j.Run(&s)
	if t.err != nil {
		return solve.Result{}, &sinkError{t.err}
	}
	if err == nil && r.Prec != 0 {
		res.Residual = r.residual(lg, n, f, res)
	}
	if err != nil {
		res = solve.Result{}
	}
	if serr := sink.End(e, res, err); serr != nil {
		return solve.Result{}, &sinkError{serr}
	}
	return res, err
}

// residual recomputes |f(root)| at the runner's precision. If that fails,
// the float64 residual is kept.
func (r *Runner) residual(lg *log.Logger, n int, f *rootfind.Function, res solve.Result) float64 {
	v, err := f.EvalPrec(res.Root, r.Prec)
	if err != nil {
		lg.Printf("line %d: recomputing residual at %d bits: %v", n, r.Prec, err)
		return res.Residual
	}
	a, _ := new(big.Float).Abs(v).Float64()
	return a
}

// tracer forwards iterations to a sink. Results are reported by the runner
// after adjusting the residual, so Done does nothing.
type tracer struct {
	sink report.Sink
	e    report.Entry
	err  error
}

func (t *tracer) Iteration(it solve.Iteration) {
	if t.err == nil {
		t.err = t.sink.Iteration(t.e, it)
	}
}

func (t *tracer) Done(solve.Result) {}
