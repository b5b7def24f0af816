package batch_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/zephyrtronium/rootfind"
	"github.com/zephyrtronium/rootfind/batch"
	"github.com/zephyrtronium/rootfind/report"
	"github.com/zephyrtronium/rootfind/solve"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		name string
		text string
		want batch.Job
	}{
		{
			name: "bisection",
			text: "BISSECAO;x^2-4;0;3;1e-6;100",
			want: batch.Job{Method: solve.MethodBisection, F: "x^2-4", Points: [2]float64{0, 3}, Tol: 1e-6, MaxIter: 100},
		},
		{
			name: "fixed-point",
			text: "ITERACAO_PONTO_FIXO;x-cos(x);cos(x);1;1e-8;50",
			want: batch.Job{Method: solve.MethodFixedPoint, F: "x-cos(x)", Aux: "cos(x)", Points: [2]float64{1}, Tol: 1e-8, MaxIter: 50},
		},
		{
			name: "mil",
			text: "MIL;x-cos(x);cos(x);1;1e-8;50",
			want: batch.Job{Method: solve.MethodFixedPoint, F: "x-cos(x)", Aux: "cos(x)", Points: [2]float64{1}, Tol: 1e-8, MaxIter: 50},
		},
		{
			name: "newton",
			text: "NEWTON;f(x) = x^2 - 2;df(x) = 2*x;1;1e-9;50",
			want: batch.Job{Method: solve.MethodNewton, F: "f(x) = x^2 - 2", Aux: "df(x) = 2*x", Points: [2]float64{1}, Tol: 1e-9, MaxIter: 50},
		},
		{
			name: "secant",
			text: "SECANTE;x^3-2*x-5;2;3;1e-10;20",
			want: batch.Job{Method: solve.MethodSecant, F: "x^3-2*x-5", Points: [2]float64{2, 3}, Tol: 1e-10, MaxIter: 20},
		},
		{
			name: "regula-falsi",
			text: "REGULA_FALSI;x^3-x-2;1;2;1e-7;200",
			want: batch.Job{Method: solve.MethodFalsePosition, F: "x^3-x-2", Points: [2]float64{1, 2}, Tol: 1e-7, MaxIter: 200},
		},
		{
			name: "falsa-posicao",
			text: "FALSA_POSICAO;x^3-x-2;1;2",
			want: batch.Job{Method: solve.MethodFalsePosition, F: "x^3-x-2", Points: [2]float64{1, 2}},
		},
		{
			name: "english-lowercase-spaces",
			text: "  false_position ; x^3-x-2 ; -1.5 ; 2 ; ; 30  ",
			want: batch.Job{Method: solve.MethodFalsePosition, F: "x^3-x-2", Points: [2]float64{-1.5, 2}, MaxIter: 30},
		},
		{
			name: "tol-only",
			text: "bisection;x;-1;1;0.5",
			want: batch.Job{Method: solve.MethodBisection, F: "x", Points: [2]float64{-1, 1}, Tol: 0.5},
		},
		{
			name: "fixed-point-english",
			text: "Fixed_Point;x;x/2;1",
			want: batch.Job{Method: solve.MethodFixedPoint, F: "x", Aux: "x/2", Points: [2]float64{1}},
		},
		{
			name: "secant-english",
			text: "secant;x;1;2",
			want: batch.Job{Method: solve.MethodSecant, F: "x", Points: [2]float64{1, 2}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := batch.ParseLine(7, c.text)
			if err != nil {
				t.Fatal(err)
			}
			c.want.Line = 7
			c.want.Text = strings.TrimSpace(c.text)
			if *got != c.want {
				t.Errorf("want %+v, got %+v", c.want, *got)
			}
		})
	}
}

func TestParseLineErrors(t *testing.T) {
	cases := []struct {
		text  string
		field string
	}{
		{"FOO;x;1;2", ""},
		{"", ""},
		{"NEWTON;x^2-2;1", ""},
		{"NEWTON;x^2-2;2*x;1;1e-6;10;extra", ""},
		{"BISSECAO;x^2-4;0", ""},
		{"BISSECAO;;0;3", "f"},
		{"NEWTON;x^2-2;;1", "df"},
		{"MIL;x;;1", "g"},
		{"BISSECAO;x^2-4;zero;3", "a"},
		{"BISSECAO;x^2-4;0;three", "b"},
		{"SECANTE;x;1;;1e-6", "x1"},
		{"NEWTON;x^2-2;2*x;one", "x0"},
		{"BISSECAO;x^2-4;0;3;small", "tol"},
		{"BISSECAO;x^2-4;0;3;-1", "tol"},
		{"BISSECAO;x^2-4;0;3;0", "tol"},
		{"BISSECAO;x^2-4;0;3;inf", "tol"},
		{"BISSECAO;x^2-4;0;3;+Inf", "tol"},
		{"BISSECAO;x^2-4;0;3;1e-6;lots", "maxiter"},
		{"BISSECAO;x^2-4;0;3;1e-6;0", "maxiter"},
		{"BISSECAO;x^2-4;0;3;1e-6;2.5", "maxiter"},
	}
	for _, c := range cases {
		j, err := batch.ParseLine(1, c.text)
		if err == nil {
			t.Errorf("%q: want error, got %+v", c.text, j)
			continue
		}
		var fe *batch.FieldError
		if c.field == "" {
			if errors.As(err, &fe) {
				t.Errorf("%q: want line error, got field error %v", c.text, err)
			}
			continue
		}
		if !errors.As(err, &fe) {
			t.Errorf("%q: want field error, got %v", c.text, err)
			continue
		}
		if fe.Field != c.field {
			t.Errorf("%q: want error in %s, got %v", c.text, c.field, err)
		}
	}
	if _, err := batch.ParseLine(1, "FOO;x;1;2"); !errors.Is(err, batch.ErrUnknownMethod) {
		t.Errorf("want ErrUnknownMethod, got %v", err)
	}
}

// recorder is a sink that keeps everything it receives.
type recorder struct {
	begun []report.Entry
	its   map[int][]solve.Iteration
	ends  map[int]end
}

type end struct {
	e   report.Entry
	res solve.Result
	err error
}

func newRecorder() *recorder {
	return &recorder{its: make(map[int][]solve.Iteration), ends: make(map[int]end)}
}

func (r *recorder) Begin(e report.Entry) error {
	r.begun = append(r.begun, e)
	return nil
}

func (r *recorder) Iteration(e report.Entry, it solve.Iteration) error {
	r.its[e.Line] = append(r.its[e.Line], it)
	return nil
}

func (r *recorder) End(e report.Entry, res solve.Result, err error) error {
	r.ends[e.Line] = end{e, res, err}
	return nil
}

func (r *recorder) Close() error { return nil }

const input = `# roots of some functions
BISSECAO;x^2-4;0;3;1e-6;100
newton; x^2-2 ; 2*x ; 1
MIL;x^2-2;2*x+1;1;1e-12;20
SECANTE;x^2-2;1;1;1e-6;10
FOO;x;1;2

REGULA_FALSI;x^2+1;-1;1
ITERACAO_PONTO_FIXO;x-cos(x);cos(x);1
NEWTON;1/(x-1);1;1;1e-6;10
`

func TestRun(t *testing.T) {
	rec := newRecorder()
	var logs bytes.Buffer
	r := batch.Runner{
		Defaults: solve.Solver{Tol: 1e-8, MaxIter: 100},
		Sink:     rec,
		Log:      log.New(&logs, "", 0),
	}
	st, err := r.Run(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := batch.Stats{Converged: 3, Exhausted: 1, Failed: 4, Skipped: 2}
	if st != want {
		t.Errorf("want stats %+v, got %+v", want, st)
	}
	if st.Lines() != 8 {
		t.Errorf("want 8 lines, got %d", st.Lines())
	}
	if len(rec.begun) != 8 || len(rec.ends) != 8 {
		t.Errorf("want 8 lines begun and ended, got %d and %d", len(rec.begun), len(rec.ends))
	}
	converged := map[int]float64{2: 2, 3: math.Sqrt2, 9: 0.7390851332151607}
	for line, root := range converged {
		e := rec.ends[line]
		if e.err != nil || !e.res.Converged || math.Abs(e.res.Root-root) > 1e-5 {
			t.Errorf("line %d: want root %g, got %+v, %v", line, root, e.res, e.err)
		}
	}
	for _, line := range []int{5, 6, 8, 10} {
		if e := rec.ends[line]; e.err == nil {
			t.Errorf("line %d: want failure, got %+v", line, e.res)
		}
	}
	if e := rec.ends[4]; e.err != nil || e.res.Converged || e.res.Iterations != 20 {
		t.Errorf("line 4: want exhaustion after 20 iterations, got %+v, %v", e.res, e.err)
	}
	if !errors.Is(rec.ends[5].err, rootfind.ErrDivisionByZero) {
		t.Errorf("line 5: want division by zero, got %v", rec.ends[5].err)
	}
	if !errors.Is(rec.ends[6].err, batch.ErrUnknownMethod) {
		t.Errorf("line 6: want unknown method, got %v", rec.ends[6].err)
	}
	if !errors.Is(rec.ends[8].err, solve.ErrSign) {
		t.Errorf("line 8: want sign error, got %v", rec.ends[8].err)
	}
	if e := rec.ends[6].e; e.Method != "" || e.Text != "FOO;x;1;2" {
		t.Errorf("line 6: bad entry %+v", e)
	}
	if e := rec.ends[3].e; e.Method != solve.MethodNewton || e.Expr != "x^2-2" || !strings.Contains(e.Params, "tol = 1e-08, max = 100") {
		t.Errorf("line 3: bad entry %+v", e)
	}

	for line, its := range rec.its {
		for i, it := range its {
			if it.N != i+1 {
				t.Errorf("line %d: iteration %d numbered %d", line, i+1, it.N)
			}
		}
		if e, ok := rec.ends[line]; ok && e.err == nil && len(its) != e.res.Iterations {
			t.Errorf("line %d: %d iterations traced, %d reported", line, len(its), e.res.Iterations)
		}
	}

	out := logs.String()
	for _, want := range []string{"line 4: warning:", "line 5: ", "line 6: ", "line 8: ", "line 10: "} {
		if !strings.Contains(out, want) {
			t.Errorf("log lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "line 2:") {
		t.Errorf("converged line logged:\n%s", out)
	}
}

func TestRunDefaults(t *testing.T) {
	rec := newRecorder()
	r := batch.Runner{Defaults: solve.Solver{Tol: 1e-12, MaxIter: 3}, Sink: rec}
	st, err := r.Run(context.Background(), strings.NewReader("BISSECAO;x^2-4;0;3\nBISSECAO;x^2-4;0;3;;5\n"))
	if err != nil {
		t.Fatal(err)
	}
	if st.Exhausted != 2 {
		t.Errorf("want 2 exhausted lines, got %+v", st)
	}
	if n := rec.ends[1].res.Iterations; n != 3 {
		t.Errorf("line 1: want default 3 iterations, got %d", n)
	}
	if n := rec.ends[2].res.Iterations; n != 5 {
		t.Errorf("line 2: want 5 iterations, got %d", n)
	}
	if len(rec.its[1]) != 3 || len(rec.its[2]) != 5 {
		t.Errorf("wrong traces: %d and %d", len(rec.its[1]), len(rec.its[2]))
	}
}

func TestRunPrec(t *testing.T) {
	rec := newRecorder()
	r := batch.Runner{Defaults: solve.Solver{Tol: 1e-9, MaxIter: 50}, Prec: 256, Sink: rec}
	_, err := r.Run(context.Background(), strings.NewReader("NEWTON;x^2-2;2*x;1\nNEWTON;sqrt(x)-1;0.5/sqrt(x);0.5\n"))
	if err != nil {
		t.Fatal(err)
	}
	for line := 1; line <= 2; line++ {
		e := rec.ends[line]
		if e.err != nil {
			t.Fatalf("line %d: %v", line, e.err)
		}
		its := rec.its[line]
		last := its[len(its)-1]
		if math.IsNaN(e.res.Residual) || e.res.Residual > 1e-9 {
			t.Errorf("line %d: bad residual %g", line, e.res.Residual)
		}
		// The trace keeps the float64 residual.
		if last.X != e.res.Root {
			t.Errorf("line %d: root %g differs from last estimate %g", line, e.res.Root, last.X)
		}
	}
}

func TestRunCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := batch.Runner{Defaults: solve.Solver{Tol: 1e-6, MaxIter: 10}}
	st, err := r.Run(ctx, strings.NewReader("BISSECAO;x^2-4;0;3\n"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
	if st.Lines() != 0 {
		t.Errorf("cancelled run ran lines: %+v", st)
	}
}

type brokenSink struct {
	report.Sink
	n int
}

func (b *brokenSink) Iteration(report.Entry, solve.Iteration) error {
	b.n++
	return errors.New("broken " + strconv.Itoa(b.n))
}

func TestRunSinkError(t *testing.T) {
	sink := &brokenSink{Sink: report.Discard}
	r := batch.Runner{Defaults: solve.Solver{Tol: 1e-6, MaxIter: 10}, Sink: sink}
	st, err := r.Run(context.Background(), strings.NewReader("BISSECAO;x^2-4;0;3\nBISSECAO;x^2-4;0;3\n"))
	if err == nil || !strings.Contains(err.Error(), "line 1: broken 1") {
		t.Errorf("want sink error on line 1, got %v", err)
	}
	if st.Lines() != 0 {
		t.Errorf("sink failure counted as line outcome: %+v", st)
	}
}

func TestRunNilSink(t *testing.T) {
	r := batch.Runner{Defaults: solve.Solver{Tol: 1e-6, MaxIter: 100}}
	st, err := r.Run(context.Background(), strings.NewReader("BISSECAO;x^2-4;0;3\r\nSECANTE;x^2-2;1;2\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if st.Converged != 2 {
		t.Errorf("want 2 converged lines, got %v", st)
	}
}

func TestStatsString(t *testing.T) {
	st := batch.Stats{Converged: 3, Exhausted: 1, Failed: 2, Skipped: 4}
	want := "6 lines: 3 converged, 1 not converged, 2 failed, 4 skipped"
	if got := st.String(); got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}
