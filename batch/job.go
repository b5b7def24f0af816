// Package batch runs root-finding jobs described by lines of text.
//
// Each line holds semicolon-separated fields. The first names the method;
// the rest are the function expressions, the starting points, and
// optionally the tolerance and the iteration limit:
//
//	BISSECAO;f;a;b[;tol[;maxiter]]
//	ITERACAO_PONTO_FIXO;f;g;x0[;tol[;maxiter]]
//	NEWTON;f;df;x0[;tol[;maxiter]]
//	SECANTE;f;x0;x1[;tol[;maxiter]]
//	REGULA_FALSI;f;a;b[;tol[;maxiter]]
//
// MIL is an alias for ITERACAO_PONTO_FIXO and FALSA_POSICAO for
// REGULA_FALSI, and each method also accepts its English name in upper
// snake case. Keywords are not case-sensitive. Blank lines and lines
// beginning with # are skipped.
package batch

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zephyrtronium/rootfind"
	"github.com/zephyrtronium/rootfind/solve"
)

var keywords = map[string]solve.Method{
	"BISSECAO":            solve.MethodBisection,
	"BISECTION":           solve.MethodBisection,
	"ITERACAO_PONTO_FIXO": solve.MethodFixedPoint,
	"MIL":                 solve.MethodFixedPoint,
	"FIXED_POINT":         solve.MethodFixedPoint,
	"NEWTON":              solve.MethodNewton,
	"SECANTE":             solve.MethodSecant,
	"SECANT":              solve.MethodSecant,
	"REGULA_FALSI":        solve.MethodFalsePosition,
	"FALSA_POSICAO":       solve.MethodFalsePosition,
	"FALSE_POSITION":      solve.MethodFalsePosition,
}

// layout describes the fields a method takes after its keyword.
type layout struct {
	aux    string // name of the second function, if any
	points [2]string
}

var layouts = map[solve.Method]layout{
	solve.MethodBisection:     {points: [2]string{"a", "b"}},
	solve.MethodFixedPoint:    {aux: "g", points: [2]string{"x0"}},
	solve.MethodNewton:        {aux: "df", points: [2]string{"x0"}},
	solve.MethodSecant:        {points: [2]string{"x0", "x1"}},
	solve.MethodFalsePosition: {points: [2]string{"a", "b"}},
}

func (l layout) npoints() int {
	if l.points[1] == "" {
		return 1
	}
	return 2
}

// ErrUnknownMethod is the error for a line whose keyword names no method.
var ErrUnknownMethod = errors.New("unknown method")

// FieldError is an error indicating a malformed field.
type FieldError struct {
	// Field is the name of the field, e.g. "x0" or "tol".
	Field string
	// Text is the field's content.
	Text string
	Err  error
}

func (err *FieldError) Error() string {
	return "field " + err.Field + " " + strconv.Quote(err.Text) + ": " + err.Err.Error()
}

func (err *FieldError) Unwrap() error {
	return err.Err
}

// Job is a parsed batch line.
type Job struct {
	// Line is the 1-based line number.
	Line int
	// Text is the line as read, without surrounding whitespace.
	Text   string
	Method solve.Method
	// F is the function whose root is sought.
	F string
	// Aux is g for the fixed-point method, df for Newton's method, and
	// empty otherwise.
	Aux string
	// Points holds the bracket [a, b], the starting points x0 and x1, or
	// just x0 in Points[0].
	Points [2]float64
	// Tol and MaxIter are the stopping criteria given on the line. Zero
	// means the line omitted them.
	Tol     float64
	MaxIter int
}

// ParseLine parses the job on a batch line.
func ParseLine(line int, text string) (*Job, error) {
	text = strings.TrimSpace(text)
	fields := strings.Split(text, ";")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	m, ok := keywords[strings.ToUpper(fields[0])]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownMethod, fields[0])
	}
	l := layouts[m]
	n := 2 + l.npoints()
	if l.aux != "" {
		n++
	}
	if len(fields) < n || len(fields) > n+2 {
		return nil, fmt.Errorf("%s takes %d to %d fields, got %d", m.Label(), n, n+2, len(fields))
	}
	j := Job{Line: line, Text: text, Method: m, F: fields[1]}
	if j.F == "" {
		return nil, &FieldError{Field: "f", Text: j.F, Err: errors.New("empty expression")}
	}
	rest := fields[2:]
	if l.aux != "" {
		j.Aux = rest[0]
		if j.Aux == "" {
			return nil, &FieldError{Field: l.aux, Text: j.Aux, Err: errors.New("empty expression")}
		}
		rest = rest[1:]
	}
	for i := 0; i < l.npoints(); i++ {
		v, err := strconv.ParseFloat(rest[i], 64)
		if err != nil {
			return nil, &FieldError{Field: l.points[i], Text: rest[i], Err: err}
		}
		j.Points[i] = v
	}
	rest = rest[l.npoints():]
	if len(rest) > 0 && rest[0] != "" {
		v, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			return nil, &FieldError{Field: "tol", Text: rest[0], Err: err}
		}
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, &FieldError{Field: "tol", Text: rest[0], Err: errors.New("must be positive and finite")}
		}
		j.Tol = v
	}
	if len(rest) > 1 && rest[1] != "" {
		v, err := strconv.Atoi(rest[1])
		if err != nil {
			return nil, &FieldError{Field: "maxiter", Text: rest[1], Err: err}
		}
		if v < 1 {
			return nil, &FieldError{Field: "maxiter", Text: rest[1], Err: errors.New("must be at least 1")}
		}
		j.MaxIter = v
	}
	return &j, nil
}

// Params describes the job's starting points and stopping criteria.
func (j *Job) Params(s *solve.Solver) string {
	l := layouts[j.Method]
	var b strings.Builder
	for i := 0; i < l.npoints(); i++ {
		fmt.Fprintf(&b, "%s = %g, ", l.points[i], j.Points[i])
	}
	if l.aux != "" {
		fmt.Fprintf(&b, "%s = %s, ", l.aux, rootfind.Preprocess(j.Aux))
	}
	fmt.Fprintf(&b, "tol = %g, max = %d", s.Tol, s.MaxIter)
	return b.String()
}

// Solver returns a solver using the job's stopping criteria, falling back to
// those of def.
func (j *Job) Solver(def solve.Solver) solve.Solver {
	if j.Tol != 0 {
		def.Tol = j.Tol
	}
	if j.MaxIter != 0 {
		def.MaxIter = j.MaxIter
	}
	return def
}

// Run compiles the job's expressions and runs its method with s. It returns
// the compiled function so the caller can evaluate it further.
func (j *Job) Run(s *solve.Solver) (solve.Result, *rootfind.Function, error) {
	f, err := rootfind.Compile(j.F)
	if err != nil {
		return solve.Result{}, nil, fmt.Errorf("f: %w", err)
	}
	var aux *rootfind.Function
	if l := layouts[j.Method]; l.aux != "" {
		aux, err = rootfind.Compile(j.Aux)
		if err != nil {
			return solve.Result{}, f, fmt.Errorf("%s: %w", l.aux, err)
		}
	}
	a, b := j.Points[0], j.Points[1]
	var res solve.Result
	switch j.Method {
	case solve.MethodBisection:
		res, err = s.Bisection(f, a, b)
	case solve.MethodFixedPoint:
		res, err = s.FixedPoint(f, aux, a)
	case solve.MethodNewton:
		res, err = s.Newton(f, aux, a)
	case solve.MethodSecant:
		res, err = s.Secant(f, a, b)
	case solve.MethodFalsePosition:
		res, err = s.FalsePosition(f, a, b)
	default:
		panic("batch: unknown method " + string(j.Method))
	}
	return res, f, err
}
