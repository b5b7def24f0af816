// Package solve implements iterative methods for finding roots of real
// functions of one variable.
//
// Every method stops when either the residual |f(x)| or the step between
// successive estimates falls below the tolerance. Running out of iterations
// is not an error: the result reports Converged == false along with the best
// estimate. Conditions under which a method cannot continue, such as a
// bracket without a sign change or a vanishing derivative, are returned as
// errors of type *MethodError.
package solve

import (
	"math"
	"strconv"
)

// Func is a real function which may fail to evaluate. *rootfind.Function
// implements Func.
type Func interface {
	Eval(x float64) (float64, error)
}

// Plain adapts an infallible function to Func.
type Plain func(float64) float64

// Eval calls f.
func (f Plain) Eval(x float64) (float64, error) {
	return f(x), nil
}

// Epsilon is the magnitude below which a derivative or a difference of
// function values is treated as zero.
const Epsilon = 1e-12

// Method identifies a root-finding method.
type Method string

const (
	MethodBisection     Method = "bisection"
	MethodFixedPoint    Method = "fixed-point"
	MethodNewton        Method = "newton"
	MethodSecant        Method = "secant"
	MethodFalsePosition Method = "false-position"
)

// Methods lists every method in a stable order.
var Methods = []Method{MethodBisection, MethodFixedPoint, MethodNewton, MethodSecant, MethodFalsePosition}

// Label returns a human-readable name for the method.
func (m Method) Label() string {
	switch m {
	case MethodBisection:
		return "Bisection"
	case MethodFixedPoint:
		return "Fixed Point (MIL)"
	case MethodNewton:
		return "Newton"
	case MethodSecant:
		return "Secant"
	case MethodFalsePosition:
		return "Regula Falsi"
	default:
		return string(m)
	}
}

// Iteration is the record of one step of a method.
type Iteration struct {
	Method Method
	// N is the 1-based iteration index.
	N int
	// X is the estimate produced by this iteration.
	X float64
	// Residual is |f(X)|.
	Residual float64
	// Step is the distance from the previous estimate.
	Step float64
}

// Result is the outcome of a method that did not fail.
type Result struct {
	Method Method
	// Root is the final estimate.
	Root float64
	// Residual is |f(Root)|.
	Residual float64
	// Step is the size of the last step.
	Step float64
	// Iterations is the number of iterations used. It equals the iteration
	// limit when Converged is false.
	Iterations int
	// Converged reports whether the tolerance was met.
	Converged bool
}

// Warning returns a *ConvergenceWarning if the result did not converge and
// nil otherwise.
func (r Result) Warning() error {
	if r.Converged {
		return nil
	}
	return &ConvergenceWarning{Method: r.Method, Iterations: r.Iterations, Residual: r.Residual}
}

func (r Result) String() string {
	s := r.Method.Label() + ": x = " + strconv.FormatFloat(r.Root, 'g', -1, 64) +
		" |f(x)| = " + strconv.FormatFloat(r.Residual, 'g', 6, 64) +
		" step = " + strconv.FormatFloat(r.Step, 'g', 6, 64) +
		" after " + strconv.Itoa(r.Iterations) + " iterations"
	if !r.Converged {
		s += " (not converged)"
	}
	return s
}

// Tracer receives the progress of a method. Iteration is called once per
// iteration and Done once when a method returns a result.
type Tracer interface {
	Iteration(Iteration)
	Done(Result)
}

// Solver holds the stopping criteria shared by all methods. The zero Solver
// is not usable; MaxIter must be at least 1.
type Solver struct {
	// Tol is the tolerance for both the residual and the step size.
	Tol float64
	// MaxIter is the iteration limit.
	MaxIter int
	// Trace, if not nil, receives each iteration and the final result.
	Trace Tracer
}

func (s *Solver) check(m Method) error {
	if s.MaxIter < 1 {
		return &ParamError{Method: m, Name: "max iterations", Value: float64(s.MaxIter)}
	}
	if !(s.Tol >= 0) {
		return &ParamError{Method: m, Name: "tolerance", Value: s.Tol}
	}
	return nil
}

// run is the state of one method invocation.
type run struct {
	s   *Solver
	res Result
}

func (s *Solver) start(m Method) (*run, error) {
	if err := s.check(m); err != nil {
		return nil, err
	}
	return &run{s: s, res: Result{Method: m}}, nil
}

// eval evaluates f, attributing failures to the method.
func (r *run) eval(f Func, x float64) (float64, error) {
	y, err := f.Eval(x)
	if err != nil {
		return 0, &MethodError{Method: r.res.Method, X: x, Err: err}
	}
	return y, nil
}

// step records an iteration and reports whether it met the tolerance.
func (r *run) step(x, fx, step float64) bool {
	r.res.Iterations++
	r.res.Root = x
	r.res.Residual = math.Abs(fx)
	r.res.Step = step
	if r.s.Trace != nil {
		r.s.Trace.Iteration(Iteration{
			Method:   r.res.Method,
			N:        r.res.Iterations,
			X:        x,
			Residual: r.res.Residual,
			Step:     step,
		})
	}
	return r.res.Residual < r.s.Tol || step < r.s.Tol
}

// more reports whether the iteration limit allows another step.
func (r *run) more() bool {
	return r.res.Iterations < r.s.MaxIter
}

func (r *run) done(converged bool) (Result, error) {
	r.res.Converged = converged
	if r.s.Trace != nil {
		r.s.Trace.Done(r.res)
	}
	return r.res, nil
}
