package solve

import (
	"fmt"
	"math"

	"github.com/zephyrtronium/rootfind"
)

// bracket evaluates f at the endpoints and checks for a sign change.
func (r *run) bracket(f Func, a, b float64) (fa, fb float64, err error) {
	if fa, err = r.eval(f, a); err != nil {
		return 0, 0, err
	}
	if fb, err = r.eval(f, b); err != nil {
		return 0, 0, err
	}
	if !(fa*fb < 0) {
		return 0, 0, &MethodError{
			Method: r.res.Method,
			X:      a,
			Err:    fmt.Errorf("f(%g) = %g, f(%g) = %g: %w", a, fa, b, fb, ErrSign),
		}
	}
	return fa, fb, nil
}

// Bisection finds a root of f in [a, b] by repeatedly halving the interval.
// f(a) and f(b) must have opposite signs.
func (s *Solver) Bisection(f Func, a, b float64) (Result, error) {
	r, err := s.start(MethodBisection)
	if err != nil {
		return Result{}, err
	}
	fa, _, err := r.bracket(f, a, b)
	if err != nil {
		return Result{}, err
	}
	prev := a
	for r.more() {
		c := (a + b) / 2
		fc, err := r.eval(f, c)
		if err != nil {
			return Result{}, err
		}
		if r.step(c, fc, math.Abs(c-prev)) {
			return r.done(true)
		}
		prev = c
		if fc*fa < 0 {
			b = c
		} else {
			a, fa = c, fc
		}
	}
	return r.done(false)
}

// FalsePosition finds a root of f in [a, b] by the regula falsi method: each
// estimate is where the secant through the endpoints crosses zero, and the
// endpoint with the same sign is replaced. f(a) and f(b) must have opposite
// signs.
func (s *Solver) FalsePosition(f Func, a, b float64) (Result, error) {
	r, err := s.start(MethodFalsePosition)
	if err != nil {
		return Result{}, err
	}
	fa, fb, err := r.bracket(f, a, b)
	if err != nil {
		return Result{}, err
	}
	prev := a
	for r.more() {
		d := fb - fa
		if math.Abs(d) < Epsilon {
			return Result{}, &MethodError{
				Method: MethodFalsePosition,
				X:      b,
				Err:    fmt.Errorf("f(b) - f(a) = %g: %w", d, rootfind.ErrDivisionByZero),
			}
		}
		c := (a*fb - b*fa) / d
		fc, err := r.eval(f, c)
		if err != nil {
			return Result{}, err
		}
		if r.step(c, fc, math.Abs(c-prev)) {
			return r.done(true)
		}
		prev = c
		if fc*fa < 0 {
			b, fb = c, fc
		} else {
			a, fa = c, fc
		}
	}
	return r.done(false)
}
