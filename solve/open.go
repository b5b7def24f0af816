package solve

import (
	"fmt"
	"math"

	"github.com/zephyrtronium/rootfind"
)

// FixedPoint finds a root of f by iterating x = g(x) from x0. g should be a
// rearrangement of f(x) = 0 whose fixed point is the root; the residual is
// measured with f. Divergence shows only as a failure to converge.
func (s *Solver) FixedPoint(f, g Func, x0 float64) (Result, error) {
	r, err := s.start(MethodFixedPoint)
	if err != nil {
		return Result{}, err
	}
	prev := x0
	for r.more() {
		x, err := r.eval(g, prev)
		if err != nil {
			return Result{}, err
		}
		fx, err := r.eval(f, x)
		if err != nil {
			return Result{}, err
		}
		if r.step(x, fx, math.Abs(x-prev)) {
			return r.done(true)
		}
		prev = x
	}
	return r.done(false)
}

// Newton finds a root of f by Newton's method from x0, with df the derivative
// of f. It fails if the derivative at any estimate is near zero.
func (s *Solver) Newton(f, df Func, x0 float64) (Result, error) {
	r, err := s.start(MethodNewton)
	if err != nil {
		return Result{}, err
	}
	prev := x0
	for r.more() {
		fx, err := r.eval(f, prev)
		if err != nil {
			return Result{}, err
		}
		dfx, err := r.eval(df, prev)
		if err != nil {
			return Result{}, err
		}
		if math.Abs(dfx) < Epsilon {
			return Result{}, &MethodError{
				Method: MethodNewton,
				X:      prev,
				Err:    fmt.Errorf("f'(x) = %g: %w", dfx, ErrDerivative),
			}
		}
		x := prev - fx/dfx
		fnext, err := r.eval(f, x)
		if err != nil {
			return Result{}, err
		}
		if r.step(x, fnext, math.Abs(x-prev)) {
			return r.done(true)
		}
		prev = x
	}
	return r.done(false)
}

// Secant finds a root of f by the secant method from x0 and x1. It fails if
// the function values at the two most recent estimates are nearly equal,
// including initially.
func (s *Solver) Secant(f Func, x0, x1 float64) (Result, error) {
	r, err := s.start(MethodSecant)
	if err != nil {
		return Result{}, err
	}
	f0, err := r.eval(f, x0)
	if err != nil {
		return Result{}, err
	}
	f1, err := r.eval(f, x1)
	if err != nil {
		return Result{}, err
	}
	// MaxIter is at least 1, so the first pass checks the initial points.
	for r.more() {
		d := f1 - f0
		if math.Abs(d) < Epsilon {
			return Result{}, &MethodError{
				Method: MethodSecant,
				X:      x1,
				Err:    fmt.Errorf("f(x1) - f(x0) = %g: %w", d, rootfind.ErrDivisionByZero),
			}
		}
		x := x1 - f1*(x1-x0)/d
		fx, err := r.eval(f, x)
		if err != nil {
			return Result{}, err
		}
		if r.step(x, fx, math.Abs(x-x1)) {
			return r.done(true)
		}
		x0, x1 = x1, x
		f0, f1 = f1, fx
	}
	return r.done(false)
}
