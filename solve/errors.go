package solve

import (
	"errors"
	"strconv"
)

var (
	// ErrSign means a bracketing method was given endpoints where the
	// function does not change sign.
	ErrSign = errors.New("function must have opposite signs at the interval endpoints")
	// ErrDerivative means Newton's method reached a point where the
	// derivative is near zero.
	ErrDerivative = errors.New("derivative near zero")
)

// MethodError is a fatal error from a method. Err is ErrSign, ErrDerivative,
// an error wrapping rootfind.ErrDivisionByZero, or the error from evaluating
// a function.
type MethodError struct {
	Method Method
	// X is the point where the method failed.
	X   float64
	Err error
}

func (err *MethodError) Error() string {
	return err.Method.Label() + ": at x = " + strconv.FormatFloat(err.X, 'g', -1, 64) + ": " + err.Err.Error()
}

func (err *MethodError) Unwrap() error {
	return err.Err
}

// ParamError is an error indicating an unusable tolerance or iteration limit.
type ParamError struct {
	Method Method
	Name   string
	Value  float64
}

func (err *ParamError) Error() string {
	return err.Method.Label() + ": invalid " + err.Name + " " + strconv.FormatFloat(err.Value, 'g', -1, 64)
}

// ConvergenceWarning describes a method that ran out of iterations. It is
// never returned as an error by the methods themselves; see Result.Warning.
type ConvergenceWarning struct {
	Method     Method
	Iterations int
	// Residual is |f(x)| at the final estimate.
	Residual float64
}

func (w *ConvergenceWarning) Error() string {
	return w.Method.Label() + ": no convergence in " + strconv.Itoa(w.Iterations) +
		" iterations, residual " + strconv.FormatFloat(w.Residual, 'g', 10, 64)
}
