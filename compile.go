package rootfind

import (
	"errors"
	"math"
	"math/big"
	"strings"
)

// Preprocess normalizes an expression before tokenizing. Everything through
// the first = is dropped, so "f(x)=x^2" becomes "x^2". Each e^ not preceded
// by a letter becomes exp, and all whitespace is removed.
func Preprocess(src string) string {
	if k := strings.IndexByte(src, '='); k >= 0 {
		src = src[k+1:]
	}
	var b strings.Builder
	b.Grow(len(src) + 8)
	for i := 0; i < len(src); i++ {
		if src[i] == 'e' && i+1 < len(src) && src[i+1] == '^' && (i == 0 || !isalpha(src[i-1])) {
			b.WriteString("exp")
			i++
			continue
		}
		b.WriteByte(src[i])
	}
	return strings.Join(strings.Fields(b.String()), "")
}

// Function is a compiled function of the variable x. Each evaluation
// tokenizes, parses, and evaluates the expression again; nothing is cached.
type Function struct {
	src  string
	expr string
}

// Compile preprocesses an expression and checks that it tokenizes and parses.
// Errors that depend on the value of x, and unknown function names, are
// reported by Eval.
func Compile(src string) (*Function, error) {
	expr := Preprocess(src)
	if expr == "" {
		return nil, &EvalError{Expr: expr, Err: errEmpty}
	}
	if _, err := Parse(expr); err != nil {
		return nil, &EvalError{Expr: expr, Err: err}
	}
	return &Function{src: src, expr: expr}, nil
}

// MustCompile is like Compile but panics if the expression does not compile.
func MustCompile(src string) *Function {
	f, err := Compile(src)
	if err != nil {
		panic("rootfind: " + err.Error())
	}
	return f
}

var errEmpty = errors.New("empty expression")

// Eval evaluates the function at x. Any failure is wrapped in an *EvalError.
func (f *Function) Eval(x float64) (float64, error) {
	rpn, err := Parse(f.expr)
	if err != nil {
		return 0, &EvalError{Expr: f.expr, Err: err}
	}
	r, err := EvalPostfix(rpn, x)
	if err != nil {
		return 0, &EvalError{Expr: f.expr, Err: err}
	}
	return r, nil
}

// EvalPrec evaluates the function at x to prec bits of precision. A prec of
// zero uses the precision of a float64.
func (f *Function) EvalPrec(x float64, prec uint) (*big.Float, error) {
	if prec == 0 {
		prec = 53
	}
	if math.IsNaN(x) {
		return nil, &EvalError{Expr: f.expr, Err: &DomainError{X: x, Func: Variable}}
	}
	rpn, err := Parse(f.expr)
	if err != nil {
		return nil, &EvalError{Expr: f.expr, Err: err}
	}
	r, err := EvalPostfixPrec(rpn, new(big.Float).SetPrec(prec).SetFloat64(x), prec)
	if err != nil {
		return nil, &EvalError{Expr: f.expr, Err: err}
	}
	return r, nil
}

// RPN returns the postfix form of the function.
func (f *Function) RPN() ([]Token, error) {
	return Parse(f.expr)
}

// String returns the preprocessed expression.
func (f *Function) String() string {
	return f.expr
}

// Source returns the expression as given to Compile.
func (f *Function) Source() string {
	return f.src
}
