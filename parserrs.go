package rootfind

import (
	"errors"
	"strconv"
)

// ErrDivisionByZero is the error that division by a value too close to zero
// unwraps to. Root finders that would divide by a vanishing difference also
// report it.
var ErrDivisionByZero = errors.New("division by zero")

// CharError is an error indicating a character that cannot start any token.
// It implements InputError.
type CharError struct {
	// Col is the position of the character.
	Col int
	// Char is the offending character.
	Char rune
}

func (err *CharError) Error() string {
	return errpos(err.Col, "unexpected character "+strconv.QuoteRune(err.Char))
}

func (err *CharError) Pos() int {
	return err.Col
}

// BracketError is an error indicating unbalanced parentheses. It implements
// InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis.
	Col int
	// Close is true when a close parenthesis had no matching open one.
	Close bool
}

func (err *BracketError) Error() string {
	if err.Close {
		return errpos(err.Col, "close parenthesis with no open parenthesis")
	}
	return errpos(err.Col, "open parenthesis with no close parenthesis")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SyntaxError is an error indicating a postfix sequence that does not reduce
// to a single value. It implements InputError.
type SyntaxError struct {
	// Col is the position of the token where evaluation failed, or 0 when the
	// failure was detected at the end of the expression.
	Col int
	// Token is the operator or function that lacked operands, if any.
	Token string
	// Msg describes the problem.
	Msg string
}

func (err *SyntaxError) Error() string {
	msg := "syntax error: " + err.Msg
	if err.Token != "" {
		msg = "syntax error: " + strconv.Quote(err.Token) + ": " + err.Msg
	}
	if err.Col <= 0 {
		return msg
	}
	return errpos(err.Col, msg)
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// FuncError is an error indicating an unrecognized function name. It
// implements InputError.
type FuncError struct {
	// Col is the position of the function name.
	Col int
	// Name is the name that was not recognized.
	Name string
}

func (err *FuncError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Name))
}

func (err *FuncError) Pos() int {
	return err.Col
}

// NumberError is an error indicating a numeric literal that does not parse.
// It implements InputError and unwraps to the conversion error.
type NumberError struct {
	// Col is the position of the literal.
	Col int
	// Text is the literal.
	Text string
	// Err is the underlying conversion error.
	Err error
}

func (err *NumberError) Error() string {
	return errpos(err.Col, "invalid number "+strconv.Quote(err.Text))
}

func (err *NumberError) Pos() int {
	return err.Col
}

func (err *NumberError) Unwrap() error {
	return err.Err
}

// DivisionError is an error indicating division by a value whose magnitude is
// below DivisionEpsilon. It implements InputError and unwraps to
// ErrDivisionByZero.
type DivisionError struct {
	// Col is the position of the division operator.
	Col int
	// Divisor is the rejected divisor.
	Divisor float64
}

func (err *DivisionError) Error() string {
	return errpos(err.Col, "division by zero or near-zero value "+strconv.FormatFloat(err.Divisor, 'g', -1, 64))
}

func (err *DivisionError) Pos() int {
	return err.Col
}

func (err *DivisionError) Unwrap() error {
	return ErrDivisionByZero
}

// DomainError is an error returned by precise evaluation when a function is
// called on an argument outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Func is the function or operator name.
	Func string
}

func (err *DomainError) Error() string {
	return strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain of " + err.Func
}

// EvalError wraps any failure of a compiled function. It names the
// preprocessed expression and unwraps to the cause.
type EvalError struct {
	// Expr is the preprocessed expression.
	Expr string
	// Err is the cause.
	Err error
}

func (err *EvalError) Error() string {
	return "evaluating " + strconv.Quote(err.Expr) + ": " + err.Err.Error()
}

func (err *EvalError) Unwrap() error {
	return err.Err
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input text implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based column of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*CharError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*FuncError)(nil)
	_ InputError = (*NumberError)(nil)
	_ InputError = (*DivisionError)(nil)
)
