package rootfind

import (
	"errors"
	"math"
	"math/big"
	"strconv"
)

// DivisionEpsilon is the smallest divisor magnitude the evaluator accepts.
const DivisionEpsilon = 1e-12

// EvalPostfix evaluates a postfix sequence with the free variable set to x.
func EvalPostfix(rpn []Token, x float64) (float64, error) {
	stack := make([]float64, 0, len(rpn))
	for _, tok := range rpn {
		switch tok.Kind {
		case TokenNum:
			v, err := strconv.ParseFloat(tok.Text, 64)
			if err != nil {
				return 0, &NumberError{Col: tok.Col, Text: tok.Text, Err: err}
			}
			stack = append(stack, v)
		case TokenVar:
			stack = append(stack, x)
		case TokenOp:
			if len(stack) < 2 {
				return 0, &SyntaxError{Col: tok.Col, Token: tok.Text, Msg: "insufficient operands"}
			}
			r := stack[len(stack)-1]
			l := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			v, err := apply(tok, l, r)
			if err != nil {
				return 0, err
			}
			stack = append(stack, v)
		case TokenFunc:
			if len(stack) < 1 {
				return 0, &SyntaxError{Col: tok.Col, Token: tok.Text, Msg: "missing argument"}
			}
			f := globalfuncs[tok.Text]
			if f == nil {
				return 0, &FuncError{Col: tok.Col, Name: tok.Text}
			}
			stack[len(stack)-1] = f(stack[len(stack)-1])
		default:
			// Parentheses never reach postfix output.
			return 0, &SyntaxError{Col: tok.Col, Token: tok.Text, Msg: "unexpected token"}
		}
	}
	if len(stack) != 1 {
		return 0, &SyntaxError{Msg: "invalid or incomplete expression"}
	}
	return stack[0], nil
}

// apply applies a binary operator.
func apply(op Token, l, r float64) (float64, error) {
	switch op.Text {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if math.Abs(r) < DivisionEpsilon {
			return 0, &DivisionError{Col: op.Col, Divisor: r}
		}
		return l / r, nil
	case "^":
		return math.Pow(l, r), nil
	default:
		return 0, &SyntaxError{Col: op.Col, Token: op.Text, Msg: "unknown operator"}
	}
}

// EvalPostfixPrec evaluates a postfix sequence at prec bits of precision.
// Exponentiation, exp, logarithms, sqrt, abs, and the constants pi and e are
// computed to full precision; the trigonometric and hyperbolic functions are
// computed in float64.
func EvalPostfixPrec(rpn []Token, x *big.Float, prec uint) (r *big.Float, err error) {
	defer func() {
		// big.Float panics on NaN-producing operations like Inf-Inf.
		p := recover()
		if p == nil {
			return
		}
		var nan big.ErrNaN
		if e, ok := p.(error); ok && errors.As(e, &nan) {
			r, err = nil, &DomainError{X: math.NaN(), Func: nan.Error()}
			return
		}
		panic(p)
	}()
	stack := make([]*big.Float, 0, len(rpn))
	for _, tok := range rpn {
		switch tok.Kind {
		case TokenNum:
			v := bigConst(tok.Const, prec)
			if v == nil {
				var perr error
				v, _, perr = new(big.Float).SetPrec(prec).Parse(tok.Text, 10)
				if perr != nil {
					return nil, &NumberError{Col: tok.Col, Text: tok.Text, Err: perr}
				}
			}
			stack = append(stack, v)
		case TokenVar:
			stack = append(stack, new(big.Float).SetPrec(prec).Set(x))
		case TokenOp:
			if len(stack) < 2 {
				return nil, &SyntaxError{Col: tok.Col, Token: tok.Text, Msg: "insufficient operands"}
			}
			rv := stack[len(stack)-1]
			lv := stack[len(stack)-2]
			stack = stack[:len(stack)-1]
			if err := applyPrec(tok, lv, rv); err != nil {
				return nil, err
			}
		case TokenFunc:
			if len(stack) < 1 {
				return nil, &SyntaxError{Col: tok.Col, Token: tok.Text, Msg: "missing argument"}
			}
			v := stack[len(stack)-1]
			if bf := bigfuncs[tok.Text]; bf != nil {
				out := new(big.Float).SetPrec(prec)
				if err := bf(out, v); err != nil {
					return nil, err
				}
				stack[len(stack)-1] = out
				continue
			}
			f := globalfuncs[tok.Text]
			if f == nil {
				return nil, &FuncError{Col: tok.Col, Name: tok.Text}
			}
			in, _ := v.Float64()
			res := f(in)
			if math.IsNaN(res) {
				return nil, &DomainError{X: in, Func: tok.Text}
			}
			v.SetFloat64(res)
		default:
			return nil, &SyntaxError{Col: tok.Col, Token: tok.Text, Msg: "unexpected token"}
		}
	}
	if len(stack) != 1 {
		return nil, &SyntaxError{Msg: "invalid or incomplete expression"}
	}
	return stack[0], nil
}

// applyPrec applies a binary operator, storing the result in l.
func applyPrec(op Token, l, r *big.Float) error {
	switch op.Text {
	case "+":
		l.Add(l, r)
	case "-":
		l.Sub(l, r)
	case "*":
		l.Mul(l, r)
	case "/":
		if f, _ := r.Float64(); math.Abs(f) < DivisionEpsilon {
			return &DivisionError{Col: op.Col, Divisor: f}
		}
		l.Quo(l, r)
	case "^":
		out := new(big.Float).SetPrec(l.Prec())
		if err := bigPow(out, l, r); err != nil {
			return err
		}
		l.Set(out)
	default:
		return &SyntaxError{Col: op.Col, Token: op.Text, Msg: "unknown operator"}
	}
	return nil
}
