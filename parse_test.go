package rootfind

import (
	"errors"
	"testing"
)

func TestShuntingYard(t *testing.T) {
	cases := []struct {
		name string
		src  string
		rpn  string
	}{
		{"num", "1", "1"},
		{"var", "x", "x"},
		{"precedence", "3+4*2", "3 4 2 * +"},
		{"left-sub", "8-4-2", "8 4 - 2 -"},
		{"left-div", "8/4/2", "8 4 / 2 /"},
		{"right-pow", "2^3^2", "2 3 2 ^ ^"},
		{"pow-over-mul", "2*3^2", "2 3 2 ^ *"},
		{"paren", "(1+2)*3", "1 2 + 3 *"},
		{"nested", "((x))", "x"},
		{"unary", "-x+5", "0 x - 5 +"},
		{"unary-pow", "-x^2", "0 x 2 ^ -"},
		{"call", "sin(x)", "x sin"},
		{"call-expr", "sin(x)^2-0.5", "x sin 2 ^ 0.5 -"},
		{"nested-call", "sqrt(abs(x))", "x abs sqrt"},
		{"call-arg-expr", "cos(2*x+1)", "2 x * 1 + cos"},
		// A function without parentheses applies to everything after it.
		{"bare-call", "exp2", "2 exp"},
		{"bare-call-sum", "exp2+1", "2 1 + exp"},
		{"bare-call-group", "(exp2)+1", "2 exp 1 +"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rpn, err := Parse(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			for _, tok := range rpn {
				if tok.Kind == TokenOpen || tok.Kind == TokenClose {
					t.Errorf("%q: parenthesis in output: %v", c.src, rpn)
				}
			}
			if got := FormatRPN(rpn); got != c.rpn {
				t.Errorf("%q: want %q, got %q", c.src, c.rpn, got)
			}
		})
	}
}

func TestShuntingYardBrackets(t *testing.T) {
	cases := []struct {
		src   string
		col   int
		close bool
	}{
		{"(1+2", 1, false},
		{"((1)", 1, false},
		{"sin(x", 4, false},
		{"1+2)", 4, true},
		{")", 1, true},
		{"(1))(", 4, true},
	}
	for _, c := range cases {
		_, err := Parse(c.src)
		var be *BracketError
		if !errors.As(err, &be) {
			t.Errorf("%q: want BracketError, got %v", c.src, err)
			continue
		}
		if be.Col != c.col || be.Close != c.close {
			t.Errorf("%q: want col %d close %t, got %d %t", c.src, c.col, c.close, be.Col, be.Close)
		}
	}
}

func TestParseUnexpectedChar(t *testing.T) {
	_, err := Parse("x & 1")
	var ce *CharError
	if !errors.As(err, &ce) {
		t.Fatalf("want CharError, got %v", err)
	}
	if ce.Col != 3 {
		t.Errorf("want col 3, got %d", ce.Col)
	}
}
