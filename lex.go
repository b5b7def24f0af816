package rootfind

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// Token is a lexical unit of an expression.
type Token struct {
	// Text is the literal text of the token. For numbers it is the numeric
	// literal; for operators and functions it is the symbol or name.
	Text string
	// Kind is the token's type.
	Kind TokenKind
	// Prec is the precedence of an operator. Higher binds tighter. It is zero
	// for all other kinds.
	Prec int
	// Right indicates a right-associative operator.
	Right bool
	// Col is the 1-based column of the token in the scanned text. Synthetic
	// tokens share the column of the token that caused them.
	Col int
	// Const names the constant a number token was substituted for, "e" or
	// "pi". It is empty for literals.
	Const string
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Col)
}

// TokenKind is the type of a token.
type TokenKind int

const (
	TokenNone TokenKind = iota
	// TokenNum is a numeric literal, including the substituted constants.
	TokenNum
	// TokenVar is the free variable x.
	TokenVar
	// TokenOp is a binary operator.
	TokenOp
	// TokenFunc is a function name.
	TokenFunc
	// TokenOpen is an open parenthesis.
	TokenOpen
	// TokenClose is a close parenthesis.
	TokenClose
)

var kindnames = [...]string{
	TokenNone:  "None",
	TokenNum:   "Num",
	TokenVar:   "Var",
	TokenOp:    "Op",
	TokenFunc:  "Func",
	TokenOpen:  "Open",
	TokenClose: "Close",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(kindnames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindnames[k]
}

// Variable is the name of the free variable.
const Variable = "x"

// Text of the constants substituted for e and pi.
var (
	eText  = strconv.FormatFloat(math.E, 'g', -1, 64)
	piText = strconv.FormatFloat(math.Pi, 'g', -1, 64)
)

// operators maps each operator symbol to its precedence and associativity.
var operators = map[byte]struct {
	prec  int
	right bool
}{
	'+': {1, false},
	'-': {1, false},
	'*': {2, false},
	'/': {2, false},
	'^': {3, true},
}

func isdigit(c byte) bool { return '0' <= c && c <= '9' }
func isalpha(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }
func isspace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// Tokenize scans an expression into tokens in source order. A + or - in
// operand position is preceded by a synthetic 0 so that it is always a binary
// operator. Function names are not checked here.
func Tokenize(src string) ([]Token, error) {
	var toks []Token
	for i := 0; i < len(src); i++ {
		c := src[i]
		col := i + 1
		switch {
		case isspace(c):
			continue
		case isdigit(c), c == '.' && i+1 < len(src) && isdigit(src[i+1]):
			j := i
			for j < len(src) && (isdigit(src[j]) || src[j] == '.') {
				j++
			}
			toks = append(toks, Token{Text: src[i:j], Kind: TokenNum, Col: col})
			i = j - 1
		case c == 'x':
			toks = append(toks, Token{Text: Variable, Kind: TokenVar, Col: col})
		case c == 'e' && (i+1 >= len(src) || !isalpha(src[i+1])):
			toks = append(toks, Token{Text: eText, Kind: TokenNum, Col: col, Const: "e"})
		case c == 'p' && i+1 < len(src) && src[i+1] == 'i':
			toks = append(toks, Token{Text: piText, Kind: TokenNum, Col: col, Const: "pi"})
			i++
		case c == '(':
			toks = append(toks, Token{Text: "(", Kind: TokenOpen, Col: col})
		case c == ')':
			toks = append(toks, Token{Text: ")", Kind: TokenClose, Col: col})
		case c == '*', c == '/', c == '^':
			toks = append(toks, optoken(c, col))
		case c == '+', c == '-':
			if len(toks) == 0 {
				toks = append(toks, Token{Text: "0", Kind: TokenNum, Col: col})
			} else if k := toks[len(toks)-1].Kind; k == TokenOp || k == TokenOpen {
				toks = append(toks, Token{Text: "0", Kind: TokenNum, Col: col})
			}
			toks = append(toks, optoken(c, col))
		case isalpha(c):
			j := i
			for j < len(src) && isalpha(src[j]) {
				j++
			}
			// A digit suffix belongs to the name only when the result is a
			// known function, so log10 is one token but exp2 is exp then 2.
			k := j
			for k < len(src) && isdigit(src[k]) {
				k++
			}
			if k > j && globalfuncs[src[i:k]] != nil {
				j = k
			}
			toks = append(toks, Token{Text: src[i:j], Kind: TokenFunc, Col: col})
			i = j - 1
		default:
			r, _ := utf8.DecodeRuneInString(src[i:])
			return nil, &CharError{Col: col, Char: r}
		}
	}
	return toks, nil
}

func optoken(c byte, col int) Token {
	op := operators[c]
	return Token{Text: string(c), Kind: TokenOp, Prec: op.prec, Right: op.right, Col: col}
}
