package rootfind

import "strings"

// ShuntingYard converts a sequence of tokens in infix order to postfix order.
// Functions take exactly one argument, bound when the parenthesized group
// that follows them closes. A function with no parentheses stays on the
// operator stack until the enclosing group or the input ends.
func ShuntingYard(infix []Token) ([]Token, error) {
	out := make([]Token, 0, len(infix))
	var ops []Token
	for _, tok := range infix {
		switch tok.Kind {
		case TokenNum, TokenVar:
			out = append(out, tok)
		case TokenFunc, TokenOpen:
			ops = append(ops, tok)
		case TokenOp:
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.Kind != TokenOp {
					break
				}
				if top.Prec < tok.Prec || top.Prec == tok.Prec && tok.Right {
					break
				}
				out = append(out, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, tok)
		case TokenClose:
			for len(ops) > 0 && ops[len(ops)-1].Kind != TokenOpen {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			if len(ops) == 0 {
				return nil, &BracketError{Col: tok.Col, Close: true}
			}
			ops = ops[:len(ops)-1]
			if len(ops) > 0 && ops[len(ops)-1].Kind == TokenFunc {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
		default:
			panic("rootfind: unknown token: " + tok.String())
		}
	}
	for len(ops) > 0 {
		top := ops[len(ops)-1]
		if top.Kind == TokenOpen || top.Kind == TokenClose {
			return nil, &BracketError{Col: top.Col, Close: top.Kind == TokenClose}
		}
		out = append(out, top)
		ops = ops[:len(ops)-1]
	}
	return out, nil
}

// Parse tokenizes and converts an expression to postfix order.
func Parse(src string) ([]Token, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ShuntingYard(toks)
}

// FormatRPN renders a postfix sequence as space-separated token texts.
func FormatRPN(rpn []Token) string {
	var b strings.Builder
	for i, tok := range rpn {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}
